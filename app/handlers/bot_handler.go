package handlers

import (
	"log"
	"net/http"

	"github.com/teleshop-app/teleshop/app/services"
	"github.com/unrolled/render"
)

// BotHandler exposes the bot identity so the Mini App frontend can build
// t.me deep links without hardcoding the bot username.
type BotHandler struct {
	render   *render.Render
	telegram services.TelegramClient
}

func NewBotHandler(r *render.Render, telegram services.TelegramClient) *BotHandler {
	return &BotHandler{render: r, telegram: telegram}
}

func (h *BotHandler) Info(w http.ResponseWriter, r *http.Request) {
	info, err := h.telegram.GetBotInfo(r.Context())
	if err != nil {
		log.Printf("Info: failed to load bot info: %v", err)
		h.render.JSON(w, http.StatusBadGateway, map[string]string{"error": "failed to load bot info"})
		return
	}
	h.render.JSON(w, http.StatusOK, info)
}
