package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/teleshop-app/teleshop/app/db/seeders"
	"github.com/teleshop-app/teleshop/app/services"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

// AdminHandler exposes operator endpoints: the cleanup trigger for the
// external cron and the category synchronization.
type AdminHandler struct {
	render         *render.Render
	db             *gorm.DB
	cleanupService *services.ShopCleanupService
	appEnv         string
}

func NewAdminHandler(r *render.Render, db *gorm.DB, cleanupService *services.ShopCleanupService, appEnv string) *AdminHandler {
	return &AdminHandler{
		render:         r,
		db:             db,
		cleanupService: cleanupService,
		appEnv:         appEnv,
	}
}

// TriggerCleanup purges expired shops. The purge itself is pull-based;
// this endpoint is the pull.
func (h *AdminHandler) TriggerCleanup(w http.ResponseWriter, r *http.Request) {
	result, err := h.cleanupService.PurgeExpiredShops(r.Context())
	if err != nil {
		log.Printf("TriggerCleanup: purge failed: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "cleanup failed"})
		return
	}
	h.render.JSON(w, http.StatusOK, result)
}

// SyncCategories runs category synchronization with the strategy given in
// the query (defaults to reconcile).
func (h *AdminHandler) SyncCategories(w http.ResponseWriter, r *http.Request) {
	strategy := r.URL.Query().Get("strategy")

	err := seeders.SeedCategories(r.Context(), h.db, strategy, h.appEnv)
	if err != nil {
		if errors.Is(err, services.ErrResetForbidden) {
			h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "reset synchronization is disabled in production"})
			return
		}
		log.Printf("SyncCategories: sync failed (strategy=%q): %v", strategy, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "category sync failed"})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "synced"})
}

func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
