package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/teleshop-app/teleshop/app/middlewares"
	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/services"
	"github.com/unrolled/render"
)

type ShopHandler struct {
	render         *render.Render
	validate       *validator.Validate
	shopService    *services.ShopService
	cleanupService *services.ShopCleanupService
}

func NewShopHandler(r *render.Render, shopService *services.ShopService, cleanupService *services.ShopCleanupService) *ShopHandler {
	return &ShopHandler{
		render:         r,
		validate:       validator.New(),
		shopService:    shopService,
		cleanupService: cleanupService,
	}
}

type createShopRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description"`
}

func (h *ShopHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req createShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	shop, err := h.shopService.CreateShop(r.Context(), user.ID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrSlugTaken) {
			h.render.JSON(w, http.StatusConflict, map[string]string{"error": "a shop with this name already exists"})
			return
		}
		log.Printf("Create: failed to create shop: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create shop"})
		return
	}
	h.render.JSON(w, http.StatusCreated, shop)
}

func (h *ShopHandler) List(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shopService.ListLive(r.Context())
	if err != nil {
		log.Printf("List: failed to list shops: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list shops"})
		return
	}
	h.render.JSON(w, http.StatusOK, shops)
}

func (h *ShopHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	shopSlug := mux.Vars(r)["slug"]

	shop, err := h.shopService.GetBySlug(r.Context(), shopSlug)
	if err != nil {
		log.Printf("GetBySlug: failed for %s: %v", shopSlug, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load shop"})
		return
	}
	if shop == nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "shop not found"})
		return
	}
	h.render.JSON(w, http.StatusOK, shop)
}

type updateShopRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	Status           *string `json:"status" validate:"omitempty,oneof=open closed paused"`
	PublishUniversal *bool   `json:"publish_universal"`
}

func (h *ShopHandler) Update(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["id"]
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	ok, err := h.shopService.IsMemberWithRole(r.Context(), shopID, user.ID, models.MemberRoleOwner, models.MemberRoleCollaborator)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check membership"})
		return
	}
	if !ok {
		h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "not allowed"})
		return
	}

	var req updateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	shop, err := h.shopService.GetByID(r.Context(), shopID)
	if err != nil || shop == nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "shop not found"})
		return
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Description != nil {
		shop.Description = *req.Description
	}
	if req.Status != nil {
		shop.Status = *req.Status
	}
	if req.PublishUniversal != nil {
		shop.PublishUniversal = *req.PublishUniversal
	}

	if err := h.shopService.UpdateShop(r.Context(), shop); err != nil {
		log.Printf("Update: failed for shop %s: %v", shopID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update shop"})
		return
	}
	h.render.JSON(w, http.StatusOK, shop)
}

// SoftDelete hides the shop and starts the 30-day recovery clock.
func (h *ShopHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["id"]
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	ok, err := h.shopService.IsMemberWithRole(r.Context(), shopID, user.ID, models.MemberRoleOwner)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check membership"})
		return
	}
	if !ok {
		h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "only the owner can delete a shop"})
		return
	}

	if err := h.cleanupService.SoftDeleteShop(r.Context(), shopID); err != nil {
		if errors.Is(err, services.ErrShopNotFound) {
			h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "shop not found"})
			return
		}
		log.Printf("SoftDelete: failed for shop %s: %v", shopID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete shop"})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Restore clears the soft-delete timestamp while the shop is still inside
// the recovery window. An already-purged shop yields 404 so the UI can show
// "already gone" instead of a generic failure.
func (h *ShopHandler) Restore(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["id"]
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	ok, err := h.shopService.IsMemberWithRole(r.Context(), shopID, user.ID, models.MemberRoleOwner)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check membership"})
		return
	}
	if !ok {
		h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "only the owner can restore a shop"})
		return
	}

	if err := h.cleanupService.RestoreShop(r.Context(), shopID); err != nil {
		if errors.Is(err, services.ErrShopNotFound) {
			h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "shop is already permanently deleted"})
			return
		}
		log.Printf("Restore: failed for shop %s: %v", shopID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to restore shop"})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
