package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/teleshop-app/teleshop/app/repositories"
	"github.com/teleshop-app/teleshop/app/services"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	render       *render.Render
	validate     *validator.Validate
	treeService  *services.CategoryTreeService
	categoryRepo repositories.CategoryRepositoryImpl
}

func NewCategoryHandler(
	r *render.Render,
	treeService *services.CategoryTreeService,
	categoryRepo repositories.CategoryRepositoryImpl,
) *CategoryHandler {
	return &CategoryHandler{
		render:       r,
		validate:     validator.New(),
		treeService:  treeService,
		categoryRepo: categoryRepo,
	}
}

// GetAll lists the full category forest, ordered by level and position.
// ?roots=true narrows the listing to top-level categories only.
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("roots") == "true" {
		roots, err := h.categoryRepo.GetRoots(r.Context())
		if err != nil {
			log.Printf("GetAll: failed to load root categories: %v", err)
			h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load categories"})
			return
		}
		h.render.JSON(w, http.StatusOK, roots)
		return
	}

	categories, err := h.categoryRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("GetAll: failed to load categories: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load categories"})
		return
	}
	h.render.JSON(w, http.StatusOK, categories)
}

// GetCountsForShop returns every category with the shop's direct and
// subtree-inclusive product counts.
func (h *CategoryHandler) GetCountsForShop(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopID"]

	counts, err := h.treeService.CountsForShop(r.Context(), shopID)
	if err != nil {
		log.Printf("GetCountsForShop: failed for shop %s: %v", shopID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute category counts"})
		return
	}
	h.render.JSON(w, http.StatusOK, counts)
}

type createCategoryRequest struct {
	Slug     string  `json:"slug" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Icon     string  `json:"icon"`
	ParentID *string `json:"parent_id"`
	Position int     `json:"position"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	cat, err := h.treeService.CreateCategory(r.Context(), req.Slug, req.Name, req.Icon, req.ParentID, req.Position)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "parent category not found"})
			return
		}
		log.Printf("Create: failed to create category %s: %v", req.Slug, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create category"})
		return
	}
	h.render.JSON(w, http.StatusCreated, cat)
}

type moveCategoryRequest struct {
	NewParentID *string `json:"new_parent_id"`
}

func (h *CategoryHandler) Move(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]

	var req moveCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	err := h.treeService.MoveCategory(r.Context(), categoryID, req.NewParentID)
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
	case errors.Is(err, services.ErrCategoryCycle):
		h.render.JSON(w, http.StatusConflict, map[string]string{"error": "move would create a cycle"})
	case err != nil:
		log.Printf("Move: failed to move category %s: %v", categoryID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to move category"})
	default:
		h.render.JSON(w, http.StatusOK, map[string]string{"status": "moved"})
	}
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]

	err := h.treeService.DeleteCategory(r.Context(), categoryID)
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
	case err != nil:
		log.Printf("Delete: failed to delete category %s: %v", categoryID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete category"})
	default:
		h.render.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}
