package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/teleshop-app/teleshop/app/middlewares"
	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/repositories"
	"github.com/teleshop-app/teleshop/app/services"
	"github.com/unrolled/render"
)

const defaultPageSize = 20

type ProductHandler struct {
	render      *render.Render
	validate    *validator.Validate
	productRepo repositories.ProductRepositoryImpl
	treeService *services.CategoryTreeService
	shopService *services.ShopService
}

func NewProductHandler(
	r *render.Render,
	productRepo repositories.ProductRepositoryImpl,
	treeService *services.CategoryTreeService,
	shopService *services.ShopService,
) *ProductHandler {
	return &ProductHandler{
		render:      r,
		validate:    validator.New(),
		productRepo: productRepo,
		treeService: treeService,
		shopService: shopService,
	}
}

func pagination(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

type pagedResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
}

// ListByShop lists a shop's active products; an optional category query
// parameter narrows the listing to that category and all of its
// descendants.
func (h *ProductHandler) ListByShop(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopID"]
	limit, offset := pagination(r)

	if keyword := r.URL.Query().Get("q"); keyword != "" {
		products, total, err := h.productRepo.SearchPaginated(r.Context(), shopID, keyword, limit, offset)
		if err != nil {
			log.Printf("ListByShop: search failed for shop %s: %v", shopID, err)
			h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "search failed"})
			return
		}
		h.render.JSON(w, http.StatusOK, pagedResponse{Items: products, Total: total})
		return
	}

	if categoryID := r.URL.Query().Get("category"); categoryID != "" {
		descendants, err := h.treeService.DescendantIDs(r.Context(), categoryID)
		if err != nil {
			log.Printf("ListByShop: descendant resolution failed for %s: %v", categoryID, err)
			h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to resolve category"})
			return
		}
		// DescendantIDs excludes the root; union it in for "this category
		// or below" filtering.
		categoryIDs := append([]string{categoryID}, descendants...)

		products, total, err := h.productRepo.GetByCategoryIDs(r.Context(), shopID, categoryIDs, limit, offset)
		if err != nil {
			log.Printf("ListByShop: category listing failed for shop %s: %v", shopID, err)
			h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list products"})
			return
		}
		h.render.JSON(w, http.StatusOK, pagedResponse{Items: products, Total: total})
		return
	}

	products, total, err := h.productRepo.GetByShopPaginated(r.Context(), shopID, limit, offset)
	if err != nil {
		log.Printf("ListByShop: failed for shop %s: %v", shopID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list products"})
		return
	}
	h.render.JSON(w, http.StatusOK, pagedResponse{Items: products, Total: total})
}

// UniversalFeed serves the cross-shop marketplace of opted-in listings.
func (h *ProductHandler) UniversalFeed(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	products, total, err := h.productRepo.GetUniversalFeed(r.Context(), limit, offset)
	if err != nil {
		log.Printf("UniversalFeed: failed: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load feed"})
		return
	}
	h.render.JSON(w, http.StatusOK, pagedResponse{Items: products, Total: total})
}

func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	productSlug := mux.Vars(r)["slug"]

	product, err := h.productRepo.GetBySlug(r.Context(), productSlug)
	if err != nil {
		log.Printf("GetBySlug: failed for %s: %v", productSlug, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load product"})
		return
	}
	if product == nil {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	h.render.JSON(w, http.StatusOK, product)
}

type createProductRequest struct {
	Name             string  `json:"name" validate:"required,min=2,max=255"`
	Description      string  `json:"description"`
	Price            string  `json:"price" validate:"required"`
	Stock            int     `json:"stock" validate:"gte=0"`
	CategoryID       *string `json:"category_id"`
	PublishUniversal bool    `json:"publish_universal"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopID"]
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	ok, err := h.shopService.IsMemberWithRole(r.Context(), shopID, user.ID,
		models.MemberRoleOwner, models.MemberRoleCollaborator)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check membership"})
		return
	}
	if !ok {
		h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "not allowed"})
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return
	}

	product := &models.Product{
		ShopID:           shopID,
		CategoryID:       req.CategoryID,
		Name:             req.Name,
		Slug:             slug.Make(req.Name + "-" + shopID[:8]),
		Description:      req.Description,
		Price:            price,
		Stock:            req.Stock,
		Active:           true,
		PublishUniversal: req.PublishUniversal,
	}
	if err := h.productRepo.Create(r.Context(), product); err != nil {
		log.Printf("Create: failed to create product in shop %s: %v", shopID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create product"})
		return
	}
	h.render.JSON(w, http.StatusCreated, product)
}
