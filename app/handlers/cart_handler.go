package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/teleshop-app/teleshop/app/middlewares"
	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/repositories"
	"github.com/unrolled/render"
)

type CartHandler struct {
	render       *render.Render
	validate     *validator.Validate
	cartRepo     repositories.CartRepository
	cartItemRepo repositories.CartItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
}

func NewCartHandler(
	r *render.Render,
	cartRepo repositories.CartRepository,
	cartItemRepo repositories.CartItemRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
) *CartHandler {
	return &CartHandler{
		render:       r,
		validate:     validator.New(),
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	cart, err := h.cartRepo.GetOrCreateForUser(r.Context(), user.ID)
	if err != nil {
		log.Printf("Get: failed to load cart for user %s: %v", user.ID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}

	full, err := h.cartRepo.GetWithItems(r.Context(), cart.ID)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}
	h.render.JSON(w, http.StatusOK, full)
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Qty       int    `json:"qty" validate:"required,gt=0"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	product, err := h.productRepo.GetByID(r.Context(), req.ProductID)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load product"})
		return
	}
	if product == nil || !product.Active {
		h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}

	cart, err := h.cartRepo.GetOrCreateForUser(r.Context(), user.ID)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}

	existing, err := h.cartItemRepo.GetCartAndProduct(r.Context(), cart.ID, product.ID)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart item"})
		return
	}

	if existing != nil {
		existing.Qty += req.Qty
		existing.Subtotal = existing.Price.Mul(decimal.NewFromInt(int64(existing.Qty)))
		if err := h.cartItemRepo.Update(r.Context(), existing); err != nil {
			h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update cart item"})
			return
		}
		h.render.JSON(w, http.StatusOK, existing)
		return
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Qty:       req.Qty,
		Price:     product.Price,
		Subtotal:  product.Price.Mul(decimal.NewFromInt(int64(req.Qty))),
	}
	if err := h.cartItemRepo.Add(r.Context(), item); err != nil {
		log.Printf("AddItem: failed for cart %s: %v", cart.ID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add cart item"})
		return
	}
	h.render.JSON(w, http.StatusCreated, item)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	productID := r.URL.Query().Get("product_id")
	if productID == "" {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "product_id is required"})
		return
	}

	cart, err := h.cartRepo.GetOrCreateForUser(r.Context(), user.ID)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load cart"})
		return
	}

	if err := h.cartItemRepo.Delete(r.Context(), cart.ID, productID); err != nil {
		log.Printf("RemoveItem: failed for cart %s: %v", cart.ID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to remove cart item"})
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
