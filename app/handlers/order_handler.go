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
	"github.com/teleshop-app/teleshop/app/repositories"
	"github.com/teleshop-app/teleshop/app/services"
	"github.com/unrolled/render"
)

type OrderHandler struct {
	render       *render.Render
	validate     *validator.Validate
	orderService *services.OrderService
	orderRepo    repositories.OrderRepository
	shopService  *services.ShopService
}

func NewOrderHandler(
	r *render.Render,
	orderService *services.OrderService,
	orderRepo repositories.OrderRepository,
	shopService *services.ShopService,
) *OrderHandler {
	return &OrderHandler{
		render:       r,
		validate:     validator.New(),
		orderService: orderService,
		orderRepo:    orderRepo,
		shopService:  shopService,
	}
}

type createOrderRequest struct {
	ShopID  string `json:"shop_id" validate:"required"`
	CartID  string `json:"cart_id" validate:"required"`
	Comment string `json:"comment"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	order, err := h.orderService.CreateOrderFromCart(r.Context(), user, req.ShopID, req.CartID, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCartEmpty):
			h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "cart is empty"})
		case errors.Is(err, services.ErrInsufficientStock):
			h.render.JSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			log.Printf("Create: order creation failed: %v", err)
			h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create order"})
		}
		return
	}
	h.render.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	orders, err := h.orderRepo.GetOrdersByUserID(r.Context(), user.ID)
	if err != nil {
		log.Printf("ListMine: failed for user %s: %v", user.ID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list orders"})
		return
	}
	h.render.JSON(w, http.StatusOK, orders)
}

// ListForShop lists a shop's incoming orders, visible to its staff only.
func (h *OrderHandler) ListForShop(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopID"]
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	ok, err := h.shopService.IsMemberWithRole(r.Context(), shopID, user.ID,
		models.MemberRoleOwner, models.MemberRoleCollaborator, models.MemberRoleHelper)
	if err != nil {
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check membership"})
		return
	}
	if !ok {
		h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "not allowed"})
		return
	}

	orders, err := h.orderRepo.GetOrdersByShopID(r.Context(), shopID)
	if err != nil {
		log.Printf("ListForShop: failed for shop %s: %v", shopID, err)
		h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list orders"})
		return
	}
	h.render.JSON(w, http.StatusOK, orders)
}
