package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/repositories"
	"github.com/teleshop-app/teleshop/app/utils/format"
	"gorm.io/gorm"
)

var (
	ErrCartEmpty         = errors.New("cart is empty or not found")
	ErrInsufficientStock = errors.New("insufficient product stock")
)

type OrderService struct {
	db            *gorm.DB
	cartItemRepo  repositories.CartItemRepositoryImpl
	productRepo   repositories.ProductRepositoryImpl
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	notifier      OrderNotifier
}

// OrderNotifier pushes order confirmations to the buyer; nil disables
// notifications (tests, CLI seeding).
type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, telegramID int64, text string) error
}

func NewOrderService(
	db *gorm.DB,
	cartItemRepo repositories.CartItemRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	notifier OrderNotifier,
) *OrderService {
	return &OrderService{
		db:            db,
		cartItemRepo:  cartItemRepo,
		productRepo:   productRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		notifier:      notifier,
	}
}

// CreateOrderFromCart turns the cart items belonging to one shop into an
// order: stock is checked and decremented, the order and its items are
// written, and the cart items are cleared, all inside one transaction.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, user *models.User, shopID, cartID, comment string) (*models.Order, error) {
	items, err := s.cartItemRepo.GetByCartID(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	var order *models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderItems := make([]models.OrderItem, 0, len(items))
		grandTotal := decimal.Zero

		for _, item := range items {
			var product models.Product
			if err := tx.WithContext(ctx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				return fmt.Errorf("product %s not found: %w", item.ProductID, err)
			}
			if product.ShopID != shopID {
				continue
			}
			if product.Stock < item.Qty {
				return fmt.Errorf("%w: product %s", ErrInsufficientStock, product.Name)
			}

			if err := tx.WithContext(ctx).
				Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", item.Qty)).Error; err != nil {
				return err
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Qty)))
			orderItems = append(orderItems, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Qty:         item.Qty,
				Price:       product.Price,
				Subtotal:    subtotal,
			})
			grandTotal = grandTotal.Add(subtotal)
		}

		if len(orderItems) == 0 {
			return ErrCartEmpty
		}

		order = &models.Order{
			OrderCode:  generateOrderCode(),
			ShopID:     shopID,
			UserID:     user.ID,
			OrderDate:  time.Now(),
			GrandTotal: grandTotal,
			Comment:    comment,
			Status:     models.OrderStatusPending,
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}

		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := s.orderItemRepo.CreateBatch(ctx, tx, orderItems); err != nil {
			return err
		}
		order.OrderItems = orderItems

		return s.cartItemRepo.ClearCartItems(ctx, tx, cartID)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil && user.TelegramID != 0 {
		text := fmt.Sprintf("Order %s placed: %d item(s), total %s",
			order.OrderCode, len(order.OrderItems), format.FormatMoney(order.GrandTotal, "RUB"))
		if err := s.notifier.NotifyOrderCreated(ctx, user.TelegramID, text); err != nil {
			log.Printf("CreateOrderFromCart: failed to notify user %d: %v", user.TelegramID, err)
		}
	}

	return order, nil
}

func generateOrderCode() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}
