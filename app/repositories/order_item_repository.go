package repositories

import (
	"context"

	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error
	GetByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error)
	DeleteByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) error
}

type gormOrderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &gormOrderItemRepository{db: db}
}

func (r *gormOrderItemRepository) CreateBatch(ctx context.Context, tx *gorm.DB, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *gormOrderItemRepository) GetByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormOrderItemRepository) DeleteByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("product_id IN ?", productIDs).Delete(&models.OrderItem{}).Error
}
