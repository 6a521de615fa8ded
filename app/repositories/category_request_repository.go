package repositories

import (
	"context"

	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

type CategoryRequestRepository interface {
	Create(ctx context.Context, request *models.CategoryRequest) error
	GetByShopID(ctx context.Context, shopID string) ([]models.CategoryRequest, error)
	GetPending(ctx context.Context) ([]models.CategoryRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) error
}

type gormCategoryRequestRepository struct {
	db *gorm.DB
}

func NewCategoryRequestRepository(db *gorm.DB) CategoryRequestRepository {
	return &gormCategoryRequestRepository{db: db}
}

func (r *gormCategoryRequestRepository) Create(ctx context.Context, request *models.CategoryRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *gormCategoryRequestRepository) GetByShopID(ctx context.Context, shopID string) ([]models.CategoryRequest, error) {
	var requests []models.CategoryRequest
	err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *gormCategoryRequestRepository) GetPending(ctx context.Context) ([]models.CategoryRequest, error) {
	var requests []models.CategoryRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.CategoryRequestPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *gormCategoryRequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.CategoryRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *gormCategoryRequestRepository) DeleteByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) error {
	if len(shopIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("shop_id IN ?", shopIDs).Delete(&models.CategoryRequest{}).Error
}
