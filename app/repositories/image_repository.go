package repositories

import (
	"context"

	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByShopID(ctx context.Context, shopID string) ([]models.Image, error)
	DeleteByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) error
	DeleteProductImagesByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) error
}

type gormImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &gormImageRepository{db: db}
}

func (r *gormImageRepository) Create(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *gormImageRepository) GetByShopID(ctx context.Context, shopID string) ([]models.Image, error) {
	var images []models.Image
	err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *gormImageRepository) DeleteByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) error {
	if len(shopIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("shop_id IN ?", shopIDs).Delete(&models.Image{}).Error
}

func (r *gormImageRepository) DeleteProductImagesByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("product_id IN ?", productIDs).Delete(&models.ProductImage{}).Error
}
