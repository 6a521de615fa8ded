package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

type ShopRepository interface {
	Create(ctx context.Context, tx *gorm.DB, shop *models.Shop) error
	Update(ctx context.Context, shop *models.Shop) error
	GetByID(ctx context.Context, id string) (*models.Shop, error)
	GetBySlug(ctx context.Context, slug string) (*models.Shop, error)
	GetAllLive(ctx context.Context) ([]models.Shop, error)
	SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) (int64, error)
	FindExpired(ctx context.Context, cutoff time.Time) ([]models.Shop, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
}

type gormShopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) ShopRepository {
	return &gormShopRepository{db: db}
}

func (r *gormShopRepository) Create(ctx context.Context, tx *gorm.DB, shop *models.Shop) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(shop).Error
}

func (r *gormShopRepository) Update(ctx context.Context, shop *models.Shop) error {
	shop.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(shop).Error
}

// GetByID returns the shop regardless of soft-delete state so the restore
// flow can find it.
func (r *gormShopRepository) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

// GetBySlug only returns live shops; soft-deleted shops are hidden from
// slug-based public lookups.
func (r *gormShopRepository) GetBySlug(ctx context.Context, slug string) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.WithContext(ctx).
		First(&shop, "slug = ? AND deleted_at IS NULL", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shop, nil
}

func (r *gormShopRepository) GetAllLive(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("created_at DESC").
		Find(&shops).Error
	if err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *gormShopRepository) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Shop{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": deletedAt,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

func (r *gormShopRepository) FindExpired(ctx context.Context, cutoff time.Time) ([]models.Shop, error) {
	var shops []models.Shop
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Find(&shops).Error
	if err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *gormShopRepository) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Shop{}).Error
}
