package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

// CategoryCount is one row of the group-by over a shop's active products.
type CategoryCount struct {
	CategoryID string
	Count      int
}

type ProductRepositoryImpl interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetByShopPaginated(ctx context.Context, shopID string, limit, offset int) ([]models.Product, int64, error)
	GetByCategoryIDs(ctx context.Context, shopID string, categoryIDs []string, limit, offset int) ([]models.Product, int64, error)
	SearchPaginated(ctx context.Context, shopID, keyword string, limit, offset int) ([]models.Product, int64, error)
	GetUniversalFeed(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	CountActiveByCategory(ctx context.Context, shopID string) ([]CategoryCount, error)
	PluckIDsByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) ([]string, error)
	ClearCategoryRefs(ctx context.Context, tx *gorm.DB, categoryIDs []string) error
	DeleteByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("ProductImages").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("ProductImages").
		First(&product, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetByShopPaginated(ctx context.Context, shopID string, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	q := p.db.WithContext(ctx).Model(&models.Product{}).
		Where("shop_id = ? AND active = ?", shopID, true)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("ProductImages").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) GetByCategoryIDs(ctx context.Context, shopID string, categoryIDs []string, limit, offset int) ([]models.Product, int64, error) {
	if len(categoryIDs) == 0 {
		return nil, 0, nil
	}
	var products []models.Product
	var total int64

	q := p.db.WithContext(ctx).Model(&models.Product{}).
		Where("shop_id = ? AND active = ? AND category_id IN ?", shopID, true, categoryIDs)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("ProductImages").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) SearchPaginated(ctx context.Context, shopID, keyword string, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64
	searchKeyword := "%" + strings.ToLower(keyword) + "%"

	q := p.db.WithContext(ctx).Model(&models.Product{}).
		Where("shop_id = ? AND active = ?", shopID, true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchKeyword, searchKeyword)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("ProductImages").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

// GetUniversalFeed lists active products that opted into the cross-shop
// marketplace and whose shop is live, open to it, and not soft-deleted.
func (p *productRepository) GetUniversalFeed(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	q := p.db.WithContext(ctx).Model(&models.Product{}).
		Joins("JOIN shops ON shops.id = products.shop_id").
		Where("products.active = ? AND products.publish_universal = ?", true, true).
		Where("shops.publish_universal = ? AND shops.deleted_at IS NULL", true)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.
		Preload("ProductImages").
		Order("products.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) CountActiveByCategory(ctx context.Context, shopID string) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("category_id, COUNT(*) as count").
		Where("shop_id = ? AND active = ? AND category_id IS NOT NULL", shopID, true).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *productRepository) PluckIDsByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) ([]string, error) {
	if len(shopIDs) == 0 {
		return nil, nil
	}
	if tx == nil {
		tx = p.db
	}
	var ids []string
	err := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("shop_id IN ?", shopIDs).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (p *productRepository) ClearCategoryRefs(ctx context.Context, tx *gorm.DB, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = p.db
	}
	return tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id IN ?", categoryIDs).
		Update("category_id", nil).Error
}

func (p *productRepository) DeleteByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) error {
	if len(shopIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = p.db
	}
	return tx.WithContext(ctx).Where("shop_id IN ?", shopIDs).Delete(&models.Product{}).Error
}
