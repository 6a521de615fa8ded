package repositories

import (
	"context"
	"errors"

	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

type CategoryRepositoryImpl interface {
	Create(ctx context.Context, tx *gorm.DB, category *models.Category) error
	Update(ctx context.Context, tx *gorm.DB, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByParentIDs(ctx context.Context, parentIDs []string) ([]models.Category, error)
	GetRoots(ctx context.Context) ([]models.Category, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
	UpsertLocale(ctx context.Context, tx *gorm.DB, categoryID, locale, name string) error
	DeleteLocalesByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []string) error
	DeleteSynonymsByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Update(ctx context.Context, tx *gorm.DB, category *models.Category) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Category, error) {
	if tx == nil {
		tx = r.db
	}
	var category models.Category
	err := tx.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Order("level ASC, position ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetByParentIDs(ctx context.Context, parentIDs []string) ([]models.Category, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetRoots(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("position ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Category{}).Error
}

func (r *categoryRepository) UpsertLocale(ctx context.Context, tx *gorm.DB, categoryID, locale, name string) error {
	if tx == nil {
		tx = r.db
	}
	var existing models.CategoryLocale
	err := tx.WithContext(ctx).
		First(&existing, "category_id = ? AND locale = ?", categoryID, locale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.WithContext(ctx).Create(&models.CategoryLocale{
				CategoryID: categoryID,
				Locale:     locale,
				Name:       name,
			}).Error
		}
		return err
	}
	if existing.Name == name {
		return nil
	}
	existing.Name = name
	return tx.WithContext(ctx).Save(&existing).Error
}

func (r *categoryRepository) DeleteLocalesByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("category_id IN ?", categoryIDs).Delete(&models.CategoryLocale{}).Error
}

func (r *categoryRepository) DeleteSynonymsByCategoryIDs(ctx context.Context, tx *gorm.DB, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("category_id IN ?", categoryIDs).Delete(&models.CategorySynonym{}).Error
}
