package repositories

import (
	"context"
	"errors"

	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

type ShopMemberRepository interface {
	Create(ctx context.Context, tx *gorm.DB, member *models.ShopMember) error
	GetByShopAndUser(ctx context.Context, shopID, userID string) (*models.ShopMember, error)
	GetByShopID(ctx context.Context, shopID string) ([]models.ShopMember, error)
	GetShopIDsForUser(ctx context.Context, userID string) ([]string, error)
	DeleteByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) error
}

type gormShopMemberRepository struct {
	db *gorm.DB
}

func NewShopMemberRepository(db *gorm.DB) ShopMemberRepository {
	return &gormShopMemberRepository{db: db}
}

func (r *gormShopMemberRepository) Create(ctx context.Context, tx *gorm.DB, member *models.ShopMember) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(member).Error
}

func (r *gormShopMemberRepository) GetByShopAndUser(ctx context.Context, shopID, userID string) (*models.ShopMember, error) {
	var member models.ShopMember
	err := r.db.WithContext(ctx).
		First(&member, "shop_id = ? AND user_id = ?", shopID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *gormShopMemberRepository) GetByShopID(ctx context.Context, shopID string) ([]models.ShopMember, error) {
	var members []models.ShopMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("shop_id = ?", shopID).
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *gormShopMemberRepository) GetShopIDsForUser(ctx context.Context, userID string) ([]string, error) {
	var shopIDs []string
	err := r.db.WithContext(ctx).
		Model(&models.ShopMember{}).
		Where("user_id = ?", userID).
		Pluck("shop_id", &shopIDs).Error
	if err != nil {
		return nil, err
	}
	return shopIDs, nil
}

func (r *gormShopMemberRepository) DeleteByShopIDs(ctx context.Context, tx *gorm.DB, shopIDs []string) error {
	if len(shopIDs) == 0 {
		return nil
	}
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Where("shop_id IN ?", shopIDs).Delete(&models.ShopMember{}).Error
}
