package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/repositories"
	"gorm.io/gorm"
)

var ErrSlugTaken = errors.New("shop slug is already taken")

type ShopService struct {
	db         *gorm.DB
	shopRepo   repositories.ShopRepository
	memberRepo repositories.ShopMemberRepository
}

func NewShopService(db *gorm.DB, shopRepo repositories.ShopRepository, memberRepo repositories.ShopMemberRepository) *ShopService {
	return &ShopService{db: db, shopRepo: shopRepo, memberRepo: memberRepo}
}

// CreateShop creates the shop and the creator's OWNER membership in the same
// transaction; a shop never exists without an owner.
func (s *ShopService) CreateShop(ctx context.Context, ownerID, name, description string) (*models.Shop, error) {
	if name == "" {
		return nil, fmt.Errorf("shop name is required")
	}

	shopSlug := slug.Make(name)
	existing, err := s.shopRepo.GetBySlug(ctx, shopSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	shop := &models.Shop{
		Slug:        shopSlug,
		Name:        name,
		Description: description,
		Status:      models.ShopStatusOpen,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.shopRepo.Create(ctx, tx, shop); err != nil {
			return err
		}
		return s.memberRepo.Create(ctx, tx, &models.ShopMember{
			ShopID: shop.ID,
			UserID: ownerID,
			Role:   models.MemberRoleOwner,
		})
	})
	if err != nil {
		return nil, err
	}
	return shop, nil
}

func (s *ShopService) GetBySlug(ctx context.Context, shopSlug string) (*models.Shop, error) {
	return s.shopRepo.GetBySlug(ctx, shopSlug)
}

func (s *ShopService) GetByID(ctx context.Context, id string) (*models.Shop, error) {
	return s.shopRepo.GetByID(ctx, id)
}

func (s *ShopService) ListLive(ctx context.Context) ([]models.Shop, error) {
	return s.shopRepo.GetAllLive(ctx)
}

// IsMemberWithRole reports whether the user holds one of the given roles in
// the shop.
func (s *ShopService) IsMemberWithRole(ctx context.Context, shopID, userID string, roles ...string) (bool, error) {
	member, err := s.memberRepo.GetByShopAndUser(ctx, shopID, userID)
	if err != nil {
		return false, err
	}
	if member == nil {
		return false, nil
	}
	for _, role := range roles {
		if member.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (s *ShopService) UpdateShop(ctx context.Context, shop *models.Shop) error {
	return s.shopRepo.Update(ctx, shop)
}
