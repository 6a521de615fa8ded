package fakers

import (
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

func ShopFaker(db *gorm.DB, owner *models.User) (*models.Shop, error) {
	name := faker.Word() + " " + faker.Word() + " store"

	shop := &models.Shop{
		ID:          uuid.New().String(),
		Slug:        slug.Make(name + "-" + uuid.NewString()[:6]),
		Name:        name,
		Description: faker.Sentence(),
		Status:      models.ShopStatusOpen,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(shop).Error; err != nil {
			return err
		}
		return tx.Create(&models.ShopMember{
			ShopID: shop.ID,
			UserID: owner.ID,
			Role:   models.MemberRoleOwner,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return shop, nil
}
