package migrations

import (
	"github.com/teleshop-app/teleshop/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Shop{},
		&models.ShopMember{},
		&models.Category{},
		&models.CategoryLocale{},
		&models.CategorySynonym{},
		&models.CategoryRequest{},
		&models.Product{},
		&models.ProductImage{},
		&models.Image{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}
