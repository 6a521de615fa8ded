package seeders

import (
	"context"
	"log"

	"github.com/teleshop-app/teleshop/app/db/fakers"
	"github.com/teleshop-app/teleshop/app/repositories"
	"github.com/teleshop-app/teleshop/app/services"
	"gorm.io/gorm"
)

// SeedCategories synchronizes the default category tree using the given
// strategy ("reconcile" or "reset"; anything else reconciles).
func SeedCategories(ctx context.Context, db *gorm.DB, strategy, appEnv string) error {
	svc := services.NewCategoryTreeService(
		db,
		repositories.NewCategoryRepository(db),
		repositories.NewProductRepository(db),
		appEnv,
	)
	return svc.Sync(ctx, DefaultCategoryTree, strategy)
}

// DBSeed fills the database with the platform admin and faked demo shops
// and products for development environments.
func DBSeed(db *gorm.DB, adminPassword string) error {
	if adminPassword == "" {
		adminPassword = "admin"
		log.Println("Warning: ADMIN_PASSWORD is empty, seeding admin with the default password")
	}
	admin, err := fakers.AdminFaker(db, adminPassword)
	if err != nil {
		return err
	}
	log.Printf("Seeded admin user %s", admin.Username)

	owner, err := fakers.UserFaker(db)
	if err != nil {
		return err
	}

	for i := 0; i < 3; i++ {
		shop, err := fakers.ShopFaker(db, owner)
		if err != nil {
			return err
		}
		for j := 0; j < 5; j++ {
			if _, err := fakers.ProductFaker(db, shop); err != nil {
				return err
			}
		}
		log.Printf("Seeded shop %s with 5 products", shop.Slug)
	}
	return nil
}
