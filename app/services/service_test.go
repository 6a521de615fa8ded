package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/models/migrations"
	"github.com/teleshop-app/teleshop/app/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// memdb opens an isolated in-memory database with the full schema.
func memdb(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	if err := migrations.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTreeService(t *testing.T, db *gorm.DB) *CategoryTreeService {
	t.Helper()
	return newTreeServiceEnv(t, db, "test")
}

func newTreeServiceEnv(t *testing.T, db *gorm.DB, appEnv string) *CategoryTreeService {
	t.Helper()
	return NewCategoryTreeService(
		db,
		repositories.NewCategoryRepository(db),
		repositories.NewProductRepository(db),
		appEnv,
	)
}

func newCleanupService(t *testing.T, db *gorm.DB, retentionDays int) *ShopCleanupService {
	t.Helper()
	return NewShopCleanupService(
		db,
		repositories.NewShopRepository(db),
		repositories.NewShopMemberRepository(db),
		repositories.NewProductRepository(db),
		repositories.NewCartItemRepository(db),
		repositories.NewOrderRepository(db),
		repositories.NewOrderItemRepository(db),
		repositories.NewImageRepository(db),
		repositories.NewCategoryRequestRepository(db),
		retentionDays,
	)
}

func seedShop(t *testing.T, db *gorm.DB, name string, deletedAt *time.Time) *models.Shop {
	t.Helper()
	shop := &models.Shop{
		Slug:      name,
		Name:      name,
		Status:    models.ShopStatusOpen,
		DeletedAt: deletedAt,
	}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("failed to seed shop %s: %v", name, err)
	}
	return shop
}

func seedProduct(t *testing.T, db *gorm.DB, shopID string, categoryID *string, name string) *models.Product {
	t.Helper()
	product := &models.Product{
		ShopID:     shopID,
		CategoryID: categoryID,
		Name:       name,
		Slug:       name,
		Price:      decimal.NewFromInt(100),
		Stock:      10,
		Active:     true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}
	return product
}

func seedUser(t *testing.T, db *gorm.DB, telegramID int64) *models.User {
	t.Helper()
	user := &models.User{
		ID:         uuid.New().String(),
		TelegramID: telegramID,
		FirstName:  "Test",
		Role:       models.RoleCustomer,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func daysAgo(n int) *time.Time {
	t := time.Now().AddDate(0, 0, -n)
	return &t
}
