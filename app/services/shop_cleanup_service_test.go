package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/repositories"
	"gorm.io/gorm"
)

// purgeFixture wires one shop with every dependent record type the purge
// must cascade over.
type purgeFixture struct {
	shop     *models.Shop
	product  *models.Product
	cartItem *models.CartItem
	order    *models.Order
}

var fixtureTelegramID atomic.Int64

func buildPurgeFixture(t *testing.T, db *gorm.DB, slug string, deletedDaysAgo int) *purgeFixture {
	t.Helper()

	var deletedAt = daysAgo(deletedDaysAgo)
	if deletedDaysAgo < 0 {
		deletedAt = nil
	}
	shop := seedShop(t, db, slug, deletedAt)
	owner := seedUser(t, db, 1000+fixtureTelegramID.Add(1))

	if err := db.Create(&models.ShopMember{ShopID: shop.ID, UserID: owner.ID, Role: models.MemberRoleOwner}).Error; err != nil {
		t.Fatal(err)
	}

	product := seedProduct(t, db, shop.ID, nil, slug+"-product")
	if err := db.Create(&models.ProductImage{ProductID: product.ID, Path: "/img/" + slug + ".jpg"}).Error; err != nil {
		t.Fatal(err)
	}

	cart := &models.Cart{UserID: owner.ID}
	if err := db.Create(cart).Error; err != nil {
		t.Fatal(err)
	}
	cartItem := &models.CartItem{CartID: cart.ID, ProductID: product.ID, Qty: 1, Price: product.Price, Subtotal: product.Price}
	if err := db.Create(cartItem).Error; err != nil {
		t.Fatal(err)
	}

	order := &models.Order{
		OrderCode:  "ORD-" + slug,
		ShopID:     shop.ID,
		UserID:     owner.ID,
		GrandTotal: product.Price,
		Status:     models.OrderStatusPending,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.OrderItem{OrderID: order.ID, ProductID: product.ID, ProductName: product.Name, Qty: 1, Price: product.Price, Subtotal: product.Price}).Error; err != nil {
		t.Fatal(err)
	}

	if err := db.Create(&models.Image{ShopID: shop.ID, Path: "/uploads/" + slug + ".jpg"}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.CategoryRequest{ShopID: shop.ID, Name: "new category"}).Error; err != nil {
		t.Fatal(err)
	}

	return &purgeFixture{shop: shop, product: product, cartItem: cartItem, order: order}
}

func countRowsForShop(t *testing.T, db *gorm.DB, f *purgeFixture) map[string]int64 {
	t.Helper()
	counts := map[string]int64{}
	count := func(name string, model interface{}, query string, args ...interface{}) {
		var n int64
		if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		counts[name] = n
	}
	count("shop", &models.Shop{}, "id = ?", f.shop.ID)
	count("members", &models.ShopMember{}, "shop_id = ?", f.shop.ID)
	count("products", &models.Product{}, "shop_id = ?", f.shop.ID)
	count("productImages", &models.ProductImage{}, "product_id = ?", f.product.ID)
	count("cartItems", &models.CartItem{}, "product_id = ?", f.product.ID)
	count("orders", &models.Order{}, "shop_id = ?", f.shop.ID)
	count("orderItems", &models.OrderItem{}, "product_id = ?", f.product.ID)
	count("images", &models.Image{}, "shop_id = ?", f.shop.ID)
	count("categoryRequests", &models.CategoryRequest{}, "shop_id = ?", f.shop.ID)
	return counts
}

func TestPurgeExpiredShopsCascade(t *testing.T) {
	db := memdb(t)
	svc := newCleanupService(t, db, 30)
	ctx := context.Background()

	expired := buildPurgeFixture(t, db, "expired", 31)
	recent := buildPurgeFixture(t, db, "recent", 10)
	live := buildPurgeFixture(t, db, "live", -1)

	result, err := svc.PurgeExpiredShops(ctx)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	if result.DeletedCount != 1 {
		t.Fatalf("deleted count = %d, want 1", result.DeletedCount)
	}
	if len(result.ShopIDs) != 1 || result.ShopIDs[0] != expired.shop.ID {
		t.Fatalf("purged ids = %v, want [%s]", result.ShopIDs, expired.shop.ID)
	}

	for name, n := range countRowsForShop(t, db, expired) {
		if n != 0 {
			t.Errorf("expired shop: %s rows remain (%d)", name, n)
		}
	}
	for name, n := range countRowsForShop(t, db, recent) {
		if n != 1 {
			t.Errorf("recent shop: %s rows = %d, want 1", name, n)
		}
	}
	for name, n := range countRowsForShop(t, db, live) {
		if n != 1 {
			t.Errorf("live shop: %s rows = %d, want 1", name, n)
		}
	}
}

func TestPurgeExpiredShopsEmptyIsNoop(t *testing.T) {
	db := memdb(t)
	svc := newCleanupService(t, db, 30)

	result, err := svc.PurgeExpiredShops(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.DeletedCount != 0 {
		t.Fatalf("deleted count = %d, want 0", result.DeletedCount)
	}
	if result.ShopIDs == nil || len(result.ShopIDs) != 0 {
		t.Fatalf("shop ids = %v, want empty slice", result.ShopIDs)
	}
}

func TestFindExpiredShops(t *testing.T) {
	db := memdb(t)
	svc := newCleanupService(t, db, 30)
	ctx := context.Background()

	old := seedShop(t, db, "old", daysAgo(31))
	seedShop(t, db, "fresh", daysAgo(10))
	seedShop(t, db, "alive", nil)

	expired, err := svc.FindExpiredShops(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(expired) != 1 || expired[0].ID != old.ID {
		t.Fatalf("expired = %+v, want only %s", expired, old.Slug)
	}
}

func TestRestoreShop(t *testing.T) {
	db := memdb(t)
	svc := newCleanupService(t, db, 30)
	ctx := context.Background()

	shop := seedShop(t, db, "comeback", daysAgo(5))

	if err := svc.RestoreShop(ctx, shop.ID); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	var got models.Shop
	if err := db.First(&got, "id = ?", shop.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.DeletedAt != nil {
		t.Fatal("deleted_at not cleared")
	}

	// Indistinguishable from a never-deleted shop in listings.
	live, err := repositories.NewShopRepository(db).GetAllLive(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, s := range live {
		if s.ID == shop.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("restored shop missing from live listing")
	}
}

func TestRestoreActiveShopIsNoop(t *testing.T) {
	db := memdb(t)
	svc := newCleanupService(t, db, 30)

	shop := seedShop(t, db, "active", nil)
	if err := svc.RestoreShop(context.Background(), shop.ID); err != nil {
		t.Fatalf("restore of active shop should be a no-op, got %v", err)
	}
}

func TestRestoreAfterPurgeReturnsNotFound(t *testing.T) {
	db := memdb(t)
	svc := newCleanupService(t, db, 30)
	ctx := context.Background()

	shop := seedShop(t, db, "gone", daysAgo(31))
	if _, err := svc.PurgeExpiredShops(ctx); err != nil {
		t.Fatal(err)
	}

	err := svc.RestoreShop(ctx, shop.ID)
	if !errors.Is(err, ErrShopNotFound) {
		t.Fatalf("want ErrShopNotFound, got %v", err)
	}
}

func TestSoftDeleteShop(t *testing.T) {
	db := memdb(t)
	svc := newCleanupService(t, db, 30)
	ctx := context.Background()

	shop := seedShop(t, db, "closing", nil)
	if err := svc.SoftDeleteShop(ctx, shop.ID); err != nil {
		t.Fatal(err)
	}

	var got models.Shop
	if err := db.First(&got, "id = ?", shop.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.DeletedAt == nil {
		t.Fatal("deleted_at not set")
	}
	first := *got.DeletedAt

	// A second soft delete keeps the original timestamp.
	if err := svc.SoftDeleteShop(ctx, shop.ID); err != nil {
		t.Fatal(err)
	}
	if err := db.First(&got, "id = ?", shop.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !got.DeletedAt.Equal(first) {
		t.Fatal("repeated soft delete moved the timestamp")
	}

	if err := svc.SoftDeleteShop(ctx, "no-such-shop"); !errors.Is(err, ErrShopNotFound) {
		t.Fatalf("want ErrShopNotFound, got %v", err)
	}
}

// failingCartItemRepo injects a fault into the first cascade step.
type failingCartItemRepo struct {
	repositories.CartItemRepositoryImpl
}

func (f *failingCartItemRepo) DeleteByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) error {
	return errors.New("injected fault")
}

func TestPurgeRollsBackOnFailure(t *testing.T) {
	db := memdb(t)
	svc := NewShopCleanupService(
		db,
		repositories.NewShopRepository(db),
		repositories.NewShopMemberRepository(db),
		repositories.NewProductRepository(db),
		&failingCartItemRepo{repositories.NewCartItemRepository(db)},
		repositories.NewOrderRepository(db),
		repositories.NewOrderItemRepository(db),
		repositories.NewImageRepository(db),
		repositories.NewCategoryRequestRepository(db),
		30,
	)
	ctx := context.Background()

	fixture := buildPurgeFixture(t, db, "doomed", 31)

	_, err := svc.PurgeExpiredShops(ctx)
	if err == nil || !strings.Contains(err.Error(), "injected fault") {
		t.Fatalf("want injected fault to surface, got %v", err)
	}

	// Full rollback: every row of the batch is still present.
	for name, n := range countRowsForShop(t, db, fixture) {
		if n != 1 {
			t.Errorf("after rollback: %s rows = %d, want 1", name, n)
		}
	}
}

func TestRunCleanupJobNeverFails(t *testing.T) {
	db := memdb(t)
	svc := newCleanupService(t, db, 30)
	ctx := context.Background()

	summary := svc.RunCleanupJob(ctx)
	if !strings.Contains(summary, "nothing to purge") {
		t.Fatalf("unexpected summary: %q", summary)
	}

	buildPurgeFixture(t, db, "stale", 40)
	summary = svc.RunCleanupJob(ctx)
	if !strings.Contains(summary, "purged 1 shop") {
		t.Fatalf("unexpected summary: %q", summary)
	}

	// Failures are reported as text, never as an error.
	broken := NewShopCleanupService(
		db,
		repositories.NewShopRepository(db),
		repositories.NewShopMemberRepository(db),
		repositories.NewProductRepository(db),
		&failingCartItemRepo{repositories.NewCartItemRepository(db)},
		repositories.NewOrderRepository(db),
		repositories.NewOrderItemRepository(db),
		repositories.NewImageRepository(db),
		repositories.NewCategoryRequestRepository(db),
		30,
	)
	buildPurgeFixture(t, db, "stuck", 40)
	summary = broken.RunCleanupJob(ctx)
	if !strings.Contains(summary, "failed") {
		t.Fatalf("unexpected summary for failing purge: %q", summary)
	}
}
