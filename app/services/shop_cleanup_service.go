package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/repositories"
	"gorm.io/gorm"
)

const DefaultShopRetentionDays = 30

var (
	ErrShopNotFound = errors.New("shop not found or already purged")
)

// CleanupResult reports one purge invocation for operator-facing output.
type CleanupResult struct {
	DeletedCount int      `json:"deleted_count"`
	ShopIDs      []string `json:"shop_ids"`
}

// ShopCleanupService governs the soft-deleted shop lifecycle: expired shops
// are purged with all dependent rows in one transaction, shops inside the
// retention window can be restored. Purging is invoked externally (CLI or
// admin endpoint); there is no internal timer.
type ShopCleanupService struct {
	db            *gorm.DB
	shopRepo      repositories.ShopRepository
	memberRepo    repositories.ShopMemberRepository
	productRepo   repositories.ProductRepositoryImpl
	cartItemRepo  repositories.CartItemRepositoryImpl
	orderRepo     repositories.OrderRepository
	orderItemRepo repositories.OrderItemRepository
	imageRepo     repositories.ImageRepository
	requestRepo   repositories.CategoryRequestRepository
	retentionDays int
	now           func() time.Time
}

func NewShopCleanupService(
	db *gorm.DB,
	shopRepo repositories.ShopRepository,
	memberRepo repositories.ShopMemberRepository,
	productRepo repositories.ProductRepositoryImpl,
	cartItemRepo repositories.CartItemRepositoryImpl,
	orderRepo repositories.OrderRepository,
	orderItemRepo repositories.OrderItemRepository,
	imageRepo repositories.ImageRepository,
	requestRepo repositories.CategoryRequestRepository,
	retentionDays int,
) *ShopCleanupService {
	if retentionDays <= 0 {
		retentionDays = DefaultShopRetentionDays
	}
	return &ShopCleanupService{
		db:            db,
		shopRepo:      shopRepo,
		memberRepo:    memberRepo,
		productRepo:   productRepo,
		cartItemRepo:  cartItemRepo,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		imageRepo:     imageRepo,
		requestRepo:   requestRepo,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func (s *ShopCleanupService) cutoff() time.Time {
	return s.now().AddDate(0, 0, -s.retentionDays)
}

// FindExpiredShops lists shops whose soft-delete timestamp is older than the
// retention window, for audit logging before any destructive action.
func (s *ShopCleanupService) FindExpiredShops(ctx context.Context) ([]models.Shop, error) {
	return s.shopRepo.FindExpired(ctx, s.cutoff())
}

// PurgeExpiredShops permanently deletes every expired shop and its dependent
// rows in a single transaction, child before parent:
// cart items -> order items -> product images -> products -> orders ->
// memberships -> images -> category requests -> shops.
// The expiry filter is re-applied inside the transaction, so a shop restored
// between selection and deletion survives.
func (s *ShopCleanupService) PurgeExpiredShops(ctx context.Context) (*CleanupResult, error) {
	expired, err := s.FindExpiredShops(ctx)
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return &CleanupResult{DeletedCount: 0, ShopIDs: []string{}}, nil
	}

	for _, shop := range expired {
		log.Printf("PurgeExpiredShops: purging shop %s (%s), soft-deleted at %v", shop.Slug, shop.ID, shop.DeletedAt)
	}

	var purgedIDs []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidateIDs := make([]string, 0, len(expired))
		for _, shop := range expired {
			candidateIDs = append(candidateIDs, shop.ID)
		}

		// Re-check expiry inside the transaction; a concurrent restore
		// between selection and here wins.
		var shopIDs []string
		if err := tx.WithContext(ctx).
			Model(&models.Shop{}).
			Where("id IN ? AND deleted_at IS NOT NULL AND deleted_at < ?", candidateIDs, s.cutoff()).
			Pluck("id", &shopIDs).Error; err != nil {
			return err
		}
		if len(shopIDs) == 0 {
			return nil
		}

		productIDs, err := s.productRepo.PluckIDsByShopIDs(ctx, tx, shopIDs)
		if err != nil {
			return err
		}

		if err := s.cartItemRepo.DeleteByProductIDs(ctx, tx, productIDs); err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		if err := s.orderItemRepo.DeleteByProductIDs(ctx, tx, productIDs); err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := s.imageRepo.DeleteProductImagesByProductIDs(ctx, tx, productIDs); err != nil {
			return fmt.Errorf("failed to delete product images: %w", err)
		}
		if err := s.productRepo.DeleteByShopIDs(ctx, tx, shopIDs); err != nil {
			return fmt.Errorf("failed to delete products: %w", err)
		}
		if err := s.orderRepo.DeleteByShopIDs(ctx, tx, shopIDs); err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}
		if err := s.memberRepo.DeleteByShopIDs(ctx, tx, shopIDs); err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}
		if err := s.imageRepo.DeleteByShopIDs(ctx, tx, shopIDs); err != nil {
			return fmt.Errorf("failed to delete images: %w", err)
		}
		if err := s.requestRepo.DeleteByShopIDs(ctx, tx, shopIDs); err != nil {
			return fmt.Errorf("failed to delete category requests: %w", err)
		}
		if err := s.shopRepo.DeleteByIDs(ctx, tx, shopIDs); err != nil {
			return fmt.Errorf("failed to delete shops: %w", err)
		}

		purgedIDs = shopIDs
		return nil
	})
	if err != nil {
		return nil, err
	}

	if purgedIDs == nil {
		purgedIDs = []string{}
	}
	return &CleanupResult{DeletedCount: len(purgedIDs), ShopIDs: purgedIDs}, nil
}

// SoftDeleteShop starts the retention clock on a shop. Already-deleted
// shops keep their original timestamp.
func (s *ShopCleanupService) SoftDeleteShop(ctx context.Context, shopID string) error {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return ErrShopNotFound
	}
	if shop.DeletedAt != nil {
		return nil
	}
	t := s.now()
	rows, err := s.shopRepo.SetDeletedAt(ctx, shopID, &t)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrShopNotFound
	}
	return nil
}

// RestoreShop clears the soft-delete timestamp. Restoring an already-active
// shop is a harmless no-op; restoring a shop the purge job already removed
// surfaces ErrShopNotFound so callers can tell "already gone" apart from a
// generic failure.
func (s *ShopCleanupService) RestoreShop(ctx context.Context, shopID string) error {
	shop, err := s.shopRepo.GetByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return ErrShopNotFound
	}
	if shop.DeletedAt == nil {
		return nil
	}

	rows, err := s.shopRepo.SetDeletedAt(ctx, shopID, nil)
	if err != nil {
		return err
	}
	if rows == 0 {
		// Lost the race against a concurrent purge.
		return ErrShopNotFound
	}
	return nil
}

// RunCleanupJob wraps PurgeExpiredShops for cron-style callers that only
// log text: it never returns an error, failures are folded into the
// summary string.
func (s *ShopCleanupService) RunCleanupJob(ctx context.Context) string {
	result, err := s.PurgeExpiredShops(ctx)
	if err != nil {
		log.Printf("RunCleanupJob: cleanup failed: %v", err)
		return fmt.Sprintf("shop cleanup failed: %v", err)
	}
	if result.DeletedCount == 0 {
		return "shop cleanup: nothing to purge"
	}
	return fmt.Sprintf("shop cleanup: purged %d shop(s): %s",
		result.DeletedCount, strings.Join(result.ShopIDs, ", "))
}
