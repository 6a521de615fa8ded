package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/teleshop-app/teleshop/app/models"
	"github.com/teleshop-app/teleshop/app/repositories"
	"gorm.io/gorm"
)

const (
	SyncStrategyReconcile = "reconcile"
	SyncStrategyReset     = "reset"

	DefaultLocale = "en"

	// maxTreeDepth bounds every traversal so a manually corrupted parent
	// chain cannot loop forever.
	maxTreeDepth = 100
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryCycle    = errors.New("category move would create a cycle")
	ErrResetForbidden   = errors.New("reset synchronization is not allowed in production")
)

// SyncSourceNode is one node of the declarative category source tree.
// Sibling order in Children determines the persisted position.
type SyncSourceNode struct {
	Slug     string
	Name     string
	Icon     string
	Children []SyncSourceNode
}

// CategoryCountNode is the per-category result of CountsForShop.
type CategoryCountNode struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	ParentID             *string `json:"parent_id"`
	Level                int     `json:"level"`
	CountDirect          int     `json:"count_direct"`
	CountWithDescendants int     `json:"count_with_descendants"`
}

type CategoryTreeService struct {
	db           *gorm.DB
	categoryRepo repositories.CategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	appEnv       string
}

func NewCategoryTreeService(
	db *gorm.DB,
	categoryRepo repositories.CategoryRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	appEnv string,
) *CategoryTreeService {
	return &CategoryTreeService{
		db:           db,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		appEnv:       appEnv,
	}
}

// Sync runs one synchronization pass with the given strategy. Unknown
// strategies fall back to the additive reconcile.
func (s *CategoryTreeService) Sync(ctx context.Context, tree []SyncSourceNode, strategy string) error {
	switch strategy {
	case SyncStrategyReset:
		return s.Reset(ctx, tree)
	case SyncStrategyReconcile, "":
		return s.Reconcile(ctx, tree)
	default:
		log.Printf("Sync: unknown strategy %q, falling back to reconcile", strategy)
		return s.Reconcile(ctx, tree)
	}
}

// Reconcile upserts every node of the source tree by slug. Categories that
// exist in the store but not in the tree are left untouched, so manually
// created categories survive a resync. Running it twice with the same tree
// is a no-op the second time.
func (s *CategoryTreeService) Reconcile(ctx context.Context, tree []SyncSourceNode) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.reconcileTx(ctx, tx, tree)
	})
}

// syncWorkItem is one queued node of the pre-order walk. The parent id is
// resolved when the parent itself is upserted, so the walk never relies on
// call-stack depth.
type syncWorkItem struct {
	node     SyncSourceNode
	parentID *string
	level    int
	position int
}

func (s *CategoryTreeService) reconcileTx(ctx context.Context, tx *gorm.DB, tree []SyncSourceNode) error {
	stack := make([]syncWorkItem, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, syncWorkItem{node: tree[i], parentID: nil, level: 0, position: i})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cat, err := s.upsertNode(ctx, tx, item)
		if err != nil {
			return err
		}

		children := item.node.Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, syncWorkItem{
				node:     children[i],
				parentID: &cat.ID,
				level:    item.level + 1,
				position: i,
			})
		}
	}

	return nil
}

func (s *CategoryTreeService) upsertNode(ctx context.Context, tx *gorm.DB, item syncWorkItem) (*models.Category, error) {
	if item.node.Slug == "" || item.node.Name == "" {
		return nil, fmt.Errorf("invalid source node: slug and name are required (slug=%q)", item.node.Slug)
	}

	cat, err := s.categoryRepo.GetBySlug(ctx, tx, item.node.Slug)
	if err != nil {
		return nil, err
	}

	if cat == nil {
		cat = &models.Category{
			Slug:     item.node.Slug,
			Name:     item.node.Name,
			Icon:     item.node.Icon,
			ParentID: item.parentID,
			Level:    item.level,
			Position: item.position,
			Active:   true,
		}
		if err := s.categoryRepo.Create(ctx, tx, cat); err != nil {
			return nil, err
		}
	} else {
		cat.Name = item.node.Name
		cat.Icon = item.node.Icon
		cat.ParentID = item.parentID
		cat.Level = item.level
		cat.Position = item.position
		cat.Active = true
		if err := s.categoryRepo.Update(ctx, tx, cat); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.UpsertLocale(ctx, tx, cat.ID, DefaultLocale, item.node.Name); err != nil {
		return nil, err
	}

	return cat, nil
}

// Reset removes every persisted category whose slug is absent from the
// source tree, then reconciles. Products referencing a removed category get
// their category reference cleared, never deleted. The whole pass is one
// transaction; a failure anywhere rolls everything back.
//
// Destructive. Gated out of production: intended for development and
// staging datasets only.
func (s *CategoryTreeService) Reset(ctx context.Context, tree []SyncSourceNode) error {
	if s.appEnv == "production" {
		return ErrResetForbidden
	}

	keep := make(map[string]bool)
	stack := make([]SyncSourceNode, len(tree))
	copy(stack, tree)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		keep[node.Slug] = true
		stack = append(stack, node.Children...)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Category
		if err := tx.WithContext(ctx).Find(&existing).Error; err != nil {
			return err
		}

		var removeIDs []string
		for _, cat := range existing {
			if !keep[cat.Slug] {
				removeIDs = append(removeIDs, cat.ID)
			}
		}

		if len(removeIDs) > 0 {
			if err := s.productRepo.ClearCategoryRefs(ctx, tx, removeIDs); err != nil {
				return err
			}
			if err := s.categoryRepo.DeleteLocalesByCategoryIDs(ctx, tx, removeIDs); err != nil {
				return err
			}
			if err := s.categoryRepo.DeleteSynonymsByCategoryIDs(ctx, tx, removeIDs); err != nil {
				return err
			}
			if err := s.categoryRepo.DeleteByIDs(ctx, tx, removeIDs); err != nil {
				return err
			}
			log.Printf("Reset: removed %d categories not present in source tree", len(removeIDs))
		}

		return s.reconcileTx(ctx, tx, tree)
	})
}

// CountsForShop returns every category together with the shop's direct
// active-product count and the count including all descendants. Categories
// are global; only the product counts are shop-scoped. Zero-count branches
// are returned as-is, hiding them is the caller's concern.
func (s *CategoryTreeService) CountsForShop(ctx context.Context, shopID string) ([]CategoryCountNode, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.productRepo.CountActiveByCategory(ctx, shopID)
	if err != nil {
		return nil, err
	}
	direct := make(map[string]int, len(counts))
	for _, row := range counts {
		direct[row.CategoryID] = row.Count
	}

	ids := make(map[string]bool, len(categories))
	for _, cat := range categories {
		ids[cat.ID] = true
	}

	children := make(map[string][]string, len(categories))
	var roots []string
	for _, cat := range categories {
		switch {
		case cat.ParentID == nil:
			roots = append(roots, cat.ID)
		case !ids[*cat.ParentID]:
			// Dangling parent reference: treat the node as a root so its
			// products still show up in the counts.
			log.Printf("CountsForShop: category %s references missing parent %s", cat.ID, *cat.ParentID)
			roots = append(roots, cat.ID)
		default:
			children[*cat.ParentID] = append(children[*cat.ParentID], cat.ID)
		}
	}

	// Post-order worklist: a node is summed once all of its children have
	// been resolved into the memo.
	total := make(map[string]int, len(categories))
	type frame struct {
		id       string
		expanded bool
	}
	for _, root := range roots {
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if _, done := total[f.id]; done {
				continue
			}
			if !f.expanded {
				stack = append(stack, frame{id: f.id, expanded: true})
				for _, child := range children[f.id] {
					stack = append(stack, frame{id: child})
				}
				continue
			}

			sum := direct[f.id]
			for _, child := range children[f.id] {
				sum += total[child]
			}
			total[f.id] = sum
		}
	}

	result := make([]CategoryCountNode, 0, len(categories))
	for _, cat := range categories {
		result = append(result, CategoryCountNode{
			ID:                   cat.ID,
			Name:                 cat.Name,
			ParentID:             cat.ParentID,
			Level:                cat.Level,
			CountDirect:          direct[cat.ID],
			CountWithDescendants: total[cat.ID],
		})
	}
	return result, nil
}

// DescendantIDs resolves every category id transitively below the given
// one, breadth-first. The result excludes the root id itself; callers
// filtering "this category or below" union it in explicitly.
func (s *CategoryTreeService) DescendantIDs(ctx context.Context, categoryID string) ([]string, error) {
	seen := map[string]bool{categoryID: true}
	frontier := []string{categoryID}
	var result []string

	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= maxTreeDepth {
			return nil, fmt.Errorf("descendant resolution exceeded depth %d, category tree may be corrupted", maxTreeDepth)
		}

		cats, err := s.categoryRepo.GetByParentIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, cat := range cats {
			if seen[cat.ID] {
				continue
			}
			seen[cat.ID] = true
			result = append(result, cat.ID)
			frontier = append(frontier, cat.ID)
		}
	}

	return result, nil
}

// CreateCategory adds a single category under the given parent, as an
// admin action outside the declarative sync.
func (s *CategoryTreeService) CreateCategory(ctx context.Context, slug, name, icon string, parentID *string, position int) (*models.Category, error) {
	if slug == "" || name == "" {
		return nil, fmt.Errorf("slug and name are required")
	}

	level := 0
	if parentID != nil {
		parent, err := s.categoryRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrCategoryNotFound
		}
		level = parent.Level + 1
	}

	cat := &models.Category{
		Slug:     slug,
		Name:     name,
		Icon:     icon,
		ParentID: parentID,
		Level:    level,
		Position: position,
		Active:   true,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.categoryRepo.Create(ctx, tx, cat); err != nil {
			return err
		}
		return s.categoryRepo.UpsertLocale(ctx, tx, cat.ID, DefaultLocale, name)
	})
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// MoveCategory reassigns a category to a new parent, refusing moves that
// would make the node its own ancestor. Levels of the moved subtree are
// recomputed in the same transaction.
func (s *CategoryTreeService) MoveCategory(ctx context.Context, categoryID string, newParentID *string) error {
	cat, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return ErrCategoryNotFound
	}

	newLevel := 0
	if newParentID != nil {
		if *newParentID == categoryID {
			return ErrCategoryCycle
		}
		parent, err := s.categoryRepo.GetByID(ctx, *newParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrCategoryNotFound
		}

		// Walk up from the new parent; hitting the moved node means the
		// move would close a cycle.
		cursor := parent
		for depth := 0; cursor.ParentID != nil; depth++ {
			if depth >= maxTreeDepth {
				return fmt.Errorf("ancestry check exceeded depth %d, category tree may be corrupted", maxTreeDepth)
			}
			if *cursor.ParentID == categoryID {
				return ErrCategoryCycle
			}
			cursor, err = s.categoryRepo.GetByID(ctx, *cursor.ParentID)
			if err != nil {
				return err
			}
			if cursor == nil {
				break
			}
		}
		newLevel = parent.Level + 1
	}

	descendants, err := s.DescendantIDs(ctx, categoryID)
	if err != nil {
		return err
	}
	shift := newLevel - cat.Level

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cat.ParentID = newParentID
		cat.Level = newLevel
		if err := s.categoryRepo.Update(ctx, tx, cat); err != nil {
			return err
		}
		if len(descendants) == 0 || shift == 0 {
			return nil
		}
		return tx.WithContext(ctx).
			Model(&models.Category{}).
			Where("id IN ?", descendants).
			Update("level", gorm.Expr("level + ?", shift)).Error
	})
}

// DeleteCategory removes a single category, clearing product references and
// dependent locale/synonym rows first. Child categories are reattached to
// the deleted node's parent.
func (s *CategoryTreeService) DeleteCategory(ctx context.Context, categoryID string) error {
	cat, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return ErrCategoryNotFound
	}

	ids := []string{categoryID}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.ClearCategoryRefs(ctx, tx, ids); err != nil {
			return err
		}
		if err := s.categoryRepo.DeleteLocalesByCategoryIDs(ctx, tx, ids); err != nil {
			return err
		}
		if err := s.categoryRepo.DeleteSynonymsByCategoryIDs(ctx, tx, ids); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).
			Model(&models.Category{}).
			Where("parent_id = ?", categoryID).
			Updates(map[string]interface{}{
				"parent_id": cat.ParentID,
				"level":     gorm.Expr("level - 1"),
			}).Error; err != nil {
			return err
		}
		return s.categoryRepo.DeleteByIDs(ctx, tx, ids)
	})
}
