package services

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/teleshop-app/teleshop/app/models"
)

var testTree = []SyncSourceNode{
	{
		Slug: "electronics", Name: "Electronics", Icon: "📱",
		Children: []SyncSourceNode{
			{Slug: "phones", Name: "Phones",
				Children: []SyncSourceNode{
					{Slug: "smartphones", Name: "Smartphones"},
				},
			},
			{Slug: "audio", Name: "Audio"},
		},
	},
	{Slug: "fashion", Name: "Fashion"},
}

type categorySnapshot struct {
	Slug     string
	Name     string
	Icon     string
	Parent   string
	Level    int
	Position int
	Active   bool
}

func snapshot(t *testing.T, svc *CategoryTreeService) []categorySnapshot {
	t.Helper()
	cats, err := svc.categoryRepo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("failed to read categories: %v", err)
	}

	bySlug := make(map[string]string, len(cats))
	for _, c := range cats {
		bySlug[c.ID] = c.Slug
	}

	snap := make([]categorySnapshot, 0, len(cats))
	for _, c := range cats {
		parent := ""
		if c.ParentID != nil {
			parent = bySlug[*c.ParentID]
		}
		snap = append(snap, categorySnapshot{
			Slug:     c.Slug,
			Name:     c.Name,
			Icon:     c.Icon,
			Parent:   parent,
			Level:    c.Level,
			Position: c.Position,
			Active:   c.Active,
		})
	}
	sort.Slice(snap, func(i, j int) bool { return snap[i].Slug < snap[j].Slug })
	return snap
}

func TestReconcileCreatesTree(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	snap := snapshot(t, svc)
	want := []categorySnapshot{
		{Slug: "audio", Name: "Audio", Parent: "electronics", Level: 1, Position: 1, Active: true},
		{Slug: "electronics", Name: "Electronics", Icon: "📱", Level: 0, Position: 0, Active: true},
		{Slug: "fashion", Name: "Fashion", Level: 0, Position: 1, Active: true},
		{Slug: "phones", Name: "Phones", Parent: "electronics", Level: 1, Position: 0, Active: true},
		{Slug: "smartphones", Name: "Smartphones", Parent: "phones", Level: 2, Position: 0, Active: true},
	}
	if !reflect.DeepEqual(snap, want) {
		t.Fatalf("tree mismatch:\n got %+v\nwant %+v", snap, want)
	}

	// Default-locale names are upserted alongside.
	var locales []models.CategoryLocale
	if err := db.Find(&locales).Error; err != nil {
		t.Fatal(err)
	}
	if len(locales) != 5 {
		t.Fatalf("want 5 locale rows, got %d", len(locales))
	}
}

func TestReconcileIdempotent(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatalf("first reconcile failed: %v", err)
	}
	first := snapshot(t, svc)

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatalf("second reconcile failed: %v", err)
	}
	second := snapshot(t, svc)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reconcile is not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}

	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count != 5 {
		t.Fatalf("want 5 categories after double reconcile, got %d", count)
	}
}

func TestReconcileLevelInvariantAndSlugUniqueness(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatal(err)
	}

	cats, err := svc.categoryRepo.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}

	byID := make(map[string]models.Category, len(cats))
	slugs := make(map[string]bool, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
		if slugs[c.Slug] {
			t.Fatalf("duplicate slug %q", c.Slug)
		}
		slugs[c.Slug] = true
	}

	for _, c := range cats {
		if c.ParentID == nil {
			if c.Level != 0 {
				t.Errorf("root %s has level %d, want 0", c.Slug, c.Level)
			}
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok {
			t.Fatalf("category %s has dangling parent", c.Slug)
		}
		if c.Level != parent.Level+1 {
			t.Errorf("category %s has level %d, parent %s has %d", c.Slug, c.Level, parent.Slug, parent.Level)
		}
	}
}

func TestReconcileAdditive(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	// Manually created category, absent from the source tree.
	legacy := &models.Category{Slug: "legacy", Name: "Legacy", Level: 0, Position: 42, Active: false}
	if err := db.Create(legacy).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatal(err)
	}

	var got models.Category
	if err := db.First(&got, "slug = ?", "legacy").Error; err != nil {
		t.Fatalf("legacy category disappeared: %v", err)
	}
	if got.Name != "Legacy" || got.Position != 42 || got.Active {
		t.Fatalf("legacy category was modified: %+v", got)
	}
}

func TestResetRemovesCategoriesAbsentFromTree(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatal(err)
	}

	stale := &models.Category{Slug: "stale", Name: "Stale", Level: 0, Position: 9, Active: true}
	if err := db.Create(stale).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.CategoryLocale{CategoryID: stale.ID, Locale: DefaultLocale, Name: "Stale"}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.CategorySynonym{CategoryID: stale.ID, Term: "old stuff"}).Error; err != nil {
		t.Fatal(err)
	}

	shop := seedShop(t, db, "reset-shop", nil)
	product := seedProduct(t, db, shop.ID, &stale.ID, "orphaned")

	if err := svc.Reset(ctx, testTree); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	var count int64
	db.Model(&models.Category{}).Where("slug = ?", "stale").Count(&count)
	if count != 0 {
		t.Fatal("stale category survived reset")
	}
	db.Model(&models.CategoryLocale{}).Where("category_id = ?", stale.ID).Count(&count)
	if count != 0 {
		t.Fatal("stale locale rows survived reset")
	}
	db.Model(&models.CategorySynonym{}).Where("category_id = ?", stale.ID).Count(&count)
	if count != 0 {
		t.Fatal("stale synonym rows survived reset")
	}

	// The product survives with its category reference cleared.
	var got models.Product
	if err := db.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("product was deleted by reset: %v", err)
	}
	if got.CategoryID != nil {
		t.Fatalf("product category reference not cleared: %v", *got.CategoryID)
	}

	// Tree categories are intact.
	var electronics models.Category
	if err := db.First(&electronics, "slug = ?", "electronics").Error; err != nil {
		t.Fatalf("tree category missing after reset: %v", err)
	}
	if electronics.Name != "Electronics" || !electronics.Active {
		t.Fatalf("tree category damaged: %+v", electronics)
	}
}

func TestResetForbiddenInProduction(t *testing.T) {
	db := memdb(t)
	svc := newTreeServiceEnv(t, db, "production")

	err := svc.Reset(context.Background(), testTree)
	if !errors.Is(err, ErrResetForbidden) {
		t.Fatalf("want ErrResetForbidden, got %v", err)
	}
}

func TestSyncUnknownStrategyFallsBackToReconcile(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	stale := &models.Category{Slug: "stale", Name: "Stale", Level: 0, Active: true}
	if err := db.Create(stale).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.Sync(ctx, testTree, "definitely-not-a-strategy"); err != nil {
		t.Fatal(err)
	}

	// Reconcile semantics: the stale category survives.
	var count int64
	db.Model(&models.Category{}).Where("slug = ?", "stale").Count(&count)
	if count != 1 {
		t.Fatal("unknown strategy did not fall back to reconcile")
	}
}

func TestCountsForShopAggregation(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	tree := []SyncSourceNode{
		{Slug: "root", Name: "Root",
			Children: []SyncSourceNode{
				{Slug: "child", Name: "Child",
					Children: []SyncSourceNode{
						{Slug: "grandchild", Name: "Grandchild"},
					},
				},
			},
		},
		{Slug: "empty", Name: "Empty"},
	}
	if err := svc.Reconcile(ctx, tree); err != nil {
		t.Fatal(err)
	}

	ids := map[string]string{}
	for _, s := range []string{"root", "child", "grandchild", "empty"} {
		cat, err := svc.categoryRepo.GetBySlug(ctx, nil, s)
		if err != nil || cat == nil {
			t.Fatalf("category %s missing", s)
		}
		ids[s] = cat.ID
	}

	shop := seedShop(t, db, "counted", nil)
	other := seedShop(t, db, "other", nil)

	rootID, childID, grandchildID := ids["root"], ids["child"], ids["grandchild"]
	for i := 0; i < 2; i++ {
		seedProduct(t, db, shop.ID, &rootID, "r"+string(rune('a'+i)))
	}
	for i := 0; i < 3; i++ {
		seedProduct(t, db, shop.ID, &childID, "c"+string(rune('a'+i)))
	}
	for i := 0; i < 5; i++ {
		seedProduct(t, db, shop.ID, &grandchildID, "g"+string(rune('a'+i)))
	}

	// Noise that must not be counted: another shop, an inactive product.
	seedProduct(t, db, other.ID, &rootID, "foreign")
	inactive := seedProduct(t, db, shop.ID, &rootID, "inactive")
	if err := db.Model(&models.Product{}).Where("id = ?", inactive.ID).Update("active", false).Error; err != nil {
		t.Fatal(err)
	}

	counts, err := svc.CountsForShop(ctx, shop.ID)
	if err != nil {
		t.Fatal(err)
	}

	byID := map[string]CategoryCountNode{}
	for _, node := range counts {
		byID[node.ID] = node
	}

	checks := []struct {
		slug        string
		direct      int
		withSubtree int
	}{
		{"root", 2, 10},
		{"child", 3, 8},
		{"grandchild", 5, 5},
		{"empty", 0, 0},
	}
	for _, c := range checks {
		node, ok := byID[ids[c.slug]]
		if !ok {
			t.Fatalf("category %s absent from counts", c.slug)
		}
		if node.CountDirect != c.direct {
			t.Errorf("%s: direct = %d, want %d", c.slug, node.CountDirect, c.direct)
		}
		if node.CountWithDescendants != c.withSubtree {
			t.Errorf("%s: with descendants = %d, want %d", c.slug, node.CountWithDescendants, c.withSubtree)
		}
	}

	if len(counts) != 4 {
		t.Fatalf("want all 4 categories in the result, got %d", len(counts))
	}
}

func TestRootCategoryListing(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatal(err)
	}

	roots, err := svc.categoryRepo.GetRoots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(roots))
	}
	if roots[0].Slug != "electronics" || roots[1].Slug != "fashion" {
		t.Fatalf("root order = %s, %s; want electronics, fashion", roots[0].Slug, roots[1].Slug)
	}
}

func TestCountsForShopDanglingParent(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	missing := "missing-parent-id"
	orphan := &models.Category{Slug: "orphan", Name: "Orphan", ParentID: &missing, Level: 1, Active: true}
	if err := db.Create(orphan).Error; err != nil {
		t.Fatal(err)
	}

	shop := seedShop(t, db, "orphaned", nil)
	for i := 0; i < 3; i++ {
		seedProduct(t, db, shop.ID, &orphan.ID, "o"+string(rune('a'+i)))
	}

	counts, err := svc.CountsForShop(ctx, shop.ID)
	if err != nil {
		t.Fatal(err)
	}

	var node *CategoryCountNode
	for i := range counts {
		if counts[i].ID == orphan.ID {
			node = &counts[i]
		}
	}
	if node == nil {
		t.Fatal("orphan category absent from counts")
	}
	if node.CountDirect != 3 || node.CountWithDescendants != 3 {
		t.Fatalf("orphan counts = %d/%d, want 3/3", node.CountDirect, node.CountWithDescendants)
	}
}

func TestDescendantIDs(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	tree := []SyncSourceNode{
		{Slug: "a", Name: "A",
			Children: []SyncSourceNode{
				{Slug: "b", Name: "B",
					Children: []SyncSourceNode{
						{Slug: "d", Name: "D"},
					},
				},
				{Slug: "c", Name: "C"},
			},
		},
	}
	if err := svc.Reconcile(ctx, tree); err != nil {
		t.Fatal(err)
	}

	ids := map[string]string{}
	for _, s := range []string{"a", "b", "c", "d"} {
		cat, _ := svc.categoryRepo.GetBySlug(ctx, nil, s)
		ids[s] = cat.ID
	}

	got, err := svc.DescendantIDs(ctx, ids["a"])
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(got)
	want := []string{ids["b"], ids["c"], ids["d"]}
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("descendants of a = %v, want %v", got, want)
	}

	leaf, err := svc.DescendantIDs(ctx, ids["d"])
	if err != nil {
		t.Fatal(err)
	}
	if len(leaf) != 0 {
		t.Fatalf("leaf has descendants: %v", leaf)
	}
}

func TestMoveCategoryRefusesCycle(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatal(err)
	}
	electronics, _ := svc.categoryRepo.GetBySlug(ctx, nil, "electronics")
	smartphones, _ := svc.categoryRepo.GetBySlug(ctx, nil, "smartphones")

	err := svc.MoveCategory(ctx, electronics.ID, &smartphones.ID)
	if !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("want ErrCategoryCycle, got %v", err)
	}

	if err := svc.MoveCategory(ctx, electronics.ID, &electronics.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("self-parent: want ErrCategoryCycle, got %v", err)
	}
}

func TestMoveCategoryRecomputesLevels(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatal(err)
	}
	phones, _ := svc.categoryRepo.GetBySlug(ctx, nil, "phones")
	fashion, _ := svc.categoryRepo.GetBySlug(ctx, nil, "fashion")

	if err := svc.MoveCategory(ctx, phones.ID, &fashion.ID); err != nil {
		t.Fatal(err)
	}

	moved, _ := svc.categoryRepo.GetBySlug(ctx, nil, "phones")
	if moved.ParentID == nil || *moved.ParentID != fashion.ID {
		t.Fatal("phones was not reparented")
	}
	if moved.Level != 1 {
		t.Fatalf("phones level = %d, want 1", moved.Level)
	}

	child, _ := svc.categoryRepo.GetBySlug(ctx, nil, "smartphones")
	if child.Level != 2 {
		t.Fatalf("smartphones level = %d, want 2", child.Level)
	}
}

func TestDeleteCategoryClearsProductRefs(t *testing.T) {
	db := memdb(t)
	svc := newTreeService(t, db)
	ctx := context.Background()

	if err := svc.Reconcile(ctx, testTree); err != nil {
		t.Fatal(err)
	}
	audio, _ := svc.categoryRepo.GetBySlug(ctx, nil, "audio")

	shop := seedShop(t, db, "del-shop", nil)
	product := seedProduct(t, db, shop.ID, &audio.ID, "speaker")

	if err := svc.DeleteCategory(ctx, audio.ID); err != nil {
		t.Fatal(err)
	}

	var got models.Product
	if err := db.First(&got, "id = ?", product.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.CategoryID != nil {
		t.Fatal("product still references a deleted category")
	}

	if err := svc.DeleteCategory(ctx, audio.ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("double delete: want ErrCategoryNotFound, got %v", err)
	}
}
