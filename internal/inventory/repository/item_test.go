package repository_test

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/pkg/errors"
	"github.com/farmstead/farmstead-backend/pkg/testutil"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	var err error
	suite, err = testutil.NewIntegrationSuite(ctx)
	if err != nil {
		log.Fatalf("failed to create integration suite: %v", err)
	}

	code := m.Run()
	testutil.TerminateContainer(ctx)
	os.Exit(code)
}

// Helper to create an item for tests that need a parent item
func createTestItem(t *testing.T, ctx context.Context, repo *repository.ItemRepository, name string) *repository.InventoryItem {
	t.Helper()
	item := &repository.InventoryItem{
		Name:              name,
		Category:          "feed",
		Unit:              "kg",
		PurchasePrice:     decimal.NewFromInt(10),
		LowStockThreshold: 10,
		IsActive:          true,
	}
	err := repo.Create(ctx, item)
	require.NoError(t, err)
	return item
}

func strPtr(s string) *string {
	return &s
}

func TestItemRepository_CreateAndGet(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	repo := repository.NewItemRepository(suite.DB)

	item := &repository.InventoryItem{
		Name:              "Chicken Feed",
		Category:          "feed",
		SKU:               strPtr("FEED-001"),
		Unit:              "kg",
		PurchasePrice:     decimal.RequireFromString("12.50"),
		LowStockThreshold: 25,
		Supplier:          strPtr("Rural Supply Co"),
		IsActive:          true,
	}
	err := repo.Create(ctx, item)
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chicken Feed", got.Name)
	assert.True(t, got.PurchasePrice.Equal(decimal.RequireFromString("12.50")))

	bySKU, err := repo.GetBySKU(ctx, "FEED-001")
	require.NoError(t, err)
	assert.Equal(t, item.ID, bySKU.ID)
}

func TestItemRepository_DuplicateSKU(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	repo := repository.NewItemRepository(suite.DB)

	first := &repository.InventoryItem{
		Name:     "Layer Pellets",
		Category: "feed",
		SKU:      strPtr("FEED-042"),
		Unit:     "kg",
		IsActive: true,
	}
	require.NoError(t, repo.Create(ctx, first))

	dup := &repository.InventoryItem{
		Name:     "Other Pellets",
		Category: "feed",
		SKU:      strPtr("FEED-042"),
		Unit:     "kg",
		IsActive: true,
	}
	err := repo.Create(ctx, dup)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Contains(t, appErr.Message, "SKU")
}

func TestItemRepository_List_CategoryFilter(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	repo := repository.NewItemRepository(suite.DB)

	for _, spec := range []struct{ name, category string }{
		{"Chicken Feed", "feed"},
		{"Pig Feed", "feed"},
		{"Tomato Seeds", "seeds"},
	} {
		item := &repository.InventoryItem{
			Name:     spec.name,
			Category: spec.category,
			Unit:     "kg",
			IsActive: true,
		}
		require.NoError(t, repo.Create(ctx, item))
	}

	all, total, err := repo.List(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	feed, feedTotal, err := repo.List(ctx, 1, 10, "feed")
	require.NoError(t, err)
	assert.Equal(t, int64(2), feedTotal)
	assert.Len(t, feed, 2)
}

func TestItemRepository_SoftDelete(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	repo := repository.NewItemRepository(suite.DB)
	item := createTestItem(t, ctx, repo, "Fencing Wire")

	require.NoError(t, repo.SoftDelete(ctx, item.ID))

	_, err := repo.GetByID(ctx, item.ID)
	require.Error(t, err)
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Deleting again reports not found
	err = repo.SoftDelete(ctx, item.ID)
	require.Error(t, err)
}
