package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/pkg/errors"
	"github.com/farmstead/farmstead-backend/pkg/testutil"
)

func recordMovement(t *testing.T, ctx context.Context, repo *repository.MovementRepository, item *repository.InventoryItem, movementType string, qty int, at time.Time) *repository.StockMovement {
	t.Helper()
	m := &repository.StockMovement{
		ItemID:       item.ID,
		ItemName:     item.Name,
		Unit:         item.Unit,
		MovementType: movementType,
		Quantity:     qty,
		UnitCost:     decimal.NewFromInt(5),
		TotalCost:    decimal.NewFromInt(int64(qty) * 5),
		MovementDate: at,
	}
	require.NoError(t, repo.Create(ctx, m))
	return m
}

func TestMovementRepository_CreateAndListByItem(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewMovementRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")
	base := time.Now().UTC().Truncate(time.Second)

	recordMovement(t, ctx, repo, item, "stock_out", 20, base)
	recordMovement(t, ctx, repo, item, "stock_in", 100, base.Add(-2*time.Hour))
	recordMovement(t, ctx, repo, item, "adjustment", -5, base.Add(-1*time.Hour))

	ledger, err := repo.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 3)

	// Oldest first, regardless of insertion order
	assert.Equal(t, "stock_in", ledger[0].MovementType)
	assert.Equal(t, "adjustment", ledger[1].MovementType)
	assert.Equal(t, "stock_out", ledger[2].MovementType)
}

func TestMovementRepository_List_Filters(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewMovementRepository(suite.DB)

	feed := createTestItem(t, ctx, itemRepo, "Chicken Feed")
	seeds := createTestItem(t, ctx, itemRepo, "Tomato Seeds")
	base := time.Now().UTC().Truncate(time.Second)

	recordMovement(t, ctx, repo, feed, "stock_in", 100, base.Add(-3*time.Hour))
	recordMovement(t, ctx, repo, feed, "stock_out", 30, base.Add(-2*time.Hour))
	recordMovement(t, ctx, repo, seeds, "stock_in", 50, base.Add(-1*time.Hour))

	// Filter by item
	movements, total, err := repo.List(ctx, repository.MovementFilter{ItemID: feed.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, movements, 2)
	// Newest first
	assert.Equal(t, "stock_out", movements[0].MovementType)

	// Filter by type
	ins, insTotal, err := repo.List(ctx, repository.MovementFilter{MovementType: "stock_in"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), insTotal)
	assert.Len(t, ins, 2)

	// Date range excludes the earliest movement
	from := base.Add(-150 * time.Minute)
	ranged, rangedTotal, err := repo.List(ctx, repository.MovementFilter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rangedTotal)
	assert.Len(t, ranged, 2)

	// Pagination
	page, pageTotal, err := repo.List(ctx, repository.MovementFilter{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), pageTotal)
	assert.Len(t, page, 2)
}

func TestMovementRepository_RejectsInvalidType(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewMovementRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")

	m := &repository.StockMovement{
		ItemID:       item.ID,
		ItemName:     item.Name,
		Unit:         item.Unit,
		MovementType: "transfer",
		Quantity:     10,
		MovementDate: time.Now(),
	}
	err := repo.Create(ctx, m)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Details["movement_type"], "stock_in, stock_out, adjustment")
}

func TestMovementRepository_CountSince(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewMovementRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")
	base := time.Now().UTC().Truncate(time.Second)

	recordMovement(t, ctx, repo, item, "stock_in", 100, base.AddDate(0, 0, -40))
	recordMovement(t, ctx, repo, item, "stock_out", 10, base.AddDate(0, 0, -10))
	recordMovement(t, ctx, repo, item, "stock_out", 5, base)

	count, err := repo.CountSince(ctx, base.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
