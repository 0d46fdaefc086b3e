package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/pkg/testutil"
)

func createTestBatch(t *testing.T, ctx context.Context, repo *repository.BatchRepository, itemID, number string, remaining int, expiration *time.Time) *repository.InventoryBatch {
	t.Helper()
	batch := &repository.InventoryBatch{
		ItemID:            itemID,
		BatchNumber:       number,
		QuantityReceived:  remaining,
		QuantityRemaining: remaining,
		UnitCost:          decimal.NewFromInt(5),
		ReceivedDate:      time.Now(),
		ExpirationDate:    expiration,
		Status:            repository.BatchStatusActive,
	}
	require.NoError(t, repo.Create(ctx, batch))
	return batch
}

func TestBatchRepository_ConsumeQuantity_Partial(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")
	batch := createTestBatch(t, ctx, repo, item.ID, "BATCH-001", 100, nil)

	updated, err := repo.ConsumeQuantity(ctx, batch.ID, 30)
	require.NoError(t, err)
	assert.Equal(t, 70, updated.QuantityRemaining)
	assert.Equal(t, repository.BatchStatusActive, updated.Status)
}

func TestBatchRepository_ConsumeQuantity_Depletes(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")

	// Exact consumption flips status
	exact := createTestBatch(t, ctx, repo, item.ID, "BATCH-002", 50, nil)
	updated, err := repo.ConsumeQuantity(ctx, exact.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.QuantityRemaining)
	assert.Equal(t, repository.BatchStatusDepleted, updated.Status)

	// Over-consumption clamps to zero instead of going negative
	over := createTestBatch(t, ctx, repo, item.ID, "BATCH-003", 10, nil)
	updated, err = repo.ConsumeQuantity(ctx, over.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.QuantityRemaining)
	assert.Equal(t, repository.BatchStatusDepleted, updated.Status)
}

func TestBatchRepository_DuplicateBatchNumber(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	feed := createTestItem(t, ctx, itemRepo, "Chicken Feed")
	seeds := createTestItem(t, ctx, itemRepo, "Tomato Seeds")

	createTestBatch(t, ctx, repo, feed.ID, "BATCH-100", 10, nil)

	// Same number on the same item conflicts
	dup := &repository.InventoryBatch{
		ItemID:            feed.ID,
		BatchNumber:       "BATCH-100",
		QuantityReceived:  5,
		QuantityRemaining: 5,
		ReceivedDate:      time.Now(),
		Status:            repository.BatchStatusActive,
	}
	err := repo.Create(ctx, dup)
	require.Error(t, err)

	// Same number on a different item is fine
	createTestBatch(t, ctx, repo, seeds.ID, "BATCH-100", 5, nil)
}

func TestBatchRepository_ExpirationQueries(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")
	now := time.Now().UTC()

	past := now.AddDate(0, 0, -2)
	soon := now.AddDate(0, 0, 10)
	far := now.AddDate(0, 1, 0)

	createTestBatch(t, ctx, repo, item.ID, "BATCH-EXPIRED", 10, &past)
	createTestBatch(t, ctx, repo, item.ID, "BATCH-SOON", 10, &soon)
	createTestBatch(t, ctx, repo, item.ID, "BATCH-FAR", 10, &far)
	createTestBatch(t, ctx, repo, item.ID, "BATCH-NO-EXPIRY", 10, nil)

	expired, err := repo.ListExpired(ctx)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "BATCH-EXPIRED", expired[0].BatchNumber)

	expiring, err := repo.ListExpiringWithin(ctx, 14*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "BATCH-SOON", expiring[0].BatchNumber)
}

func TestBatchRepository_ListByItem_OrdersByExpiration(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewBatchRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")
	now := time.Now().UTC()

	late := now.AddDate(0, 2, 0)
	early := now.AddDate(0, 0, 5)

	createTestBatch(t, ctx, repo, item.ID, "BATCH-LATE", 10, &late)
	createTestBatch(t, ctx, repo, item.ID, "BATCH-NONE", 10, nil)
	createTestBatch(t, ctx, repo, item.ID, "BATCH-EARLY", 10, &early)

	batches, err := repo.ListByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, batches, 3)

	// Soonest expiration first, batches without one last
	assert.Equal(t, "BATCH-EARLY", batches[0].BatchNumber)
	assert.Equal(t, "BATCH-LATE", batches[1].BatchNumber)
	assert.Equal(t, "BATCH-NONE", batches[2].BatchNumber)
}
