package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/pkg/testutil"
)

func createTestAlert(t *testing.T, ctx context.Context, repo *repository.AlertRepository, alertType, severity string, item *repository.InventoryItem, batchID *string) *repository.InventoryAlert {
	t.Helper()
	alert := &repository.InventoryAlert{
		AlertType: alertType,
		ItemID:    item.ID,
		ItemName:  item.Name,
		BatchID:   batchID,
		Severity:  severity,
		Message:   item.Name + " needs attention",
	}
	require.NoError(t, repo.Create(ctx, alert))
	return alert
}

func TestAlertRepository_ExistsByTypeAndEntity(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	batchRepo := repository.NewBatchRepository(suite.DB)
	repo := repository.NewAlertRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")
	batch := createTestBatch(t, ctx, batchRepo, item.ID, "BATCH-A", 10, nil)

	createTestAlert(t, ctx, repo, repository.AlertTypeLowStock, repository.SeverityWarning, item, nil)
	createTestAlert(t, ctx, repo, repository.AlertTypeExpiringSoon, repository.SeverityWarning, item, &batch.ID)

	// Item-level alert
	exists, err := repo.ExistsByTypeAndEntity(ctx, repository.AlertTypeLowStock, item.ID, nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByTypeAndEntity(ctx, repository.AlertTypeOutOfStock, item.ID, nil)
	require.NoError(t, err)
	assert.False(t, exists)

	// Batch-level alert
	exists, err = repo.ExistsByTypeAndEntity(ctx, repository.AlertTypeExpiringSoon, item.ID, &batch.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAlertRepository_Acknowledge(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewAlertRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")
	alert := createTestAlert(t, ctx, repo, repository.AlertTypeLowStock, repository.SeverityWarning, item, nil)

	userID := suite.Fixtures.User().ID
	require.NoError(t, repo.Acknowledge(ctx, alert.ID, userID))

	got, err := repo.GetByID(ctx, alert.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAcknowledged)
	require.NotNil(t, got.AcknowledgedBy)
	assert.Equal(t, userID, *got.AcknowledgedBy)
	assert.NotNil(t, got.AcknowledgedAt)

	count, err := repo.GetUnacknowledgedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestAlertRepository_List_CriticalFirst(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	itemRepo := repository.NewItemRepository(suite.DB)
	repo := repository.NewAlertRepository(suite.DB)

	item := createTestItem(t, ctx, itemRepo, "Chicken Feed")

	createTestAlert(t, ctx, repo, repository.AlertTypeLowStock, repository.SeverityWarning, item, nil)
	createTestAlert(t, ctx, repo, repository.AlertTypeOutOfStock, repository.SeverityCritical, item, nil)
	createTestAlert(t, ctx, repo, repository.AlertTypeExpiringSoon, repository.SeverityWarning, item, nil)

	alerts, total, err := repo.List(ctx, nil, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, alerts, 3)
	assert.Equal(t, repository.SeverityCritical, alerts[0].Severity)

	// Type filter
	low, lowTotal, err := repo.List(ctx, nil, repository.AlertTypeLowStock, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), lowTotal)
	require.Len(t, low, 1)

	// Acknowledged filter
	unack := false
	open, openTotal, err := repo.List(ctx, &unack, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), openTotal)
	assert.Len(t, open, 3)
}
