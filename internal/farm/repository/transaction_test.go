package repository_test

import (
	"context"
	"flag"
	"log"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/farmstead-backend/internal/farm/repository"
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

func createTestFarm(t *testing.T, ctx context.Context, repo *repository.FarmRepository, name string) *repository.Farm {
	t.Helper()
	farm := &repository.Farm{
		Name:     name,
		Size:     decimal.NewFromInt(40),
		SizeUnit: "acres",
	}
	require.NoError(t, repo.Create(ctx, farm))
	return farm
}

func createTestTransaction(t *testing.T, ctx context.Context, repo *repository.TransactionRepository, farmID, txType, category string, amount int64, at time.Time) *repository.Transaction {
	t.Helper()
	tx := &repository.Transaction{
		FarmID:   farmID,
		Type:     txType,
		Category: category,
		Amount:   decimal.NewFromInt(amount),
		Date:     at,
	}
	require.NoError(t, repo.Create(ctx, tx))
	return tx
}

func TestTransactionRepository_CreateAndGet(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	farmRepo := repository.NewFarmRepository(suite.DB)
	repo := repository.NewTransactionRepository(suite.DB)

	farm := createTestFarm(t, ctx, farmRepo, "North Pasture")
	tx := createTestTransaction(t, ctx, repo, farm.ID, "income", "produce sales", 1200, time.Now())

	got, err := repo.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "income", got.Type)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1200)))
}

func TestTransactionRepository_RejectsInvalidType(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	farmRepo := repository.NewFarmRepository(suite.DB)
	repo := repository.NewTransactionRepository(suite.DB)

	farm := createTestFarm(t, ctx, farmRepo, "North Pasture")

	tx := &repository.Transaction{
		FarmID:   farm.ID,
		Type:     "transfer",
		Category: "misc",
		Amount:   decimal.NewFromInt(10),
		Date:     time.Now(),
	}
	err := repo.Create(ctx, tx)
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Details["type"], "income, expense")
}

func TestTransactionRepository_List_Filters(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := context.Background()
	suite.TruncateAll(t, ctx)

	farmRepo := repository.NewFarmRepository(suite.DB)
	repo := repository.NewTransactionRepository(suite.DB)

	north := createTestFarm(t, ctx, farmRepo, "North Pasture")
	south := createTestFarm(t, ctx, farmRepo, "South Field")
	base := time.Now().UTC().Truncate(time.Second)

	createTestTransaction(t, ctx, repo, north.ID, "income", "produce sales", 1200, base.AddDate(0, 0, -2))
	createTestTransaction(t, ctx, repo, north.ID, "expense", "feed", 300, base.AddDate(0, 0, -1))
	createTestTransaction(t, ctx, repo, south.ID, "expense", "repairs", 150, base)

	all, err := repo.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Newest first
	assert.Equal(t, "repairs", all[0].Category)

	northOnly, err := repo.List(ctx, north.ID, "")
	require.NoError(t, err)
	assert.Len(t, northOnly, 2)

	expenses, err := repo.List(ctx, "", "expense")
	require.NoError(t, err)
	assert.Len(t, expenses, 2)

	northExpenses, err := repo.List(ctx, north.ID, "expense")
	require.NoError(t, err)
	require.Len(t, northExpenses, 1)
	assert.Equal(t, "feed", northExpenses[0].Category)
}
