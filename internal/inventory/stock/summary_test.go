package stock_test

import (
	"testing"
	"time"

	"github.com/farmstead/farmstead-backend/internal/inventory/stock"
	"github.com/stretchr/testify/assert"
)

func TestSummarizeBatches(t *testing.T) {
	now := date("2025-06-15T12:00:00Z")

	batches := []stock.BatchInfo{
		{ExpirationDate: ptr(now.AddDate(0, -1, 0)), QuantityRemaining: 5, UnitCost: d("2"), Supplier: "AgriCo"},
		{ExpirationDate: ptr(now.Add(10 * 24 * time.Hour)), QuantityRemaining: 10, UnitCost: d("3"), Supplier: "AgriCo"},
		{ExpirationDate: ptr(now.AddDate(1, 0, 0)), QuantityRemaining: 20, UnitCost: d("1.50"), Supplier: "FieldWorks"},
		{ExpirationDate: nil, QuantityRemaining: 8, UnitCost: d("4"), Supplier: "BarnSupply"},
		// Depleted batches are invisible to the summary
		{ExpirationDate: ptr(now.AddDate(0, -2, 0)), QuantityRemaining: 0, UnitCost: d("9"), Supplier: "GoneCo"},
	}

	summary := stock.SummarizeBatches(batches, now)

	assert.Equal(t, 4, summary.TotalBatches)
	assert.Equal(t, 1, summary.ExpiredCount)
	assert.Equal(t, 1, summary.ExpiringSoonCount)
	assert.Equal(t, 3, summary.UniqueSuppliers)
	// 5*2 + 10*3 + 20*1.50 + 8*4 = 102
	assert.Equal(t, "102", summary.TotalValue.String())
}

func TestSummarizeBatches_Empty(t *testing.T) {
	summary := stock.SummarizeBatches(nil, date("2025-06-15T12:00:00Z"))

	assert.Equal(t, 0, summary.TotalBatches)
	assert.Equal(t, 0, summary.UniqueSuppliers)
	assert.True(t, summary.TotalValue.IsZero())
}

func TestSummarizeMovements(t *testing.T) {
	movements := []stock.Movement{
		{ItemID: "seed", Type: stock.MovementStockIn, Quantity: 100, TotalCost: d("500"), Date: date("2025-03-01T08:00:00Z")},
		{ItemID: "seed", Type: stock.MovementStockOut, Quantity: 30, TotalCost: d("150"), Date: date("2025-03-05T08:00:00Z")},
		{ItemID: "seed", Type: stock.MovementAdjustment, Quantity: -2, Date: date("2025-03-06T08:00:00Z")},
		{ItemID: "feed", Type: stock.MovementStockIn, Quantity: 10, TotalCost: d("50"), Date: date("2025-04-01T08:00:00Z")},
	}

	summary := stock.SummarizeMovements(movements, nil, nil)

	assert.Equal(t, 4, summary.TotalMovements)
	assert.Equal(t, 2, summary.StockInCount)
	assert.Equal(t, 1, summary.StockOutCount)
	assert.Equal(t, 1, summary.AdjustmentCount)
	assert.Equal(t, "550", summary.TotalValueIn.String())
	assert.Equal(t, "150", summary.TotalValueOut.String())
}

func TestSummarizeMovements_DateRangeInclusive(t *testing.T) {
	movements := []stock.Movement{
		{ItemID: "seed", Type: stock.MovementStockIn, Quantity: 1, TotalCost: d("1"), Date: date("2025-03-01T00:00:00Z")},
		{ItemID: "seed", Type: stock.MovementStockIn, Quantity: 1, TotalCost: d("1"), Date: date("2025-03-15T00:00:00Z")},
		{ItemID: "seed", Type: stock.MovementStockIn, Quantity: 1, TotalCost: d("1"), Date: date("2025-03-31T00:00:00Z")},
		{ItemID: "seed", Type: stock.MovementStockIn, Quantity: 1, TotalCost: d("1"), Date: date("2025-04-01T00:00:00Z")},
	}

	from := date("2025-03-01T00:00:00Z")
	to := date("2025-03-31T00:00:00Z")

	summary := stock.SummarizeMovements(movements, &from, &to)

	// Both range bounds are inclusive
	assert.Equal(t, 3, summary.TotalMovements)
	assert.Equal(t, "3", summary.TotalValueIn.String())
}
