package stock_test

import (
	"testing"
	"time"

	"github.com/farmstead/farmstead-backend/internal/inventory/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCompute_EmptyLedger(t *testing.T) {
	level, err := stock.Compute("item-1", nil)
	require.NoError(t, err)

	assert.Equal(t, "item-1", level.ItemID)
	assert.Equal(t, 0, level.CurrentQuantity)
	assert.True(t, level.AverageCost.IsZero())
	assert.True(t, level.TotalValue.IsZero())
	assert.Nil(t, level.LastMovementDate)
}

func TestCompute_InAndOut(t *testing.T) {
	movements := []stock.Movement{
		{ItemID: "item-1", Type: stock.MovementStockIn, Quantity: 100, TotalCost: d("500"), Date: date("2025-03-01T08:00:00Z")},
		{ItemID: "item-1", Type: stock.MovementStockOut, Quantity: 30, Date: date("2025-03-05T08:00:00Z")},
	}

	level, err := stock.Compute("item-1", movements)
	require.NoError(t, err)

	assert.Equal(t, 70, level.CurrentQuantity)
	// Outflows do not reduce the cost basis: 500 / 100 stays the average
	assert.Equal(t, "5", level.AverageCost.String())
	assert.Equal(t, "350", level.TotalValue.String())
	require.NotNil(t, level.LastMovementDate)
	assert.Equal(t, date("2025-03-05T08:00:00Z"), *level.LastMovementDate)
}

func TestCompute_SignedAdjustment(t *testing.T) {
	movements := []stock.Movement{
		{ItemID: "item-1", Type: stock.MovementStockIn, Quantity: 50, TotalCost: d("200"), Date: date("2025-03-01T08:00:00Z")},
		{ItemID: "item-1", Type: stock.MovementAdjustment, Quantity: -10, Date: date("2025-03-02T08:00:00Z")},
		{ItemID: "item-1", Type: stock.MovementAdjustment, Quantity: 5, Date: date("2025-03-03T08:00:00Z")},
	}

	level, err := stock.Compute("item-1", movements)
	require.NoError(t, err)
	assert.Equal(t, 45, level.CurrentQuantity)
}

func TestCompute_ClampsNegativeQuantity(t *testing.T) {
	movements := []stock.Movement{
		{ItemID: "item-1", Type: stock.MovementStockIn, Quantity: 10, TotalCost: d("40"), Date: date("2025-03-01T08:00:00Z")},
		{ItemID: "item-1", Type: stock.MovementStockOut, Quantity: 25, Date: date("2025-03-02T08:00:00Z")},
	}

	level, err := stock.Compute("item-1", movements)
	require.NoError(t, err)

	assert.Equal(t, 0, level.CurrentQuantity)
	assert.True(t, level.AverageCost.IsZero())
	assert.True(t, level.TotalValue.IsZero())
}

func TestCompute_OrderIndependent(t *testing.T) {
	forward := []stock.Movement{
		{ItemID: "item-1", Type: stock.MovementStockIn, Quantity: 100, TotalCost: d("500"), Date: date("2025-03-01T08:00:00Z")},
		{ItemID: "item-1", Type: stock.MovementStockOut, Quantity: 30, Date: date("2025-03-05T08:00:00Z")},
		{ItemID: "item-1", Type: stock.MovementAdjustment, Quantity: -5, Date: date("2025-03-07T08:00:00Z")},
	}
	reversed := []stock.Movement{forward[2], forward[1], forward[0]}

	a, err := stock.Compute("item-1", forward)
	require.NoError(t, err)
	b, err := stock.Compute("item-1", reversed)
	require.NoError(t, err)

	assert.Equal(t, a.CurrentQuantity, b.CurrentQuantity)
	assert.True(t, a.AverageCost.Equal(b.AverageCost))
	assert.Equal(t, *a.LastMovementDate, *b.LastMovementDate)
}

func TestCompute_Idempotent(t *testing.T) {
	movements := []stock.Movement{
		{ItemID: "item-1", Type: stock.MovementStockIn, Quantity: 12, TotalCost: d("36"), Date: date("2025-03-01T08:00:00Z")},
	}

	first, err := stock.Compute("item-1", movements)
	require.NoError(t, err)
	second, err := stock.Compute("item-1", movements)
	require.NoError(t, err)

	assert.Equal(t, first.CurrentQuantity, second.CurrentQuantity)
	assert.True(t, first.AverageCost.Equal(second.AverageCost))
	assert.True(t, first.TotalValue.Equal(second.TotalValue))
}

func TestCompute_RejectsUnknownMovementType(t *testing.T) {
	movements := []stock.Movement{
		{ItemID: "item-1", Type: "transfer", Quantity: 5, Date: date("2025-03-01T08:00:00Z")},
	}

	_, err := stock.Compute("item-1", movements)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown movement type")
}

func TestCompute_RejectsForeignItemMovement(t *testing.T) {
	movements := []stock.Movement{
		{ItemID: "item-2", Type: stock.MovementStockIn, Quantity: 5, TotalCost: d("10"), Date: date("2025-03-01T08:00:00Z")},
	}

	_, err := stock.Compute("item-1", movements)
	require.Error(t, err)
}

func TestComputeAll_GroupsByItem(t *testing.T) {
	movements := []stock.Movement{
		{ItemID: "seed", Type: stock.MovementStockIn, Quantity: 40, TotalCost: d("80"), Date: date("2025-03-01T08:00:00Z")},
		{ItemID: "feed", Type: stock.MovementStockIn, Quantity: 10, TotalCost: d("50"), Date: date("2025-03-01T09:00:00Z")},
		{ItemID: "seed", Type: stock.MovementStockOut, Quantity: 15, Date: date("2025-03-02T08:00:00Z")},
	}

	levels, err := stock.ComputeAll(movements)
	require.NoError(t, err)
	require.Len(t, levels, 2)

	assert.Equal(t, 25, levels["seed"].CurrentQuantity)
	assert.Equal(t, "2", levels["seed"].AverageCost.String())
	assert.Equal(t, 10, levels["feed"].CurrentQuantity)
	assert.Equal(t, "5", levels["feed"].AverageCost.String())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		quantity  int
		want      stock.Status
	}{
		{"zero quantity is out of stock", 20, 0, stock.StatusOutOfStock},
		{"at threshold is low stock", 20, 20, stock.StatusLowStock},
		{"below threshold is low stock", 20, 1, stock.StatusLowStock},
		{"above threshold is in stock", 20, 21, stock.StatusInStock},
		{"zero threshold never reports low", 0, 1, stock.StatusInStock},
		{"zero threshold still reports empty", 0, 0, stock.StatusOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stock.Classify(tt.threshold, stock.Level{CurrentQuantity: tt.quantity})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_MonotonicInQuantity(t *testing.T) {
	// Increasing quantity at a fixed threshold never moves the status
	// backwards from in_stock toward out_of_stock.
	rank := map[stock.Status]int{
		stock.StatusOutOfStock: 0,
		stock.StatusLowStock:   1,
		stock.StatusInStock:    2,
	}

	const threshold = 10
	prev := stock.Classify(threshold, stock.Level{CurrentQuantity: 0})
	for qty := 1; qty <= 30; qty++ {
		cur := stock.Classify(threshold, stock.Level{CurrentQuantity: qty})
		assert.GreaterOrEqual(t, rank[cur], rank[prev], "quantity %d", qty)
		prev = cur
	}
}

func TestFindLowStock(t *testing.T) {
	items := []stock.ItemThreshold{
		{ItemID: "seed", Name: "Corn Seed", Threshold: 20},
		{ItemID: "feed", Name: "Cattle Feed", Threshold: 20},
		{ItemID: "twine", Name: "Baler Twine", Threshold: 5},
	}
	levels := map[string]stock.Level{
		"seed": {ItemID: "seed", CurrentQuantity: 15},
		"feed": {ItemID: "feed", CurrentQuantity: 25},
	}

	result := stock.FindLowStock(items, levels)

	require.Len(t, result, 1)
	assert.Equal(t, "seed", result[0].ItemID)
	assert.Equal(t, 5, result[0].Shortage)
	assert.Equal(t, 15, result[0].CurrentQuantity)
}

func TestFindLowStock_OrderedByShortage(t *testing.T) {
	items := []stock.ItemThreshold{
		{ItemID: "a", Name: "A", Threshold: 10},
		{ItemID: "b", Name: "B", Threshold: 50},
	}
	levels := map[string]stock.Level{
		"a": {ItemID: "a", CurrentQuantity: 8},
		"b": {ItemID: "b", CurrentQuantity: 5},
	}

	result := stock.FindLowStock(items, levels)

	require.Len(t, result, 2)
	assert.Equal(t, "b", result[0].ItemID) // shortage 45
	assert.Equal(t, "a", result[1].ItemID) // shortage 2
}
