// Package stock derives stock levels, valuation and alert status from an
// append-only ledger of inventory movements. All functions are pure: they
// operate on snapshots passed in by the caller and never touch storage.
package stock

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Movement types
const (
	MovementStockIn    = "stock_in"
	MovementStockOut   = "stock_out"
	MovementAdjustment = "adjustment"
)

// ValidMovementType reports whether t is a recognized movement type.
func ValidMovementType(t string) bool {
	switch t {
	case MovementStockIn, MovementStockOut, MovementAdjustment:
		return true
	}
	return false
}

// Movement is the canonical ledger entry consumed by the fold. Quantity is
// always positive for stock_in/stock_out and signed for adjustment.
type Movement struct {
	ItemID    string
	Type      string
	Quantity  int
	TotalCost decimal.Decimal
	Date      time.Time
}

// Level is the derived stock position for one item. It is a view over the
// ledger, never stored independently.
type Level struct {
	ItemID           string          `json:"item_id"`
	CurrentQuantity  int             `json:"current_quantity"`
	AverageCost      decimal.Decimal `json:"average_cost"`
	TotalValue       decimal.Decimal `json:"total_value"`
	LastMovementDate *time.Time      `json:"last_movement_date"`
}

// Compute folds all movements for one item into a Level. Movement order is
// irrelevant to quantity and cost; the latest movement date is tracked
// separately. Movements for other items are rejected, as are unknown movement
// types.
//
// Cost basis: stock_out reduces quantity but not the accumulated inbound cost.
// Average cost is therefore total inbound cost over the current quantity,
// which matches the accounting of the rest of the system.
func Compute(itemID string, movements []Movement) (Level, error) {
	quantity := 0
	totalCostIn := decimal.Zero
	var lastDate *time.Time

	for i := range movements {
		m := &movements[i]
		if m.ItemID != itemID {
			return Level{}, fmt.Errorf("movement for item %q in ledger of item %q", m.ItemID, itemID)
		}

		switch m.Type {
		case MovementStockIn:
			quantity += m.Quantity
			totalCostIn = totalCostIn.Add(m.TotalCost)
		case MovementStockOut:
			quantity -= m.Quantity
		case MovementAdjustment:
			// Signed delta, applied directly
			quantity += m.Quantity
		default:
			return Level{}, fmt.Errorf("unknown movement type %q", m.Type)
		}

		if lastDate == nil || m.Date.After(*lastDate) {
			d := m.Date
			lastDate = &d
		}
	}

	averageCost := decimal.Zero
	if quantity > 0 {
		averageCost = totalCostIn.Div(decimal.NewFromInt(int64(quantity)))
	}

	// Clamp to a non-negative floor; a ledger that folds negative is treated
	// as empty stock rather than an error.
	current := quantity
	if current < 0 {
		current = 0
	}

	return Level{
		ItemID:           itemID,
		CurrentQuantity:  current,
		AverageCost:      averageCost,
		TotalValue:       decimal.NewFromInt(int64(current)).Mul(averageCost),
		LastMovementDate: lastDate,
	}, nil
}

// ComputeAll groups movements by item and folds each group independently.
func ComputeAll(movements []Movement) (map[string]Level, error) {
	byItem := make(map[string][]Movement)
	for _, m := range movements {
		byItem[m.ItemID] = append(byItem[m.ItemID], m)
	}

	levels := make(map[string]Level, len(byItem))
	for itemID, group := range byItem {
		level, err := Compute(itemID, group)
		if err != nil {
			return nil, err
		}
		levels[itemID] = level
	}

	return levels, nil
}

// Status tags for the threshold classifier
type Status string

const (
	StatusOutOfStock Status = "out_of_stock"
	StatusLowStock   Status = "low_stock"
	StatusInStock    Status = "in_stock"
)

// Classify maps a stock level to a status tag against the item's low-stock
// threshold. A zero threshold means low_stock can never trigger.
func Classify(threshold int, level Level) Status {
	switch {
	case level.CurrentQuantity == 0:
		return StatusOutOfStock
	case level.CurrentQuantity <= threshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ItemThreshold carries the per-item data the low-stock scan needs.
type ItemThreshold struct {
	ItemID    string
	Name      string
	Threshold int
}

// LowStockItem is an item at or below its threshold, with the shortage amount.
type LowStockItem struct {
	ItemID          string `json:"item_id"`
	Name            string `json:"name"`
	Threshold       int    `json:"threshold"`
	CurrentQuantity int    `json:"current_quantity"`
	Shortage        int    `json:"shortage"`
}

// FindLowStock returns the items whose current quantity is at or below their
// threshold. Items without a computed level (no movements on record) are
// skipped. Results are ordered by largest shortage first.
func FindLowStock(items []ItemThreshold, levels map[string]Level) []LowStockItem {
	var result []LowStockItem

	for _, item := range items {
		level, ok := levels[item.ItemID]
		if !ok {
			continue
		}
		if level.CurrentQuantity > item.Threshold {
			continue
		}

		result = append(result, LowStockItem{
			ItemID:          item.ItemID,
			Name:            item.Name,
			Threshold:       item.Threshold,
			CurrentQuantity: level.CurrentQuantity,
			Shortage:        item.Threshold - level.CurrentQuantity,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Shortage > result[j].Shortage
	})

	return result
}
