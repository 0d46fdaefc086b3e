package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchInfo carries the batch fields the summary reducers need.
type BatchInfo struct {
	ExpirationDate    *time.Time
	QuantityRemaining int
	UnitCost          decimal.Decimal
	Supplier          string
}

// BatchSummary aggregates batches for the dashboard. Only active batches
// (quantity remaining above zero) are counted.
type BatchSummary struct {
	TotalBatches      int             `json:"total_batches"`
	ExpiredCount      int             `json:"expired_count"`
	ExpiringSoonCount int             `json:"expiring_soon_count"`
	TotalValue        decimal.Decimal `json:"total_value"`
	UniqueSuppliers   int             `json:"unique_suppliers"`
}

// SummarizeBatches reduces a batch collection to dashboard counts and the
// total remaining value.
func SummarizeBatches(batches []BatchInfo, now time.Time) BatchSummary {
	summary := BatchSummary{TotalValue: decimal.Zero}
	suppliers := make(map[string]struct{})

	for _, b := range batches {
		if b.QuantityRemaining <= 0 {
			continue
		}

		summary.TotalBatches++
		summary.TotalValue = summary.TotalValue.Add(RemainingValue(b.QuantityRemaining, b.UnitCost))
		suppliers[b.Supplier] = struct{}{}

		switch ClassifyExpiration(b.ExpirationDate, now) {
		case ExpiryExpired:
			summary.ExpiredCount++
		case ExpiryExpiringSoon:
			summary.ExpiringSoonCount++
		}
	}

	summary.UniqueSuppliers = len(suppliers)
	return summary
}

// MovementSummary aggregates ledger activity over a date range.
type MovementSummary struct {
	TotalMovements  int             `json:"total_movements"`
	StockInCount    int             `json:"stock_in_count"`
	StockOutCount   int             `json:"stock_out_count"`
	AdjustmentCount int             `json:"adjustment_count"`
	TotalValueIn    decimal.Decimal `json:"total_value_in"`
	TotalValueOut   decimal.Decimal `json:"total_value_out"`
}

// SummarizeMovements reduces the movements falling inside [from, to] (either
// bound may be nil for an open range) to per-type counts and in/out value.
func SummarizeMovements(movements []Movement, from, to *time.Time) MovementSummary {
	summary := MovementSummary{
		TotalValueIn:  decimal.Zero,
		TotalValueOut: decimal.Zero,
	}

	for _, m := range movements {
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}

		summary.TotalMovements++

		switch m.Type {
		case MovementStockIn:
			summary.StockInCount++
			summary.TotalValueIn = summary.TotalValueIn.Add(m.TotalCost)
		case MovementStockOut:
			summary.StockOutCount++
			summary.TotalValueOut = summary.TotalValueOut.Add(m.TotalCost)
		case MovementAdjustment:
			summary.AdjustmentCount++
		}
	}

	return summary
}
