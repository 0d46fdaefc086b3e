package stock

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Expiration status tags
type ExpiryStatus string

const (
	ExpiryNone         ExpiryStatus = "no_expiry"
	ExpiryExpired      ExpiryStatus = "expired"
	ExpiryExpiringSoon ExpiryStatus = "expiring_soon"
	ExpiryGood         ExpiryStatus = "good"
)

// ExpiringSoonWindow is how far ahead a batch counts as expiring soon.
const ExpiringSoonWindow = 30 * 24 * time.Hour

// ClassifyExpiration maps a batch expiration date to a status tag.
// Classification compares absolute dates, not rounded day counts, so the
// boundaries are exact: a batch expiring at precisely now is not yet expired.
func ClassifyExpiration(expiry *time.Time, now time.Time) ExpiryStatus {
	if expiry == nil {
		return ExpiryNone
	}

	switch {
	case expiry.Before(now):
		return ExpiryExpired
	case !expiry.After(now.Add(ExpiringSoonWindow)):
		return ExpiryExpiringSoon
	default:
		return ExpiryGood
	}
}

// DaysUntilExpiry returns the number of days until expiry, rounded up.
// Negative for already-expired batches. Display only; status classification
// never uses the rounded count.
func DaysUntilExpiry(expiry time.Time, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// RemainingValue is the value of the unconsumed portion of a batch.
func RemainingValue(quantityRemaining int, unitCost decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantityRemaining)).Mul(unitCost)
}

// Consume reduces a batch's remaining quantity, flooring at zero, and reports
// whether the batch is now depleted.
func Consume(remaining, consumed int) (int, bool) {
	remaining -= consumed
	if remaining < 0 {
		remaining = 0
	}
	return remaining, remaining == 0
}
