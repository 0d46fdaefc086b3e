package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstead/farmstead-backend/internal/farm/repository"
	"github.com/farmstead/farmstead-backend/internal/farm/service"
)

func taskDue(title string, due *time.Time) *repository.FarmTask {
	return &repository.FarmTask{
		ID:      title,
		Title:   title,
		DueDate: due,
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}

func TestBucketTasks(t *testing.T) {
	now := time.Date(2025, time.June, 15, 14, 30, 0, 0, time.UTC)

	tasks := []*repository.FarmTask{
		taskDue("yesterday", ptr(now.AddDate(0, 0, -1))),
		taskDue("last week", ptr(now.AddDate(0, 0, -7))),
		taskDue("this morning", ptr(time.Date(2025, time.June, 15, 6, 0, 0, 0, time.UTC))),
		taskDue("tonight", ptr(time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC))),
		taskDue("tomorrow", ptr(now.AddDate(0, 0, 1))),
		taskDue("no due date", nil),
	}

	buckets := service.BucketTasks(tasks, now)

	require.Len(t, buckets.Overdue, 2)
	assert.Equal(t, "yesterday", buckets.Overdue[0].Title)
	assert.Equal(t, "last week", buckets.Overdue[1].Title)

	require.Len(t, buckets.DueToday, 2)
	assert.Equal(t, "this morning", buckets.DueToday[0].Title)
	assert.Equal(t, "tonight", buckets.DueToday[1].Title)

	require.Len(t, buckets.Upcoming, 2)
	assert.Equal(t, "tomorrow", buckets.Upcoming[0].Title)
	assert.Equal(t, "no due date", buckets.Upcoming[1].Title)
}

func TestBucketTasks_MidnightBoundary(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tasks := []*repository.FarmTask{
		// One second before midnight is yesterday
		taskDue("before midnight", ptr(time.Date(2025, time.June, 14, 23, 59, 59, 0, time.UTC))),
		// Midnight itself belongs to today
		taskDue("at midnight", ptr(now)),
	}

	buckets := service.BucketTasks(tasks, now)

	require.Len(t, buckets.Overdue, 1)
	assert.Equal(t, "before midnight", buckets.Overdue[0].Title)
	require.Len(t, buckets.DueToday, 1)
	assert.Equal(t, "at midnight", buckets.DueToday[0].Title)
}

func TestBucketTasks_Empty(t *testing.T) {
	buckets := service.BucketTasks(nil, time.Now())
	assert.Empty(t, buckets.Overdue)
	assert.Empty(t, buckets.DueToday)
	assert.Empty(t, buckets.Upcoming)
}

func tx(txType string, amount string) *repository.Transaction {
	return &repository.Transaction{
		Type:   txType,
		Amount: decimal.RequireFromString(amount),
	}
}

func TestSummarizeTransactions(t *testing.T) {
	transactions := []*repository.Transaction{
		tx("income", "1200"),
		tx("income", "350.50"),
		tx("expense", "300"),
		tx("expense", "99.50"),
	}

	summary := service.SummarizeTransactions(transactions)

	assert.Equal(t, "1550.5", summary.TotalIncome.String())
	assert.Equal(t, "399.5", summary.TotalExpenses.String())
	assert.Equal(t, "1151", summary.Profit.String())
	assert.Equal(t, 4, summary.TransactionCount)
}

func TestSummarizeTransactions_Empty(t *testing.T) {
	summary := service.SummarizeTransactions(nil)

	assert.True(t, summary.TotalIncome.IsZero())
	assert.True(t, summary.TotalExpenses.IsZero())
	assert.True(t, summary.Profit.IsZero())
	assert.Equal(t, 0, summary.TransactionCount)
}

func TestSummarizeTransactions_Loss(t *testing.T) {
	transactions := []*repository.Transaction{
		tx("income", "100"),
		tx("expense", "250"),
	}

	summary := service.SummarizeTransactions(transactions)
	assert.Equal(t, "-150", summary.Profit.String())
}
