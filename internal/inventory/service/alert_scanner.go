package service

import (
	"context"
	"fmt"
	"time"

	"github.com/farmstead/farmstead-backend/internal/inventory/events"
	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/internal/inventory/stock"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// AlertScanner scans inventory data and generates alerts. Each scan checks one
// condition and creates alerts with deduplication; it never re-raises an alert
// that is still unacknowledged.
type AlertScanner struct {
	itemRepo     *repository.ItemRepository
	movementRepo *repository.MovementRepository
	batchRepo    *repository.BatchRepository
	alertRepo    *repository.AlertRepository
	publisher    *events.InventoryEventPublisher
	expiryWindow time.Duration
	logger       *logger.Logger
}

// NewAlertScanner creates a new alert scanner
func NewAlertScanner(
	itemRepo *repository.ItemRepository,
	movementRepo *repository.MovementRepository,
	batchRepo *repository.BatchRepository,
	alertRepo *repository.AlertRepository,
	publisher *events.InventoryEventPublisher,
	expiryWindow time.Duration,
	log *logger.Logger,
) *AlertScanner {
	if expiryWindow <= 0 {
		expiryWindow = stock.ExpiringSoonWindow
	}
	return &AlertScanner{
		itemRepo:     itemRepo,
		movementRepo: movementRepo,
		batchRepo:    batchRepo,
		alertRepo:    alertRepo,
		publisher:    publisher,
		expiryWindow: expiryWindow,
		logger:       log,
	}
}

// ScanAll runs all alert scans. Logs errors but continues scanning.
func (s *AlertScanner) ScanAll(ctx context.Context) error {
	scanners := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"low_stock", s.scanLowStock},
		{"expiry", s.scanExpiry},
	}

	var lastErr error
	for _, scanner := range scanners {
		if err := scanner.fn(ctx); err != nil {
			s.logger.Error().Err(err).Str("scanner", scanner.name).Msg("alert scan failed")
			lastErr = err
		}
	}

	return lastErr
}

// scanLowStock folds the ledger and raises alerts for items at or below
// their threshold
func (s *AlertScanner) scanLowStock(ctx context.Context) error {
	items, err := s.itemRepo.GetAllActive(ctx)
	if err != nil {
		return fmt.Errorf("scanLowStock: get active items: %w", err)
	}

	records, err := s.movementRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("scanLowStock: list movements: %w", err)
	}

	levels, err := stock.ComputeAll(toLedger(records))
	if err != nil {
		return fmt.Errorf("scanLowStock: fold ledger: %w", err)
	}

	for _, entry := range stock.FindLowStock(toThresholds(items), levels) {
		alertType := repository.AlertTypeLowStock
		severity := repository.SeverityWarning
		if entry.CurrentQuantity == 0 {
			alertType = repository.AlertTypeOutOfStock
			severity = repository.SeverityCritical
		}

		exists, err := s.alertRepo.ExistsByTypeAndEntity(ctx, alertType, entry.ItemID, nil)
		if err != nil {
			s.logger.Error().Err(err).Str("item_id", entry.ItemID).Msg("scanLowStock: failed to check existing alert")
			continue
		}
		if exists {
			continue
		}

		currentStock := entry.CurrentQuantity
		threshold := entry.Threshold
		alert := &repository.InventoryAlert{
			AlertType:    alertType,
			ItemID:       entry.ItemID,
			ItemName:     entry.Name,
			Severity:     severity,
			Message:      fmt.Sprintf("%s is %s (%d/%d)", entry.Name, alertType, currentStock, threshold),
			CurrentStock: &currentStock,
			Threshold:    &threshold,
		}

		if err := s.alertRepo.Create(ctx, alert); err != nil {
			s.logger.Error().Err(err).Str("item_id", entry.ItemID).Msg("scanLowStock: failed to create alert")
			continue
		}

		s.publisher.PublishAlertGenerated(ctx, alert)
	}

	return nil
}

// scanExpiry raises alerts for expired batches and batches expiring within
// the window
func (s *AlertScanner) scanExpiry(ctx context.Context) error {
	now := time.Now()

	expired, err := s.batchRepo.ListExpired(ctx)
	if err != nil {
		return fmt.Errorf("scanExpiry: list expired batches: %w", err)
	}

	expiring, err := s.batchRepo.ListExpiringWithin(ctx, s.expiryWindow)
	if err != nil {
		return fmt.Errorf("scanExpiry: list expiring batches: %w", err)
	}

	for _, batch := range append(expired, expiring...) {
		if batch.ExpirationDate == nil {
			continue
		}

		var alertType, severity string
		switch stock.ClassifyExpiration(batch.ExpirationDate, now) {
		case stock.ExpiryExpired:
			alertType = repository.AlertTypeExpired
			severity = repository.SeverityCritical
		case stock.ExpiryExpiringSoon:
			alertType = repository.AlertTypeExpiringSoon
			severity = repository.SeverityWarning
		default:
			continue
		}

		item, err := s.itemRepo.GetByID(ctx, batch.ItemID)
		if err != nil {
			continue
		}

		exists, err := s.alertRepo.ExistsByTypeAndEntity(ctx, alertType, item.ID, &batch.ID)
		if err != nil {
			s.logger.Error().Err(err).Str("batch_id", batch.ID).Msg("scanExpiry: failed to check existing alert")
			continue
		}
		if exists {
			continue
		}

		daysUntil := stock.DaysUntilExpiry(*batch.ExpirationDate, now)
		message := fmt.Sprintf("%s batch %s expires in %d days", item.Name, batch.BatchNumber, daysUntil)
		if alertType == repository.AlertTypeExpired {
			message = fmt.Sprintf("%s batch %s expired on %s", item.Name, batch.BatchNumber, batch.ExpirationDate.Format("2006-01-02"))
		}

		alert := &repository.InventoryAlert{
			AlertType:       alertType,
			ItemID:          item.ID,
			ItemName:        item.Name,
			BatchID:         &batch.ID,
			BatchNumber:     &batch.BatchNumber,
			Severity:        severity,
			Message:         message,
			ExpirationDate:  batch.ExpirationDate,
			DaysUntilExpiry: &daysUntil,
		}

		if err := s.alertRepo.Create(ctx, alert); err != nil {
			s.logger.Error().Err(err).Str("batch_id", batch.ID).Msg("scanExpiry: failed to create alert")
			continue
		}

		s.publisher.PublishAlertGenerated(ctx, alert)
	}

	return nil
}
