package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmstead/farmstead-backend/internal/inventory/events"
	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/internal/inventory/stock"
	"github.com/farmstead/farmstead-backend/pkg/errors"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// InventoryService handles inventory business logic. Stock quantities are
// never written anywhere; every read folds the movement ledger through the
// stock package.
type InventoryService struct {
	itemRepo     *repository.ItemRepository
	locationRepo *repository.LocationRepository
	movementRepo *repository.MovementRepository
	batchRepo    *repository.BatchRepository
	alertRepo    *repository.AlertRepository
	publisher    *events.InventoryEventPublisher
	logger       *logger.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	itemRepo *repository.ItemRepository,
	locationRepo *repository.LocationRepository,
	movementRepo *repository.MovementRepository,
	batchRepo *repository.BatchRepository,
	alertRepo *repository.AlertRepository,
	publisher *events.InventoryEventPublisher,
	log *logger.Logger,
) *InventoryService {
	return &InventoryService{
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		movementRepo: movementRepo,
		batchRepo:    batchRepo,
		alertRepo:    alertRepo,
		publisher:    publisher,
		logger:       log,
	}
}

// ItemWithStock is an item enriched with its ledger-derived stock level
type ItemWithStock struct {
	*repository.InventoryItem
	Stock  stock.Level  `json:"stock"`
	Status stock.Status `json:"status"`
}

// ItemDetail is an item with stock level and batches
type ItemDetail struct {
	*repository.InventoryItem
	Stock   stock.Level                  `json:"stock"`
	Status  stock.Status                 `json:"status"`
	Batches []*repository.InventoryBatch `json:"batches"`
}

// DashboardStats represents inventory dashboard statistics
type DashboardStats struct {
	TotalItems       int64                `json:"total_items"`
	TotalStockValue  decimal.Decimal      `json:"total_stock_value"`
	LowStockCount    int                  `json:"low_stock_count"`
	OutOfStockCount  int                  `json:"out_of_stock_count"`
	MovementsLast30d int64                `json:"movements_last_30d"`
	AlertCount       int64                `json:"alert_count"`
	Batches          stock.BatchSummary   `json:"batches"`
	LowStockItems    []stock.LowStockItem `json:"low_stock_items"`
}

// Item operations

// CreateItem creates a new inventory item
func (s *InventoryService) CreateItem(ctx context.Context, item *repository.InventoryItem) error {
	return s.itemRepo.Create(ctx, item)
}

// GetItem gets an item with its stock level and batches
func (s *InventoryService) GetItem(ctx context.Context, id string) (*ItemDetail, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	level, status, err := s.GetStockLevel(ctx, id)
	if err != nil {
		return nil, err
	}

	batches, err := s.batchRepo.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ItemDetail{
		InventoryItem: item,
		Stock:         level,
		Status:        status,
		Batches:       batches,
	}, nil
}

// ListItems lists items enriched with stock levels
func (s *InventoryService) ListItems(ctx context.Context, page, perPage int, category string) ([]*ItemWithStock, int64, error) {
	items, total, err := s.itemRepo.List(ctx, page, perPage, category)
	if err != nil {
		return nil, 0, err
	}

	levels, err := s.allLevels(ctx)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*ItemWithStock, len(items))
	for i, item := range items {
		level, ok := levels[item.ID]
		if !ok {
			level = stock.Level{ItemID: item.ID, AverageCost: decimal.Zero, TotalValue: decimal.Zero}
		}
		result[i] = &ItemWithStock{
			InventoryItem: item,
			Stock:         level,
			Status:        stock.Classify(item.LowStockThreshold, level),
		}
	}

	return result, total, nil
}

// UpdateItem updates an inventory item
func (s *InventoryService) UpdateItem(ctx context.Context, item *repository.InventoryItem) error {
	return s.itemRepo.Update(ctx, item)
}

// DeleteItem soft deletes an item. Its ledger entries remain.
func (s *InventoryService) DeleteItem(ctx context.Context, id string) error {
	return s.itemRepo.SoftDelete(ctx, id)
}

// Location operations

// CreateLocation creates a storage location
func (s *InventoryService) CreateLocation(ctx context.Context, loc *repository.StorageLocation) error {
	return s.locationRepo.Create(ctx, loc)
}

// GetLocation gets a storage location by ID
func (s *InventoryService) GetLocation(ctx context.Context, id string) (*repository.StorageLocation, error) {
	return s.locationRepo.GetByID(ctx, id)
}

// ListLocations lists all storage locations
func (s *InventoryService) ListLocations(ctx context.Context) ([]*repository.StorageLocation, error) {
	return s.locationRepo.List(ctx)
}

// UpdateLocation updates a storage location
func (s *InventoryService) UpdateLocation(ctx context.Context, loc *repository.StorageLocation) error {
	return s.locationRepo.Update(ctx, loc)
}

// DeleteLocation deletes a storage location
func (s *InventoryService) DeleteLocation(ctx context.Context, id string) error {
	return s.locationRepo.Delete(ctx, id)
}

// Movement operations

// RecordMovementInput is the validated input for appending to the ledger
type RecordMovementInput struct {
	ItemID          string
	MovementType    string
	Quantity        int
	UnitCost        decimal.Decimal
	MovementDate    time.Time
	BatchID         *string
	LocationID      *string
	Reason          *string
	Notes           *string
	PerformedBy     *string
	PerformedByName *string
}

// RecordMovement validates and appends a movement to the ledger, consumes the
// referenced batch on outflows, re-checks the item's stock status and
// publishes events. The ledger entry is immutable once written.
func (s *InventoryService) RecordMovement(ctx context.Context, in RecordMovementInput) (*repository.StockMovement, error) {
	if !stock.ValidMovementType(in.MovementType) {
		return nil, errors.Validation(map[string]string{
			"movement_type": "must be one of: stock_in, stock_out, adjustment",
		})
	}

	switch in.MovementType {
	case stock.MovementStockIn, stock.MovementStockOut:
		if in.Quantity <= 0 {
			return nil, errors.Validation(map[string]string{
				"quantity": "must be positive",
			})
		}
	case stock.MovementAdjustment:
		if in.Quantity == 0 {
			return nil, errors.Validation(map[string]string{
				"quantity": "must not be zero",
			})
		}
	}

	item, err := s.itemRepo.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}

	movementDate := in.MovementDate
	if movementDate.IsZero() {
		movementDate = time.Now()
	}

	// Denormalize item and location names so the ledger stays readable
	// independent of later edits.
	locationID := in.LocationID
	if locationID == nil {
		locationID = item.LocationID
	}
	var locationName *string
	if locationID != nil {
		if loc, err := s.locationRepo.GetByID(ctx, *locationID); err == nil {
			locationName = &loc.Name
		}
	}

	absQty := in.Quantity
	if absQty < 0 {
		absQty = -absQty
	}

	movement := &repository.StockMovement{
		ItemID:          item.ID,
		ItemName:        item.Name,
		Unit:            item.Unit,
		MovementType:    in.MovementType,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		TotalCost:       in.UnitCost.Mul(decimal.NewFromInt(int64(absQty))),
		MovementDate:    movementDate,
		BatchID:         in.BatchID,
		LocationID:      locationID,
		LocationName:    locationName,
		Reason:          in.Reason,
		Notes:           in.Notes,
		PerformedBy:     in.PerformedBy,
		PerformedByName: in.PerformedByName,
	}

	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	if in.MovementType == stock.MovementStockOut && in.BatchID != nil {
		batch, err := s.batchRepo.ConsumeQuantity(ctx, *in.BatchID, in.Quantity)
		if err != nil {
			s.logger.Error().Err(err).Str("batch_id", *in.BatchID).Msg("failed to consume batch for movement")
		} else if batch.Status == repository.BatchStatusDepleted {
			s.publisher.PublishBatchDepleted(ctx, batch, item.Name)
		}
	}

	if err := s.checkStockAfterMovement(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("item_id", item.ID).Msg("post-movement stock check failed")
	}

	s.publisher.PublishMovementRecorded(ctx, movement)

	s.logger.Info().
		Str("item_id", item.ID).
		Str("movement_type", in.MovementType).
		Int("quantity", in.Quantity).
		Msg("stock movement recorded")

	return movement, nil
}

// ListMovements lists ledger entries matching the filter
func (s *InventoryService) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*repository.StockMovement, int64, error) {
	return s.movementRepo.List(ctx, filter)
}

// MovementSummary summarizes ledger activity in a date range
func (s *InventoryService) MovementSummary(ctx context.Context, from, to *time.Time) (stock.MovementSummary, error) {
	records, err := s.movementRepo.ListAll(ctx)
	if err != nil {
		return stock.MovementSummary{}, err
	}
	return stock.SummarizeMovements(toLedger(records), from, to), nil
}

// Stock level operations

// GetStockLevel folds the item's ledger into its current stock level and
// classifies it against the item's threshold
func (s *InventoryService) GetStockLevel(ctx context.Context, itemID string) (stock.Level, stock.Status, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return stock.Level{}, "", err
	}

	records, err := s.movementRepo.ListByItem(ctx, itemID)
	if err != nil {
		return stock.Level{}, "", err
	}

	level, err := stock.Compute(itemID, toLedger(records))
	if err != nil {
		return stock.Level{}, "", fmt.Errorf("fold ledger for item %s: %w", itemID, err)
	}

	return level, stock.Classify(item.LowStockThreshold, level), nil
}

// ListLowStock returns active items at or below their threshold, largest
// shortage first
func (s *InventoryService) ListLowStock(ctx context.Context) ([]stock.LowStockItem, error) {
	items, err := s.itemRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	levels, err := s.allLevels(ctx)
	if err != nil {
		return nil, err
	}

	return stock.FindLowStock(toThresholds(items), levels), nil
}

// Batch operations

// CreateBatch creates a new batch
func (s *InventoryService) CreateBatch(ctx context.Context, batch *repository.InventoryBatch) error {
	if _, err := s.itemRepo.GetByID(ctx, batch.ItemID); err != nil {
		return err
	}
	if batch.QuantityReceived <= 0 {
		return errors.Validation(map[string]string{
			"quantity_received": "must be positive",
		})
	}
	if batch.QuantityRemaining == 0 {
		batch.QuantityRemaining = batch.QuantityReceived
	}
	return s.batchRepo.Create(ctx, batch)
}

// GetBatch gets a batch by ID
func (s *InventoryService) GetBatch(ctx context.Context, id string) (*repository.InventoryBatch, error) {
	return s.batchRepo.GetByID(ctx, id)
}

// ListBatchesByItem lists batches for an item
func (s *InventoryService) ListBatchesByItem(ctx context.Context, itemID string) ([]*repository.InventoryBatch, error) {
	return s.batchRepo.ListByItem(ctx, itemID)
}

// UpdateBatch updates a batch
func (s *InventoryService) UpdateBatch(ctx context.Context, batch *repository.InventoryBatch) error {
	return s.batchRepo.Update(ctx, batch)
}

// DeleteBatch deletes a batch
func (s *InventoryService) DeleteBatch(ctx context.Context, id string) error {
	return s.batchRepo.Delete(ctx, id)
}

// ConsumeBatch consumes quantity from a batch by appending a stock_out
// movement that references it. The batch decrement and depletion flip happen
// inside RecordMovement.
func (s *InventoryService) ConsumeBatch(ctx context.Context, batchID string, quantity int, performedBy, performedByName *string) (*repository.InventoryBatch, error) {
	if quantity <= 0 {
		return nil, errors.Validation(map[string]string{
			"quantity": "must be positive",
		})
	}

	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	reason := fmt.Sprintf("consumed from batch %s", batch.BatchNumber)
	_, err = s.RecordMovement(ctx, RecordMovementInput{
		ItemID:          batch.ItemID,
		MovementType:    stock.MovementStockOut,
		Quantity:        quantity,
		UnitCost:        batch.UnitCost,
		BatchID:         &batchID,
		Reason:          &reason,
		PerformedBy:     performedBy,
		PerformedByName: performedByName,
	})
	if err != nil {
		return nil, err
	}

	return s.batchRepo.GetByID(ctx, batchID)
}

// BatchSummary summarizes all batches for the dashboard
func (s *InventoryService) BatchSummary(ctx context.Context) (stock.BatchSummary, error) {
	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return stock.BatchSummary{}, err
	}
	return stock.SummarizeBatches(toBatchInfos(batches), time.Now()), nil
}

// Alert operations

// ListAlerts lists alerts with filtering
func (s *InventoryService) ListAlerts(ctx context.Context, acknowledged *bool, alertType string, page, perPage int) ([]*repository.InventoryAlert, int64, error) {
	return s.alertRepo.List(ctx, acknowledged, alertType, page, perPage)
}

// AcknowledgeAlert acknowledges an alert
func (s *InventoryService) AcknowledgeAlert(ctx context.Context, id, userID string) error {
	return s.alertRepo.Acknowledge(ctx, id, userID)
}

// Dashboard

// GetDashboardStats assembles the inventory dashboard
func (s *InventoryService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	totalItems, err := s.itemRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepo.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	levels, err := s.allLevels(ctx)
	if err != nil {
		return nil, err
	}

	totalValue := decimal.Zero
	for _, level := range levels {
		totalValue = totalValue.Add(level.TotalValue)
	}

	lowStock := stock.FindLowStock(toThresholds(items), levels)
	outOfStock := 0
	for _, entry := range lowStock {
		if entry.CurrentQuantity == 0 {
			outOfStock++
		}
	}

	movementCount, err := s.movementRepo.CountSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	alertCount, err := s.alertRepo.GetUnacknowledgedCount(ctx)
	if err != nil {
		return nil, err
	}

	batchSummary, err := s.BatchSummary(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalItems:       totalItems,
		TotalStockValue:  totalValue,
		LowStockCount:    len(lowStock),
		OutOfStockCount:  outOfStock,
		MovementsLast30d: movementCount,
		AlertCount:       alertCount,
		Batches:          batchSummary,
		LowStockItems:    lowStock,
	}, nil
}

// checkStockAfterMovement re-classifies the item's stock level and raises a
// deduplicated alert when it is low or out
func (s *InventoryService) checkStockAfterMovement(ctx context.Context, item *repository.InventoryItem) error {
	records, err := s.movementRepo.ListByItem(ctx, item.ID)
	if err != nil {
		return err
	}

	level, err := stock.Compute(item.ID, toLedger(records))
	if err != nil {
		return err
	}

	status := stock.Classify(item.LowStockThreshold, level)
	if status == stock.StatusInStock {
		return nil
	}

	alertType := repository.AlertTypeLowStock
	severity := repository.SeverityWarning
	if status == stock.StatusOutOfStock {
		alertType = repository.AlertTypeOutOfStock
		severity = repository.SeverityCritical
	}

	exists, err := s.alertRepo.ExistsByTypeAndEntity(ctx, alertType, item.ID, nil)
	if err != nil || exists {
		return err
	}

	currentStock := level.CurrentQuantity
	threshold := item.LowStockThreshold
	alert := &repository.InventoryAlert{
		AlertType:    alertType,
		ItemID:       item.ID,
		ItemName:     item.Name,
		Severity:     severity,
		Message:      fmt.Sprintf("%s is %s (%d/%d)", item.Name, alertType, currentStock, threshold),
		CurrentStock: &currentStock,
		Threshold:    &threshold,
	}

	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return err
	}

	s.publisher.PublishAlertGenerated(ctx, alert)
	return nil
}

// allLevels folds the full ledger into per-item levels
func (s *InventoryService) allLevels(ctx context.Context) (map[string]stock.Level, error) {
	records, err := s.movementRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return stock.ComputeAll(toLedger(records))
}

// toLedger maps persisted movements to the stock package's ledger entries
func toLedger(records []*repository.StockMovement) []stock.Movement {
	ledger := make([]stock.Movement, len(records))
	for i, m := range records {
		ledger[i] = stock.Movement{
			ItemID:    m.ItemID,
			Type:      m.MovementType,
			Quantity:  m.Quantity,
			TotalCost: m.TotalCost,
			Date:      m.MovementDate,
		}
	}
	return ledger
}

func toThresholds(items []*repository.InventoryItem) []stock.ItemThreshold {
	thresholds := make([]stock.ItemThreshold, len(items))
	for i, item := range items {
		thresholds[i] = stock.ItemThreshold{
			ItemID:    item.ID,
			Name:      item.Name,
			Threshold: item.LowStockThreshold,
		}
	}
	return thresholds
}

func toBatchInfos(batches []*repository.InventoryBatch) []stock.BatchInfo {
	infos := make([]stock.BatchInfo, len(batches))
	for i, b := range batches {
		supplier := ""
		if b.Supplier != nil {
			supplier = *b.Supplier
		}
		infos[i] = stock.BatchInfo{
			ExpirationDate:    b.ExpirationDate,
			QuantityRemaining: b.QuantityRemaining,
			UnitCost:          b.UnitCost,
			Supplier:          supplier,
		}
	}
	return infos
}
