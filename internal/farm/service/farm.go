package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmstead/farmstead-backend/internal/farm/events"
	"github.com/farmstead/farmstead-backend/internal/farm/repository"
	inventoryservice "github.com/farmstead/farmstead-backend/internal/inventory/service"
	"github.com/farmstead/farmstead-backend/pkg/errors"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// FarmService handles farm business logic
type FarmService struct {
	farmRepo        *repository.FarmRepository
	cropRepo        *repository.CropRepository
	taskRepo        *repository.TaskRepository
	transactionRepo *repository.TransactionRepository
	equipmentRepo   *repository.EquipmentRepository
	inventory       *inventoryservice.InventoryService
	publisher       *events.FarmEventPublisher
	logger          *logger.Logger
}

// NewFarmService creates a new farm service
func NewFarmService(
	farmRepo *repository.FarmRepository,
	cropRepo *repository.CropRepository,
	taskRepo *repository.TaskRepository,
	transactionRepo *repository.TransactionRepository,
	equipmentRepo *repository.EquipmentRepository,
	inventory *inventoryservice.InventoryService,
	publisher *events.FarmEventPublisher,
	log *logger.Logger,
) *FarmService {
	return &FarmService{
		farmRepo:        farmRepo,
		cropRepo:        cropRepo,
		taskRepo:        taskRepo,
		transactionRepo: transactionRepo,
		equipmentRepo:   equipmentRepo,
		inventory:       inventory,
		publisher:       publisher,
		logger:          log,
	}
}

// Farm operations

// CreateFarm creates a new farm
func (s *FarmService) CreateFarm(ctx context.Context, farm *repository.Farm) error {
	return s.farmRepo.Create(ctx, farm)
}

// GetFarm gets a farm by ID
func (s *FarmService) GetFarm(ctx context.Context, id string) (*repository.Farm, error) {
	return s.farmRepo.GetByID(ctx, id)
}

// ListFarms lists all farms
func (s *FarmService) ListFarms(ctx context.Context) ([]*repository.Farm, error) {
	return s.farmRepo.List(ctx)
}

// UpdateFarm updates a farm
func (s *FarmService) UpdateFarm(ctx context.Context, farm *repository.Farm) error {
	return s.farmRepo.Update(ctx, farm)
}

// DeleteFarm deletes a farm
func (s *FarmService) DeleteFarm(ctx context.Context, id string) error {
	return s.farmRepo.Delete(ctx, id)
}

// Crop operations

// CreateCrop creates a new crop after checking the farm exists
func (s *FarmService) CreateCrop(ctx context.Context, crop *repository.Crop) error {
	if _, err := s.farmRepo.GetByID(ctx, crop.FarmID); err != nil {
		return err
	}
	return s.cropRepo.Create(ctx, crop)
}

// GetCrop gets a crop by ID
func (s *FarmService) GetCrop(ctx context.Context, id string) (*repository.Crop, error) {
	return s.cropRepo.GetByID(ctx, id)
}

// ListCrops lists crops with optional filters
func (s *FarmService) ListCrops(ctx context.Context, farmID, status string) ([]*repository.Crop, error) {
	return s.cropRepo.List(ctx, farmID, status)
}

// UpdateCrop updates a crop and publishes a status change event when the
// status moved
func (s *FarmService) UpdateCrop(ctx context.Context, crop *repository.Crop) error {
	existing, err := s.cropRepo.GetByID(ctx, crop.ID)
	if err != nil {
		return err
	}

	if !validCropStatus(crop.Status) {
		return errors.Validation(map[string]string{
			"status": "must be one of: planted, growing, ready, harvested",
		})
	}

	if err := s.cropRepo.Update(ctx, crop); err != nil {
		return err
	}

	if existing.Status != crop.Status {
		s.publisher.PublishCropStatusChanged(ctx, crop, existing.Status)
	}

	return nil
}

// DeleteCrop deletes a crop
func (s *FarmService) DeleteCrop(ctx context.Context, id string) error {
	return s.cropRepo.Delete(ctx, id)
}

func validCropStatus(status string) bool {
	switch status {
	case repository.CropStatusPlanted, repository.CropStatusGrowing,
		repository.CropStatusReady, repository.CropStatusHarvested:
		return true
	}
	return false
}

// Task operations

// CreateTask creates a new task after checking the farm exists
func (s *FarmService) CreateTask(ctx context.Context, task *repository.FarmTask) error {
	if _, err := s.farmRepo.GetByID(ctx, task.FarmID); err != nil {
		return err
	}
	return s.taskRepo.Create(ctx, task)
}

// GetTask gets a task by ID
func (s *FarmService) GetTask(ctx context.Context, id string) (*repository.FarmTask, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// ListTasks lists tasks with optional filters
func (s *FarmService) ListTasks(ctx context.Context, farmID string, completed *bool) ([]*repository.FarmTask, error) {
	return s.taskRepo.List(ctx, farmID, completed)
}

// UpdateTask updates a task
func (s *FarmService) UpdateTask(ctx context.Context, task *repository.FarmTask) error {
	return s.taskRepo.Update(ctx, task)
}

// ToggleTask flips a task's completion state and publishes an event on
// completion
func (s *FarmService) ToggleTask(ctx context.Context, id string) (*repository.FarmTask, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.taskRepo.SetCompleted(ctx, id, !task.Completed)
	if err != nil {
		return nil, err
	}

	if updated.Completed {
		s.publisher.PublishTaskCompleted(ctx, updated)
	}

	return updated, nil
}

// DeleteTask deletes a task
func (s *FarmService) DeleteTask(ctx context.Context, id string) error {
	return s.taskRepo.Delete(ctx, id)
}

// TaskBuckets groups open tasks by urgency for the dashboard
type TaskBuckets struct {
	Overdue  []*repository.FarmTask `json:"overdue"`
	DueToday []*repository.FarmTask `json:"due_today"`
	Upcoming []*repository.FarmTask `json:"upcoming"`
}

// BucketTasks sorts open tasks into overdue, due-today and upcoming buckets.
// Tasks without a due date land in upcoming.
func BucketTasks(tasks []*repository.FarmTask, now time.Time) TaskBuckets {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	var buckets TaskBuckets
	for _, task := range tasks {
		switch {
		case task.DueDate == nil:
			buckets.Upcoming = append(buckets.Upcoming, task)
		case task.DueDate.Before(startOfDay):
			buckets.Overdue = append(buckets.Overdue, task)
		case task.DueDate.Before(endOfDay):
			buckets.DueToday = append(buckets.DueToday, task)
		default:
			buckets.Upcoming = append(buckets.Upcoming, task)
		}
	}

	return buckets
}

// Finance operations

// FinanceSummary aggregates transactions
type FinanceSummary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Profit           decimal.Decimal `json:"profit"`
	TransactionCount int             `json:"transaction_count"`
}

// CreateTransaction records a finance transaction
func (s *FarmService) CreateTransaction(ctx context.Context, tx *repository.Transaction) error {
	if tx.Type != repository.TransactionIncome && tx.Type != repository.TransactionExpense {
		return errors.Validation(map[string]string{
			"type": "must be one of: income, expense",
		})
	}
	if tx.Amount.Sign() <= 0 {
		return errors.Validation(map[string]string{
			"amount": "must be positive",
		})
	}
	if _, err := s.farmRepo.GetByID(ctx, tx.FarmID); err != nil {
		return err
	}

	if err := s.transactionRepo.Create(ctx, tx); err != nil {
		return err
	}

	s.publisher.PublishTransactionCreated(ctx, tx)
	return nil
}

// GetTransaction gets a transaction by ID
func (s *FarmService) GetTransaction(ctx context.Context, id string) (*repository.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

// ListTransactions lists transactions with optional filters
func (s *FarmService) ListTransactions(ctx context.Context, farmID, txType string) ([]*repository.Transaction, error) {
	return s.transactionRepo.List(ctx, farmID, txType)
}

// UpdateTransaction updates a transaction
func (s *FarmService) UpdateTransaction(ctx context.Context, tx *repository.Transaction) error {
	return s.transactionRepo.Update(ctx, tx)
}

// DeleteTransaction deletes a transaction
func (s *FarmService) DeleteTransaction(ctx context.Context, id string) error {
	return s.transactionRepo.Delete(ctx, id)
}

// GetFinanceSummary summarizes transactions, optionally scoped to one farm
func (s *FarmService) GetFinanceSummary(ctx context.Context, farmID string) (FinanceSummary, error) {
	transactions, err := s.transactionRepo.List(ctx, farmID, "")
	if err != nil {
		return FinanceSummary{}, err
	}
	return SummarizeTransactions(transactions), nil
}

// SummarizeTransactions reduces transactions to income, expenses and profit
func SummarizeTransactions(transactions []*repository.Transaction) FinanceSummary {
	summary := FinanceSummary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	for _, tx := range transactions {
		switch tx.Type {
		case repository.TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(tx.Amount)
		case repository.TransactionExpense:
			summary.TotalExpenses = summary.TotalExpenses.Add(tx.Amount)
		}
		summary.TransactionCount++
	}

	summary.Profit = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary
}

// Equipment operations

// CreateEquipment creates an equipment record
func (s *FarmService) CreateEquipment(ctx context.Context, eq *repository.Equipment) error {
	return s.equipmentRepo.Create(ctx, eq)
}

// GetEquipment gets an equipment record by ID
func (s *FarmService) GetEquipment(ctx context.Context, id string) (*repository.Equipment, error) {
	return s.equipmentRepo.GetByID(ctx, id)
}

// ListEquipment lists equipment with an optional status filter
func (s *FarmService) ListEquipment(ctx context.Context, status string) ([]*repository.Equipment, error) {
	return s.equipmentRepo.List(ctx, status)
}

// UpdateEquipment updates an equipment record
func (s *FarmService) UpdateEquipment(ctx context.Context, eq *repository.Equipment) error {
	return s.equipmentRepo.Update(ctx, eq)
}

// DeleteEquipment deletes an equipment record
func (s *FarmService) DeleteEquipment(ctx context.Context, id string) error {
	return s.equipmentRepo.Delete(ctx, id)
}

// Dashboard

// FarmDashboard aggregates the farm overview
type FarmDashboard struct {
	FarmCount     int64          `json:"farm_count"`
	ActiveCrops   int64          `json:"active_crops"`
	Tasks         TaskBuckets    `json:"tasks"`
	Finance       FinanceSummary `json:"finance"`
	LowStockCount int            `json:"low_stock_count"`
}

// GetDashboard assembles the farm dashboard
func (s *FarmService) GetDashboard(ctx context.Context) (*FarmDashboard, error) {
	farmCount, err := s.farmRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	activeCrops, err := s.cropRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	openTasks, err := s.taskRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	finance, err := s.GetFinanceSummary(ctx, "")
	if err != nil {
		return nil, err
	}

	lowStock, err := s.inventory.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	return &FarmDashboard{
		FarmCount:     farmCount,
		ActiveCrops:   activeCrops,
		Tasks:         BucketTasks(openTasks, time.Now()),
		Finance:       finance,
		LowStockCount: len(lowStock),
	}, nil
}
