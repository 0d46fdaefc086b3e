package events

import (
	"context"

	"github.com/farmstead/farmstead-backend/internal/farm/repository"
	"github.com/farmstead/farmstead-backend/pkg/logger"
	"github.com/farmstead/farmstead-backend/pkg/messaging"
)

// FarmEventPublisher publishes farm-related events. A nil publisher is a
// no-op so the service can run without a broker in development.
type FarmEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewFarmEventPublisher creates a new farm event publisher
func NewFarmEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*FarmEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeFarmEvents, "farmstead-api", log)
	if err != nil {
		return nil, err
	}

	return &FarmEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishTaskCompleted publishes a task completed event
func (p *FarmEventPublisher) PublishTaskCompleted(ctx context.Context, task *repository.FarmTask) {
	if p == nil {
		return
	}

	data := messaging.TaskCompletedEvent{
		TaskID: task.ID,
		FarmID: task.FarmID,
		Title:  task.Title,
	}

	if err := p.publisher.Publish(ctx, messaging.EventTaskCompleted, data); err != nil {
		p.logger.Error().Err(err).Str("task_id", task.ID).Msg("failed to publish task completed event")
	}
}

// PublishCropStatusChanged publishes a crop status change event
func (p *FarmEventPublisher) PublishCropStatusChanged(ctx context.Context, crop *repository.Crop, oldStatus string) {
	if p == nil {
		return
	}

	data := messaging.CropStatusChangedEvent{
		CropID:    crop.ID,
		FarmID:    crop.FarmID,
		OldStatus: oldStatus,
		NewStatus: crop.Status,
	}

	if err := p.publisher.Publish(ctx, messaging.EventCropStatusChanged, data); err != nil {
		p.logger.Error().Err(err).Str("crop_id", crop.ID).Msg("failed to publish crop status changed event")
	}
}

// PublishTransactionCreated publishes a transaction created event
func (p *FarmEventPublisher) PublishTransactionCreated(ctx context.Context, tx *repository.Transaction) {
	if p == nil {
		return
	}

	data := messaging.TransactionCreatedEvent{
		TransactionID: tx.ID,
		FarmID:        tx.FarmID,
		Type:          tx.Type,
		Amount:        tx.Amount.String(),
	}

	if err := p.publisher.Publish(ctx, messaging.EventTransactionCreated, data); err != nil {
		p.logger.Error().Err(err).Str("transaction_id", tx.ID).Msg("failed to publish transaction created event")
	}
}
