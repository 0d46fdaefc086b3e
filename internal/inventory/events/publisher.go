package events

import (
	"context"

	"github.com/farmstead/farmstead-backend/internal/inventory/repository"
	"github.com/farmstead/farmstead-backend/pkg/logger"
	"github.com/farmstead/farmstead-backend/pkg/messaging"
)

// InventoryEventPublisher publishes inventory-related events. A nil publisher
// is a no-op so the service can run without a broker in development.
type InventoryEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewInventoryEventPublisher creates a new inventory event publisher
func NewInventoryEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*InventoryEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, "farmstead-api", log)
	if err != nil {
		return nil, err
	}

	return &InventoryEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// PublishMovementRecorded publishes a movement recorded event
func (p *InventoryEventPublisher) PublishMovementRecorded(ctx context.Context, m *repository.StockMovement) {
	if p == nil {
		return
	}

	recordedBy := ""
	if m.PerformedBy != nil {
		recordedBy = *m.PerformedBy
	}

	data := messaging.MovementRecordedEvent{
		MovementID:   m.ID,
		ItemID:       m.ItemID,
		ItemName:     m.ItemName,
		MovementType: m.MovementType,
		Quantity:     m.Quantity,
		TotalCost:    m.TotalCost.String(),
		RecordedBy:   recordedBy,
	}

	if err := p.publisher.Publish(ctx, messaging.EventMovementRecorded, data); err != nil {
		p.logger.Error().Err(err).Str("movement_id", m.ID).Msg("failed to publish movement recorded event")
	}
}

// PublishBatchDepleted publishes a batch depleted event
func (p *InventoryEventPublisher) PublishBatchDepleted(ctx context.Context, batch *repository.InventoryBatch, itemName string) {
	if p == nil {
		return
	}

	data := messaging.BatchDepletedEvent{
		BatchID:     batch.ID,
		BatchNumber: batch.BatchNumber,
		ItemID:      batch.ItemID,
		ItemName:    itemName,
	}

	if err := p.publisher.Publish(ctx, messaging.EventBatchDepleted, data); err != nil {
		p.logger.Error().Err(err).Str("batch_id", batch.ID).Msg("failed to publish batch depleted event")
	}
}

// PublishAlertGenerated publishes an alert generated event
func (p *InventoryEventPublisher) PublishAlertGenerated(ctx context.Context, alert *repository.InventoryAlert) {
	if p == nil {
		return
	}

	batchID := ""
	if alert.BatchID != nil {
		batchID = *alert.BatchID
	}

	data := messaging.AlertGeneratedEvent{
		AlertID:   alert.ID,
		AlertType: alert.AlertType,
		Severity:  alert.Severity,
		Message:   alert.Message,
		ItemID:    alert.ItemID,
		BatchID:   batchID,
	}

	if err := p.publisher.Publish(ctx, messaging.EventAlertGenerated, data); err != nil {
		p.logger.Error().Err(err).Str("alert_id", alert.ID).Msg("failed to publish alert generated event")
	}
}
