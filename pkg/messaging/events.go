package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Inventory events
	EventMovementRecorded = "inventory.movement.recorded"
	EventBatchDepleted    = "inventory.batch.depleted"
	EventAlertGenerated   = "inventory.alert.generated"

	// Farm events
	EventTaskCompleted      = "farm.task.completed"
	EventCropStatusChanged  = "farm.crop.status.changed"
	EventTransactionCreated = "farm.transaction.created"
)

// Exchange names
const (
	ExchangeInventoryEvents = "inventory.events"
	ExchangeFarmEvents      = "farm.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}

// Inventory events

// MovementRecordedEvent is published when a stock movement is appended to the ledger
type MovementRecordedEvent struct {
	MovementID   string `json:"movement_id"`
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	MovementType string `json:"movement_type"`
	Quantity     int    `json:"quantity"`
	TotalCost    string `json:"total_cost"`
	RecordedBy   string `json:"recorded_by"`
}

// BatchDepletedEvent is published when a batch's remaining quantity reaches zero
type BatchDepletedEvent struct {
	BatchID     string `json:"batch_id"`
	BatchNumber string `json:"batch_number"`
	ItemID      string `json:"item_id"`
	ItemName    string `json:"item_name"`
}

// AlertGeneratedEvent is published when an inventory alert is created
type AlertGeneratedEvent struct {
	AlertID   string `json:"alert_id"`
	AlertType string `json:"alert_type"`
	Severity  string `json:"severity"`
	Message   string `json:"message"`
	ItemID    string `json:"item_id"`
	BatchID   string `json:"batch_id,omitempty"`
}

// Farm events

// TaskCompletedEvent is published when a farm task is marked completed
type TaskCompletedEvent struct {
	TaskID string `json:"task_id"`
	FarmID string `json:"farm_id"`
	Title  string `json:"title"`
}

// CropStatusChangedEvent is published when a crop moves to a new status
type CropStatusChangedEvent struct {
	CropID    string `json:"crop_id"`
	FarmID    string `json:"farm_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// TransactionCreatedEvent is published when a finance transaction is recorded
type TransactionCreatedEvent struct {
	TransactionID string `json:"transaction_id"`
	FarmID        string `json:"farm_id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
}
