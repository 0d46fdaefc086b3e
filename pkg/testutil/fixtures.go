package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// UserFixture represents test user data
type UserFixture struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ItemFixture represents test inventory item data
type ItemFixture struct {
	ID                string
	Name              string
	Category          string
	SKU               string
	Unit              string
	PurchasePrice     decimal.Decimal
	LowStockThreshold int
	IsActive          bool
	CreatedAt         time.Time
}

// BatchFixture represents test inventory batch data
type BatchFixture struct {
	ID                string
	ItemID            string
	BatchNumber       string
	QuantityReceived  int
	QuantityRemaining int
	UnitCost          decimal.Decimal
	ReceivedDate      time.Time
	ExpirationDate    *time.Time
	Status            string
}

// MovementFixture represents test stock movement data
type MovementFixture struct {
	ID           string
	ItemID       string
	ItemName     string
	Unit         string
	MovementType string
	Quantity     int
	UnitCost     decimal.Decimal
	TotalCost    decimal.Decimal
	MovementDate time.Time
}

// FarmFixture represents test farm data
type FarmFixture struct {
	ID       string
	Name     string
	Size     decimal.Decimal
	SizeUnit string
}

// TransactionFixture represents test transaction data
type TransactionFixture struct {
	ID       string
	FarmID   string
	Type     string
	Category string
	Amount   decimal.Decimal
	Date     time.Time
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// User creates a user fixture with defaults
func (f *FixtureFactory) User(opts ...func(*UserFixture)) UserFixture {
	seq := f.nextSeq()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	user := UserFixture{
		ID:           uuid.New().String(),
		Email:        fmt.Sprintf("user%d@test.farmstead.io", seq),
		Name:         fmt.Sprintf("Test User %d", seq),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(&user)
	}

	return user
}

// WithEmail sets the user email
func WithEmail(email string) func(*UserFixture) {
	return func(u *UserFixture) {
		u.Email = email
	}
}

// WithPassword sets the user password (hashed)
func WithPassword(password string) func(*UserFixture) {
	return func(u *UserFixture) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		u.PasswordHash = string(hash)
	}
}

// Item creates an inventory item fixture with defaults
func (f *FixtureFactory) Item(opts ...func(*ItemFixture)) ItemFixture {
	seq := f.nextSeq()

	item := ItemFixture{
		ID:                uuid.New().String(),
		Name:              fmt.Sprintf("Test Item %d", seq),
		Category:          "feed",
		SKU:               fmt.Sprintf("SKU-%04d", seq),
		Unit:              "kg",
		PurchasePrice:     decimal.NewFromInt(10),
		LowStockThreshold: 10,
		IsActive:          true,
		CreatedAt:         time.Now(),
	}

	for _, opt := range opts {
		opt(&item)
	}

	return item
}

// WithItemName sets the inventory item name
func WithItemName(name string) func(*ItemFixture) {
	return func(i *ItemFixture) {
		i.Name = name
	}
}

// WithCategory sets the inventory item category
func WithCategory(category string) func(*ItemFixture) {
	return func(i *ItemFixture) {
		i.Category = category
	}
}

// WithThreshold sets the low stock threshold
func WithThreshold(threshold int) func(*ItemFixture) {
	return func(i *ItemFixture) {
		i.LowStockThreshold = threshold
	}
}

// Batch creates an inventory batch fixture with defaults
func (f *FixtureFactory) Batch(itemID string, opts ...func(*BatchFixture)) BatchFixture {
	seq := f.nextSeq()

	batch := BatchFixture{
		ID:                uuid.New().String(),
		ItemID:            itemID,
		BatchNumber:       fmt.Sprintf("BATCH-%04d", seq),
		QuantityReceived:  100,
		QuantityRemaining: 100,
		UnitCost:          decimal.NewFromInt(5),
		ReceivedDate:      time.Now(),
		Status:            "active",
	}

	for _, opt := range opts {
		opt(&batch)
	}

	return batch
}

// WithExpiration sets the batch expiration date
func WithExpiration(t time.Time) func(*BatchFixture) {
	return func(b *BatchFixture) {
		b.ExpirationDate = &t
	}
}

// WithRemaining sets the batch remaining quantity
func WithRemaining(qty int) func(*BatchFixture) {
	return func(b *BatchFixture) {
		b.QuantityRemaining = qty
	}
}

// Movement creates a stock movement fixture with defaults
func (f *FixtureFactory) Movement(item ItemFixture, opts ...func(*MovementFixture)) MovementFixture {
	movement := MovementFixture{
		ID:           uuid.New().String(),
		ItemID:       item.ID,
		ItemName:     item.Name,
		Unit:         item.Unit,
		MovementType: "stock_in",
		Quantity:     50,
		UnitCost:     decimal.NewFromInt(5),
		TotalCost:    decimal.NewFromInt(250),
		MovementDate: time.Now(),
	}

	for _, opt := range opts {
		opt(&movement)
	}

	return movement
}

// WithMovementType sets the movement type
func WithMovementType(movementType string) func(*MovementFixture) {
	return func(m *MovementFixture) {
		m.MovementType = movementType
	}
}

// WithQuantity sets the movement quantity
func WithQuantity(qty int) func(*MovementFixture) {
	return func(m *MovementFixture) {
		m.Quantity = qty
	}
}

// Farm creates a farm fixture with defaults
func (f *FixtureFactory) Farm(opts ...func(*FarmFixture)) FarmFixture {
	seq := f.nextSeq()

	farm := FarmFixture{
		ID:       uuid.New().String(),
		Name:     fmt.Sprintf("Test Farm %d", seq),
		Size:     decimal.NewFromInt(40),
		SizeUnit: "acres",
	}

	for _, opt := range opts {
		opt(&farm)
	}

	return farm
}

// Transaction creates a transaction fixture with defaults
func (f *FixtureFactory) Transaction(farmID string, opts ...func(*TransactionFixture)) TransactionFixture {
	tx := TransactionFixture{
		ID:       uuid.New().String(),
		FarmID:   farmID,
		Type:     "expense",
		Category: "supplies",
		Amount:   decimal.NewFromInt(100),
		Date:     time.Now(),
	}

	for _, opt := range opts {
		opt(&tx)
	}

	return tx
}

// WithTransactionType sets the transaction type
func WithTransactionType(txType string) func(*TransactionFixture) {
	return func(t *TransactionFixture) {
		t.Type = txType
	}
}

// WithAmount sets the transaction amount
func WithAmount(amount decimal.Decimal) func(*TransactionFixture) {
	return func(t *TransactionFixture) {
		t.Amount = amount
	}
}
