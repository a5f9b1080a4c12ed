package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer holds the stored loyalty point balance. LoyaltyPoints is mutated
// only by the loyalty ledger, under row lock, and always equals the
// points_balance of the customer's most recent ledger entry.
type Customer struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	Email         *string   `gorm:"index"`
	Phone         *string
	LoyaltyPoints int `gorm:"not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Loyalty ledger entry types.
const (
	LedgerEarn   = "earn"
	LedgerRedeem = "redeem"
)

// LoyaltyLedgerEntry is an append-only audit record of a point change.
// PointsBalance snapshots the balance after this entry, so ordering a
// customer's entries by creation time yields a chain where each balance
// equals the previous balance plus this entry's PointsChange.
type LoyaltyLedgerEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TransactionID *uuid.UUID      `gorm:"type:uuid;index"`
	Type          string          `gorm:"not null"` // earn | redeem
	PointsChange  int             `gorm:"not null"` // signed: positive earn, negative redeem
	PointsBalance int             `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}

// TableName overrides GORM's default pluralization (loyalty_ledger_entrys).
func (LoyaltyLedgerEntry) TableName() string { return "loyalty_ledger_entries" }
