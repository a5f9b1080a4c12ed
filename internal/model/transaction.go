package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at settlement.
const (
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentBankTransfer = "bank_transfer"
	PaymentEWallet      = "e_wallet"
	PaymentOther        = "other"
)

// Transaction is a committed sale. Rows are immutable once written: the
// settlement coordinator creates the transaction and its items inside one
// database transaction and nothing in this system updates them afterwards.
//
// Total is the net payable amount:
//
//	Total = round(Subtotal + TaxTotal - DiscountTotal - RedemptionValue, 2)
//
// so AmountPaid >= Total and ChangeDue = AmountPaid - Total hold for every
// transaction, with or without a loyalty redemption.
type Transaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number          int             `gorm:"uniqueIndex;not null"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxTotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PointsRedeemed  int             `gorm:"not null;default:0"`
	RedemptionValue decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod   string          `gorm:"not null"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ChangeDue       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CustomerID      *uuid.UUID      `gorm:"type:uuid;index"`
	Notes           *string
	CreatedAt       time.Time

	Customer *Customer         `gorm:"foreignKey:CustomerID"`
	Items    []TransactionItem `gorm:"foreignKey:TransactionID"`
}

// TransactionItem is a point-in-time snapshot of a sold line. Product name,
// SKU and unit price are copied at sale time so later catalog edits never
// change historical transactions.
type TransactionItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName   string          `gorm:"not null"`
	ProductSKU    string          `gorm:"not null"`
	Quantity      int             `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRatePct    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt     time.Time
}
