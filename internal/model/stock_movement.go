package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	MovementSale        = "sale"
	MovementAdjustment  = "adjustment"
	MovementTransferIn  = "transfer_in"
	MovementTransferOut = "transfer_out"
	MovementReceiving   = "receiving"
)

// StockMovement records every stock change applied by the stock adjuster.
// StockBefore/StockAfter snapshot the product's aggregate count around the
// movement, written inside the same database transaction as the change.
type StockMovement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	LocationID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"not null"`
	Quantity    int       `gorm:"not null"` // positive = in, negative = out
	StockBefore int       `gorm:"not null"`
	StockAfter  int       `gorm:"not null"`
	Reason      string
	ReferenceID *uuid.UUID `gorm:"type:uuid"` // transaction id when the movement came from a sale
	CreatedAt   time.Time

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Location *Location `gorm:"foreignKey:LocationID"`
}
