package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. StockCount is the aggregate across all
// inventory levels and is maintained exclusively by the stock adjuster —
// it is never written directly by any other component.
type Product struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU               string          `gorm:"uniqueIndex;not null"`
	Name              string          `gorm:"index;not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitCost          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockCount        int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:5"`
	Active            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Location is a physical stock location (store floor, warehouse, ...).
// Exactly one location is flagged as the default sale location.
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"uniqueIndex;not null"`
	IsDefault bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InventoryLevel is the per-(product, location) stock quantity. Rows are
// created lazily on first movement and may never go negative.
type InventoryLevel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_location"`
	LocationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_location"`
	Quantity   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Product  *Product  `gorm:"foreignKey:ProductID"`
	Location *Location `gorm:"foreignKey:LocationID"`
}
