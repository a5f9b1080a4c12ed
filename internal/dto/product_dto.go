package dto

import "github.com/shopspring/decimal"

// CreateProductRequest registers a catalog entry. Products start with zero
// stock; quantity only ever arrives through receiving or adjustments.
type CreateProductRequest struct {
	SKU               string          `json:"sku"                 validate:"required,min=1"`
	Name              string          `json:"name"                validate:"required,min=1"`
	UnitPrice         decimal.Decimal `json:"unit_price"          validate:"min=0"`
	UnitCost          decimal.Decimal `json:"unit_cost"           validate:"min=0"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

// ProductFilter is bound from the query string of GET /v1/products.
type ProductFilter struct {
	SKU    string `form:"sku"`
	Name   string `form:"name"`
	Active string `form:"active"` // "false" = inactive, "all" = everything, default = active
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductResponse struct {
	ID                string                   `json:"id"`
	SKU               string                   `json:"sku"`
	Name              string                   `json:"name"`
	UnitPrice         decimal.Decimal          `json:"unit_price"`
	UnitCost          decimal.Decimal          `json:"unit_cost"`
	StockCount        int                      `json:"stock_count"`
	LowStockThreshold int                      `json:"low_stock_threshold"`
	Active            bool                     `json:"active"`
	Levels            []InventoryLevelResponse `json:"levels,omitempty"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// PriceLookupResponse is the cached payload of GET /v1/price/:sku.
type PriceLookupResponse struct {
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
