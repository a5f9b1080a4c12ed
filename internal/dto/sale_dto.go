package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	// Quantity is an integer by contract — fractional quantities are rejected
	// at JSON binding time before the cart validator ever sees them.
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Items      []SaleItemRequest `json:"items"       validate:"required,min=1,dive"`
	CustomerID *string           `json:"customer_id" validate:"omitempty,uuid"`
	// DiscountType is required whenever DiscountValue is present; the pricing
	// engine enforces the pairing and the percentage range.
	DiscountType  *string          `json:"discount_type"  validate:"omitempty,oneof=percentage value"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=cash card bank_transfer e_wallet other"`
	// AmountPaid deliberately carries no "required" tag: a fully discounted
	// cart settles with amount_paid 0, and sufficiency against the total due
	// is the settlement engine's check, not the binder's.
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	PointsToRedeem int             `json:"loyalty_points_to_redeem" validate:"omitempty,min=0"`
	Notes          *string         `json:"notes"`
}

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date       string `form:"date"` // YYYY-MM-DD; empty = all
	CustomerID string `form:"customer_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID  string          `json:"product_id"`
	Product    string          `json:"product"`
	SKU        string          `json:"sku"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TaxRatePct decimal.Decimal `json:"tax_rate_pct"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type SaleResponse struct {
	ID              string             `json:"id"`
	Number          int                `json:"number"`
	Items           []SaleItemResponse `json:"items"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	TaxTotal        decimal.Decimal    `json:"tax_total"`
	DiscountTotal   decimal.Decimal    `json:"discount_total"`
	PointsRedeemed  int                `json:"points_redeemed"`
	RedemptionValue decimal.Decimal    `json:"redemption_value"`
	Total           decimal.Decimal    `json:"total"`
	PaymentMethod   string             `json:"payment_method"`
	AmountPaid      decimal.Decimal    `json:"amount_paid"`
	ChangeDue       decimal.Decimal    `json:"change_due"`
	PointsEarned    int                `json:"points_earned"`
	CustomerID      *string            `json:"customer_id,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	CreatedAt       string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
