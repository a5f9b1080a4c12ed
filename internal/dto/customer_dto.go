package dto

import "github.com/shopspring/decimal"

type CustomerResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         *string `json:"email,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	LoyaltyPoints int     `json:"loyalty_points"`
}

// LedgerEntryResponse is one row of a customer's loyalty ledger history.
type LedgerEntryResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	PointsChange  int             `json:"points_change"`
	PointsBalance int             `json:"points_balance"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID *string         `json:"transaction_id,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

type LedgerListResponse struct {
	Data  []LedgerEntryResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// LedgerFilter is bound from the query string of GET /v1/customers/:id/ledger.
type LedgerFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}
