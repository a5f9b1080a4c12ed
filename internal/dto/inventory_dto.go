package dto

// AdjustStockRequest applies a signed manual correction to one
// (product, location) level.
type AdjustStockRequest struct {
	ProductID  string `json:"product_id"  validate:"required,uuid"`
	LocationID string `json:"location_id" validate:"required,uuid"`
	// Quantity is signed: positive adds stock, negative removes it.
	Quantity int    `json:"quantity" validate:"required"`
	Reason   string `json:"reason"   validate:"required,min=3"`
}

// TransferStockRequest moves quantity of one product between two locations.
type TransferStockRequest struct {
	ProductID      string `json:"product_id"       validate:"required,uuid"`
	FromLocationID string `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string `json:"to_location_id"   validate:"required,uuid,nefield=FromLocationID"`
	Quantity       int    `json:"quantity"         validate:"required,min=1"`
	Reason         string `json:"reason"`
}

// ReceiveStockRequest books received purchase-order lines into a location.
type ReceiveStockRequest struct {
	LocationID string               `json:"location_id" validate:"required,uuid"`
	Reference  string               `json:"reference"`
	Items      []ReceiveItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReceiveItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

// StockMovementFilter is bound from the query string of GET /v1/inventory/movements.
type StockMovementFilter struct {
	ProductID string `form:"product_id"`
	Type      string `form:"type"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=100"`
}

type StockMovementResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	LocationID  string  `json:"location_id"`
	Type        string  `json:"type"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stock_before"`
	StockAfter  int     `json:"stock_after"`
	Reason      string  `json:"reason,omitempty"`
	ReferenceID *string `json:"reference_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

type InventoryLevelResponse struct {
	LocationID string `json:"location_id"`
	Location   string `json:"location"`
	Quantity   int    `json:"quantity"`
}
