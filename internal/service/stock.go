package service

import (
	"context"
	"errors"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/model"
	"github.com/01-Gira/store-app-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockAdjuster is the single primitive through which stock is ever mutated.
// Settlement, manual adjustments, transfers and purchase-order receiving all
// go through AdjustTx, which enforces the global lock-ordering invariant:
// the Product row is locked first, then the (product, location) level row.
// Callers that touch several products must call AdjustTx in ascending
// product-id order.
type StockAdjuster struct {
	products  repository.ProductRepository
	levels    repository.InventoryRepository
	movements repository.StockMovementRepository
}

func NewStockAdjuster(
	products repository.ProductRepository,
	levels repository.InventoryRepository,
	movements repository.StockMovementRepository,
) *StockAdjuster {
	return &StockAdjuster{products: products, levels: levels, movements: movements}
}

// AdjustTx applies a signed quantity delta to one (product, location) level
// inside the caller's transaction. The level row is created lazily on first
// movement. If the new level quantity or the new aggregate stock would be
// negative, it fails with InsufficientStock and writes nothing. On success
// it writes the new level quantity, the new aggregate count and an audit
// movement, and returns the product with its updated aggregate.
func (a *StockAdjuster) AdjustTx(
	ctx context.Context,
	tx *gorm.DB,
	productID, locationID uuid.UUID,
	delta int,
	movementType, reason string,
	referenceID *uuid.UUID,
) (*model.Product, error) {
	// Lock order: product first, then level.
	p, err := a.products.LockByIDTx(tx, productID)
	if err != nil {
		return nil, err
	}

	var lvl *model.InventoryLevel
	lvl, err = a.levels.LockLevelTx(tx, productID, locationID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		lvl = &model.InventoryLevel{ProductID: productID, LocationID: locationID}
	}

	newQuantity := lvl.Quantity + delta
	newCount := p.StockCount + delta
	if newQuantity < 0 || newCount < 0 {
		return nil, apierror.InsufficientStock(p.Name)
	}

	if lvl.ID == uuid.Nil {
		lvl.Quantity = newQuantity
		if err := a.levels.CreateLevelTx(tx, lvl); err != nil {
			return nil, err
		}
	} else if err := a.levels.SetQuantityTx(tx, lvl.ID, newQuantity); err != nil {
		return nil, err
	}

	if err := a.products.SetStockCountTx(tx, productID, newCount); err != nil {
		return nil, err
	}

	mov := &model.StockMovement{
		ProductID:   productID,
		LocationID:  locationID,
		Type:        movementType,
		Quantity:    delta,
		StockBefore: p.StockCount,
		StockAfter:  newCount,
		Reason:      reason,
		ReferenceID: referenceID,
	}
	if err := a.movements.CreateTx(tx, mov); err != nil {
		return nil, err
	}

	p.StockCount = newCount
	return p, nil
}
