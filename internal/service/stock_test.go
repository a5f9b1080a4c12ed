package service

import (
	"context"
	"testing"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustTxDecrementsLevelAndAggregate(t *testing.T) {
	p := catalogProduct("Coffee", "12.50", true)
	p.StockCount = 10
	products := newStubProductRepo(p)
	levels := newStubInventoryRepo()
	movements := newStubMovementRepo()
	locationID := uuid.New()
	levels.seed(p.ID, locationID, 10)

	a := NewStockAdjuster(products, levels, movements)
	refID := uuid.New()

	updated, err := a.AdjustTx(context.Background(), nil, p.ID, locationID,
		-3, model.MovementSale, "sale", &refID)
	require.NoError(t, err)

	assert.Equal(t, 7, updated.StockCount)
	assert.Equal(t, 7, products.products[p.ID].StockCount)
	assert.Equal(t, 7, levels.quantity(p.ID, locationID))

	require.Len(t, movements.movements, 1)
	m := movements.movements[0]
	assert.Equal(t, model.MovementSale, m.Type)
	assert.Equal(t, -3, m.Quantity)
	assert.Equal(t, 10, m.StockBefore)
	assert.Equal(t, 7, m.StockAfter)
	require.NotNil(t, m.ReferenceID)
	assert.Equal(t, refID, *m.ReferenceID)
}

func TestAdjustTxCreatesLevelLazily(t *testing.T) {
	p := catalogProduct("Tea", "8.00", true)
	products := newStubProductRepo(p)
	levels := newStubInventoryRepo()
	movements := newStubMovementRepo()
	locationID := uuid.New()

	a := NewStockAdjuster(products, levels, movements)

	updated, err := a.AdjustTx(context.Background(), nil, p.ID, locationID,
		5, model.MovementReceiving, "initial receiving", nil)
	require.NoError(t, err)

	assert.Equal(t, 5, updated.StockCount)
	assert.Equal(t, 5, levels.quantity(p.ID, locationID))
	require.Len(t, levels.levels, 1)
}

func TestAdjustTxRejectsNegativeQuantity(t *testing.T) {
	p := catalogProduct("Coffee", "12.50", true)
	p.StockCount = 3
	products := newStubProductRepo(p)
	levels := newStubInventoryRepo()
	movements := newStubMovementRepo()
	locationID := uuid.New()
	levels.seed(p.ID, locationID, 3)

	a := NewStockAdjuster(products, levels, movements)

	_, err := a.AdjustTx(context.Background(), nil, p.ID, locationID,
		-5, model.MovementSale, "sale", nil)
	be, ok := apierror.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeInsufficientStock, be.Code)

	// nothing written
	assert.Equal(t, 3, products.products[p.ID].StockCount)
	assert.Equal(t, 3, levels.quantity(p.ID, locationID))
	assert.Empty(t, movements.movements)
}

func TestAdjustTxUnknownProduct(t *testing.T) {
	a := NewStockAdjuster(newStubProductRepo(), newStubInventoryRepo(), newStubMovementRepo())

	_, err := a.AdjustTx(context.Background(), nil, uuid.New(), uuid.New(),
		1, model.MovementAdjustment, "count correction", nil)
	require.Error(t, err)
}
