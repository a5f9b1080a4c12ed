package service

import (
	"context"
	"testing"

	"github.com/01-Gira/store-app-sub000/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreateStartsWithZeroStock(t *testing.T) {
	products := newStubProductRepo()
	svc := NewProductService(products, newStubInventoryRepo(), nil)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		SKU:               "CF-250",
		Name:              "Coffee beans 250g",
		UnitPrice:         decimal.RequireFromString("12.50"),
		UnitCost:          decimal.RequireFromString("7.00"),
		LowStockThreshold: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "CF-250", resp.SKU)
	assert.Equal(t, 0, resp.StockCount)
	assert.True(t, resp.Active)
	require.Len(t, products.products, 1)

	// the new entry is immediately resolvable through the lookup path
	found, err := svc.PriceBySKU(context.Background(), "CF-250")
	require.NoError(t, err)
	decEq(t, "12.5", found.UnitPrice)
}

func TestProductFindByIDIncludesLevels(t *testing.T) {
	p := catalogProduct("Coffee", "12.50", true)
	p.StockCount = 7
	products := newStubProductRepo(p)
	levels := newStubInventoryRepo()
	levels.seed(p.ID, uuid.New(), 7)
	svc := NewProductService(products, levels, nil)

	resp, err := svc.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, resp.StockCount)
	require.Len(t, resp.Levels, 1)
	assert.Equal(t, 7, resp.Levels[0].Quantity)
}
