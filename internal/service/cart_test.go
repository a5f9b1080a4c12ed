package service

import (
	"context"
	"testing"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogProduct(name string, price string, active bool) *model.Product {
	return &model.Product{
		ID:        uuid.New(),
		SKU:       "SKU-" + name,
		Name:      name,
		UnitPrice: decimal.RequireFromString(price),
		Active:    active,
	}
}

func TestCartValidateResolvesLines(t *testing.T) {
	p1 := catalogProduct("Coffee", "12.50", true)
	p2 := catalogProduct("Tea", "8.00", true)
	v := NewCartValidator(newStubProductRepo(p1, p2))

	lines, err := v.Validate(context.Background(), []dto.SaleItemRequest{
		{ProductID: p1.ID.String(), Quantity: 2},
		{ProductID: p2.ID.String(), Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, p1.ID, lines[0].Product.ID)
	assert.Equal(t, 2, lines[0].Quantity)
	decEq(t, "25", lines[0].Subtotal())
}

func TestCartValidateRejectsZeroQuantity(t *testing.T) {
	p := catalogProduct("Coffee", "12.50", true)
	v := NewCartValidator(newStubProductRepo(p))

	_, err := v.Validate(context.Background(), []dto.SaleItemRequest{
		{ProductID: p.ID.String(), Quantity: 0},
	})
	be, ok := apierror.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeInvalidQuantity, be.Code)
}

func TestCartValidateRejectsMalformedID(t *testing.T) {
	v := NewCartValidator(newStubProductRepo())

	_, err := v.Validate(context.Background(), []dto.SaleItemRequest{
		{ProductID: "not-a-uuid", Quantity: 1},
	})
	be, ok := apierror.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeUnknownProduct, be.Code)
}

func TestCartValidateRejectsUnknownProduct(t *testing.T) {
	v := NewCartValidator(newStubProductRepo())

	_, err := v.Validate(context.Background(), []dto.SaleItemRequest{
		{ProductID: uuid.New().String(), Quantity: 1},
	})
	be, ok := apierror.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeUnknownProduct, be.Code)
}

func TestCartValidateRejectsDuplicateLines(t *testing.T) {
	p := catalogProduct("Coffee", "12.50", true)
	v := NewCartValidator(newStubProductRepo(p))

	_, err := v.Validate(context.Background(), []dto.SaleItemRequest{
		{ProductID: p.ID.String(), Quantity: 1},
		{ProductID: p.ID.String(), Quantity: 3},
	})
	be, ok := apierror.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeDuplicateLine, be.Code)
}

func TestCartValidateRejectsInactiveProduct(t *testing.T) {
	p := catalogProduct("Legacy", "1.00", false)
	v := NewCartValidator(newStubProductRepo(p))

	_, err := v.Validate(context.Background(), []dto.SaleItemRequest{
		{ProductID: p.ID.String(), Quantity: 1},
	})
	be, ok := apierror.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, apierror.CodeInactiveProduct, be.Code)
}
