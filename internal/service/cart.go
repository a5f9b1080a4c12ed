package service

import (
	"context"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/model"
	"github.com/01-Gira/store-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a normalized cart entry: a product snapshot taken at
// validation time plus the requested quantity.
type CartLine struct {
	Product  model.Product
	Quantity int
}

// Subtotal is unit price × quantity, unrounded.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartValidator resolves requested lines against the product catalog.
// It performs no stock check — insufficiency is detected under lock by the
// stock adjuster, which closes the check-then-act race a pre-check here
// would open.
type CartValidator struct {
	products repository.ProductRepository
}

func NewCartValidator(products repository.ProductRepository) *CartValidator {
	return &CartValidator{products: products}
}

// Validate normalizes the requested items into cart lines. It fails on
// unknown or inactive products, duplicate lines for the same product
// (quantities must be merged upstream), and non-positive quantities.
func (v *CartValidator) Validate(ctx context.Context, items []dto.SaleItemRequest) ([]CartLine, error) {
	lines := make([]CartLine, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, apierror.InvalidQuantity(item.ProductID)
		}
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.UnknownProduct(item.ProductID)
		}
		if seen[id] {
			return nil, apierror.DuplicateLine(item.ProductID)
		}
		seen[id] = true

		p, err := v.products.FindByID(ctx, id)
		if err != nil {
			return nil, apierror.UnknownProduct(item.ProductID)
		}
		if !p.Active {
			return nil, apierror.InactiveProduct(p.Name)
		}
		lines = append(lines, CartLine{Product: *p, Quantity: item.Quantity})
	}
	return lines, nil
}
