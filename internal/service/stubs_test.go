package service

import (
	"context"
	"testing"

	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// decEq asserts decimal equality by value, ignoring exponent representation.
func decEq(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

// ─── product repository stub ─────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo(products ...*model.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku && p.Active {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) LockByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) SetStockCountTx(_ *gorm.DB, id uuid.UUID, count int) error {
	r.products[id].StockCount = count
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ─── inventory repository stub ───────────────────────────────────────────────

type stubInventoryRepo struct {
	levels map[uuid.UUID]*model.InventoryLevel // by level id
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{levels: make(map[uuid.UUID]*model.InventoryLevel)}
}

func (r *stubInventoryRepo) seed(productID, locationID uuid.UUID, quantity int) uuid.UUID {
	id := uuid.New()
	r.levels[id] = &model.InventoryLevel{ID: id, ProductID: productID, LocationID: locationID, Quantity: quantity}
	return id
}

func (r *stubInventoryRepo) quantity(productID, locationID uuid.UUID) int {
	for _, lvl := range r.levels {
		if lvl.ProductID == productID && lvl.LocationID == locationID {
			return lvl.Quantity
		}
	}
	return 0
}

func (r *stubInventoryRepo) LockLevelTx(_ *gorm.DB, productID, locationID uuid.UUID) (*model.InventoryLevel, error) {
	for _, lvl := range r.levels {
		if lvl.ProductID == productID && lvl.LocationID == locationID {
			cp := *lvl
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) CreateLevelTx(_ *gorm.DB, lvl *model.InventoryLevel) error {
	lvl.ID = uuid.New()
	cp := *lvl
	r.levels[lvl.ID] = &cp
	return nil
}

func (r *stubInventoryRepo) SetQuantityTx(_ *gorm.DB, id uuid.UUID, quantity int) error {
	r.levels[id].Quantity = quantity
	return nil
}

func (r *stubInventoryRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.InventoryLevel, error) {
	var out []model.InventoryLevel
	for _, lvl := range r.levels {
		if lvl.ProductID == productID {
			out = append(out, *lvl)
		}
	}
	return out, nil
}

// ─── location repository stub ────────────────────────────────────────────────

type stubLocationRepo struct {
	locations map[uuid.UUID]*model.Location
}

func newStubLocationRepo(locations ...*model.Location) *stubLocationRepo {
	r := &stubLocationRepo{locations: make(map[uuid.UUID]*model.Location)}
	for _, l := range locations {
		r.locations[l.ID] = l
	}
	return r
}

func (r *stubLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Location, error) {
	l, ok := r.locations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLocationRepo) FindDefault(_ context.Context) (*model.Location, error) {
	for _, l := range r.locations {
		if l.IsDefault {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ─── transaction repository stub ─────────────────────────────────────────────

type stubTransactionRepo struct {
	created []*model.Transaction
	number  int
}

func newStubTransactionRepo() *stubTransactionRepo { return &stubTransactionRepo{} }

func (r *stubTransactionRepo) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	r.created = append(r.created, t)
	return nil
}

func (r *stubTransactionRepo) NextNumberTx(_ *gorm.DB) (int, error) {
	r.number++
	return r.number, nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	for _, t := range r.created {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTransactionRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Transaction, int64, error) {
	out := make([]model.Transaction, 0, len(r.created))
	for _, t := range r.created {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) DB() *gorm.DB { return nil }

// ─── customer repository stub ────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo(customers ...*model.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) LockByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCustomerRepo) SetLoyaltyPointsTx(_ *gorm.DB, id uuid.UUID, points int) error {
	r.customers[id].LoyaltyPoints = points
	return nil
}

// ─── loyalty ledger repository stub ──────────────────────────────────────────

type stubLoyaltyRepo struct {
	entries []model.LoyaltyLedgerEntry
}

func newStubLoyaltyRepo() *stubLoyaltyRepo { return &stubLoyaltyRepo{} }

func (r *stubLoyaltyRepo) CreateEntryTx(_ *gorm.DB, e *model.LoyaltyLedgerEntry) error {
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubLoyaltyRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _ dto.LedgerFilter) ([]model.LoyaltyLedgerEntry, int64, error) {
	var out []model.LoyaltyLedgerEntry
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubLoyaltyRepo) LastEntry(_ context.Context, customerID uuid.UUID) (*model.LoyaltyLedgerEntry, error) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].CustomerID == customerID {
			return &r.entries[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ─── stock movement repository stub ──────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, _ dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}
