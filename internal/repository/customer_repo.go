package repository

import (
	"context"

	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CustomerRepository is the customer directory. The loyalty point balance is
// only ever written through SetLoyaltyPointsTx, by the loyalty ledger, under
// the row lock taken with LockByIDTx.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Customer, error)
	SetLoyaltyPointsTx(tx *gorm.DB, id uuid.UUID, points int) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) LockByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) SetLoyaltyPointsTx(tx *gorm.DB, id uuid.UUID, points int) error {
	return tx.Model(&model.Customer{}).Where("id = ?", id).
		Update("loyalty_points", points).Error
}

// LoyaltyRepository appends and reads the append-only loyalty ledger.
type LoyaltyRepository interface {
	CreateEntryTx(tx *gorm.DB, e *model.LoyaltyLedgerEntry) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, filter dto.LedgerFilter) ([]model.LoyaltyLedgerEntry, int64, error)
	LastEntry(ctx context.Context, customerID uuid.UUID) (*model.LoyaltyLedgerEntry, error)
}

type loyaltyRepo struct{ db *gorm.DB }

func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository { return &loyaltyRepo{db: db} }

func (r *loyaltyRepo) CreateEntryTx(tx *gorm.DB, e *model.LoyaltyLedgerEntry) error {
	return tx.Create(e).Error
}

func (r *loyaltyRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, filter dto.LedgerFilter) ([]model.LoyaltyLedgerEntry, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.LoyaltyLedgerEntry{}).
		Where("customer_id = ?", customerID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var entries []model.LoyaltyLedgerEntry
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&entries).Error
	return entries, total, err
}

func (r *loyaltyRepo) LastEntry(ctx context.Context, customerID uuid.UUID) (*model.LoyaltyLedgerEntry, error) {
	var e model.LoyaltyLedgerEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}
