package repository

import (
	"context"
	"time"

	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository persists committed sales. Transactions are written
// once inside the settlement unit of work and never updated.
type TransactionRepository interface {
	CreateTx(tx *gorm.DB, t *model.Transaction) error
	NextNumberTx(tx *gorm.DB) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Transaction, int64, error)
	DB() *gorm.DB
}

type transactionRepo struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) CreateTx(tx *gorm.DB, t *model.Transaction) error {
	return tx.Create(t).Error
}

// NextNumberTx draws the next receipt number from a dedicated sequence so
// concurrent settlements never collide on the unique index.
func (r *transactionRepo) NextNumberTx(tx *gorm.DB) (int, error) {
	var n int
	err := tx.Raw("SELECT nextval('transaction_number_seq')").Scan(&n).Error
	return n, err
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var t model.Transaction
	err := r.db.WithContext(ctx).Preload("Items").First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Transaction, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Transaction{})

	if filter.Date != "" {
		if day, err := time.Parse("2006-01-02", filter.Date); err == nil {
			q = q.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
		}
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var txns []model.Transaction
	err := q.Preload("Items").Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).Find(&txns).Error
	return txns, total, err
}

func (r *transactionRepo) DB() *gorm.DB { return r.db }
