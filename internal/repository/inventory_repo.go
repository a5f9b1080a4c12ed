package repository

import (
	"context"

	"github.com/01-Gira/store-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository manages per-(product, location) stock levels. Levels
// are created lazily by the stock adjuster on first movement; LockLevelTx
// returns gorm.ErrRecordNotFound for a level that does not exist yet.
type InventoryRepository interface {
	LockLevelTx(tx *gorm.DB, productID, locationID uuid.UUID) (*model.InventoryLevel, error)
	CreateLevelTx(tx *gorm.DB, lvl *model.InventoryLevel) error
	SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.InventoryLevel, error)
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) LockLevelTx(tx *gorm.DB, productID, locationID uuid.UUID) (*model.InventoryLevel, error) {
	var lvl model.InventoryLevel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&lvl).Error
	if err != nil {
		return nil, err
	}
	return &lvl, nil
}

func (r *inventoryRepo) CreateLevelTx(tx *gorm.DB, lvl *model.InventoryLevel) error {
	return tx.Create(lvl).Error
}

func (r *inventoryRepo) SetQuantityTx(tx *gorm.DB, id uuid.UUID, quantity int) error {
	return tx.Model(&model.InventoryLevel{}).Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *inventoryRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.InventoryLevel, error) {
	var levels []model.InventoryLevel
	err := r.db.WithContext(ctx).
		Preload("Location").
		Where("product_id = ?", productID).
		Find(&levels).Error
	return levels, err
}

// LocationRepository resolves stock locations. The default location is the
// fallback sale location when none is configured.
type LocationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error)
	FindDefault(ctx context.Context) (*model.Location, error)
}

type locationRepo struct{ db *gorm.DB }

func NewLocationRepository(db *gorm.DB) LocationRepository { return &locationRepo{db: db} }

func (r *locationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *locationRepo) FindDefault(ctx context.Context) (*model.Location, error) {
	var l model.Location
	err := r.db.WithContext(ctx).Where("is_default = true").First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}
