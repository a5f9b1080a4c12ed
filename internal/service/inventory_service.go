package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/model"
	"github.com/01-Gira/store-app-sub000/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService exposes the non-sale stock flows: manual adjustments,
// transfers between locations and purchase-order receiving. All of them go
// through the stock adjuster, inheriting its lock-ordering contract and
// negative-stock guard.
type InventoryService interface {
	Adjust(ctx context.Context, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	Transfer(ctx context.Context, req dto.TransferStockRequest) error
	Receive(ctx context.Context, req dto.ReceiveStockRequest) error
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
}

type inventoryService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	stock     *StockAdjuster
}

func NewInventoryService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	stock *StockAdjuster,
) InventoryService {
	return &inventoryService{products: products, movements: movements, stock: stock}
}

// Adjust applies a signed manual correction to one (product, location) level.
func (s *inventoryService) Adjust(ctx context.Context, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apierror.UnknownProduct(req.ProductID)
	}
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("invalid location_id: %w", err)
	}
	if req.Quantity == 0 {
		return nil, apierror.InvalidQuantity(req.ProductID)
	}

	var updated *model.Product
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		var aerr error
		updated, aerr = s.stock.AdjustTx(ctx, tx, productID, locationID,
			req.Quantity, model.MovementAdjustment, req.Reason, nil)
		return aerr
	})
	if txErr != nil {
		if apierror.IsLockConflict(txErr) {
			return nil, apierror.ConcurrencyConflict()
		}
		return nil, txErr
	}
	return productToResponse(updated, nil), nil
}

// Transfer moves quantity between two locations of the same product. Both
// legs run in one transaction under a single product lock; the source level
// is debited before the destination is credited, so an insufficient source
// aborts before anything moves.
func (s *inventoryService) Transfer(ctx context.Context, req dto.TransferStockRequest) error {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return apierror.UnknownProduct(req.ProductID)
	}
	fromID, err := uuid.Parse(req.FromLocationID)
	if err != nil {
		return fmt.Errorf("invalid from_location_id: %w", err)
	}
	toID, err := uuid.Parse(req.ToLocationID)
	if err != nil {
		return fmt.Errorf("invalid to_location_id: %w", err)
	}

	reason := req.Reason
	if reason == "" {
		reason = fmt.Sprintf("transfer %s -> %s", req.FromLocationID, req.ToLocationID)
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if _, aerr := s.stock.AdjustTx(ctx, tx, productID, fromID,
			-req.Quantity, model.MovementTransferOut, reason, nil); aerr != nil {
			return aerr
		}
		_, aerr := s.stock.AdjustTx(ctx, tx, productID, toID,
			req.Quantity, model.MovementTransferIn, reason, nil)
		return aerr
	})
	if txErr != nil && apierror.IsLockConflict(txErr) {
		return apierror.ConcurrencyConflict()
	}
	return txErr
}

// Receive books received purchase-order lines into a location, walking the
// lines in ascending product-id order to keep the lock-ordering invariant
// consistent with concurrent settlements.
func (s *inventoryService) Receive(ctx context.Context, req dto.ReceiveStockRequest) error {
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return fmt.Errorf("invalid location_id: %w", err)
	}

	type receiveLine struct {
		productID uuid.UUID
		quantity  int
	}
	lines := make([]receiveLine, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for _, item := range req.Items {
		id, perr := uuid.Parse(item.ProductID)
		if perr != nil {
			return apierror.UnknownProduct(item.ProductID)
		}
		if seen[id] {
			return apierror.DuplicateLine(item.ProductID)
		}
		seen[id] = true
		lines = append(lines, receiveLine{productID: id, quantity: item.Quantity})
	}
	sort.Slice(lines, func(i, j int) bool {
		return bytes.Compare(lines[i].productID[:], lines[j].productID[:]) < 0
	})

	reason := req.Reference
	if reason == "" {
		reason = "purchase order receiving"
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		for _, line := range lines {
			if _, aerr := s.stock.AdjustTx(ctx, tx, line.productID, locationID,
				line.quantity, model.MovementReceiving, reason, nil); aerr != nil {
				return aerr
			}
		}
		return nil
	})
	if txErr != nil && apierror.IsLockConflict(txErr) {
		return apierror.ConcurrencyConflict()
	}
	return txErr
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		var ref *string
		if m.ReferenceID != nil {
			r := m.ReferenceID.String()
			ref = &r
		}
		items = append(items, dto.StockMovementResponse{
			ID:          m.ID.String(),
			ProductID:   m.ProductID.String(),
			LocationID:  m.LocationID.String(),
			Type:        m.Type,
			Quantity:    m.Quantity,
			StockBefore: m.StockBefore,
			StockAfter:  m.StockAfter,
			Reason:      m.Reason,
			ReferenceID: ref,
			CreatedAt:   m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 100
	}
	return &dto.StockMovementListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}
