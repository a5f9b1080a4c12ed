package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/01-Gira/store-app-sub000/internal/apierror"
	"github.com/01-Gira/store-app-sub000/internal/config"
	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/model"
	"github.com/01-Gira/store-app-sub000/internal/repository"
	"github.com/01-Gira/store-app-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService settles carts into committed transactions and serves the sale
// read API.
type SaleService interface {
	Settle(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	FindByID(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	txns       repository.TransactionRepository
	customers  repository.CustomerRepository
	locations  repository.LocationRepository
	cart       *CartValidator
	pricing    *PricingEngine
	stock      *StockAdjuster
	loyalty    *LoyaltyLedger
	cfg        *config.Config
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	txns repository.TransactionRepository,
	customers repository.CustomerRepository,
	locations repository.LocationRepository,
	cart *CartValidator,
	pricing *PricingEngine,
	stock *StockAdjuster,
	loyalty *LoyaltyLedger,
	cfg *config.Config,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		txns:       txns,
		customers:  customers,
		locations:  locations,
		cart:       cart,
		pricing:    pricing,
		stock:      stock,
		loyalty:    loyalty,
		cfg:        cfg,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Settle runs the settlement state machine:
//
//	Validate → Price → LockAndReserveStock → ApplyRedemption →
//	WriteTransaction&Items → ApplyEarning → Commit
//
// Every state runs inside one database transaction; a failure at any state
// rolls back all prior effects, so no partial transaction, ledger entry or
// stock mutation is ever visible. Stock is reserved in ascending product-id
// order so concurrent settlements acquire locks in the same sequence.
func (s *saleService) Settle(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	// Store policy is resolved once per request into an immutable snapshot.
	st, err := s.cfg.Settings()
	if err != nil {
		return nil, err
	}

	// Validate
	lines, err := s.cart.Validate(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// Price
	discount, err := s.pricing.ParseDiscount(req.DiscountType, req.DiscountValue)
	if err != nil {
		return nil, err
	}
	prices := s.pricing.Price(lines, st.TaxRatePct, discount)

	// Resolve collaborators outside the transaction: existence checks only,
	// the authoritative balance is re-read under lock inside the transaction.
	var customerID *uuid.UUID
	if req.CustomerID != nil {
		id, perr := uuid.Parse(*req.CustomerID)
		if perr != nil {
			return nil, apierror.UnknownCustomer(*req.CustomerID)
		}
		if _, ferr := s.customers.FindByID(ctx, id); ferr != nil {
			return nil, apierror.UnknownCustomer(*req.CustomerID)
		}
		customerID = &id
	}

	saleLocation, err := s.resolveSaleLocation(ctx)
	if err != nil {
		return nil, err
	}

	// Lock-ordering invariant: ascending product id across all settlements.
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i].Product.ID, lines[j].Product.ID
		return bytes.Compare(a[:], b[:]) < 0
	})

	txnID := uuid.New()
	var (
		txn          model.Transaction
		plan         RedemptionPlan
		pointsEarned int
		lowStock     []uuid.UUID
	)

	txErr := runTx(ctx, s.txns.DB(), func(tx *gorm.DB) error {
		if tx != nil && st.LockWaitTimeout > 0 {
			// Bounded lock waits: blocking on a row held by another in-flight
			// settlement times out and surfaces as a concurrency conflict.
			if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", st.LockWaitTimeout.Milliseconds())).Error; err != nil {
				return err
			}
		}

		// LockAndReserveStock
		lowStock = lowStock[:0]
		for _, line := range lines {
			p, aerr := s.stock.AdjustTx(ctx, tx, line.Product.ID, saleLocation.ID,
				-line.Quantity, model.MovementSale, fmt.Sprintf("sale %s", txnID), &txnID)
			if aerr != nil {
				return aerr
			}
			if p.StockCount <= p.LowStockThreshold {
				lowStock = append(lowStock, p.ID)
			}
		}

		// ApplyRedemption — staged under the customer row lock, recomputing
		// the net total; nothing is written until the transaction row exists.
		plan = RedemptionPlan{Value: decimal.Zero, NetTotal: prices.TotalAfterDiscount}
		var lockedCustomer *model.Customer
		if customerID != nil {
			var lerr error
			lockedCustomer, lerr = s.customers.LockByIDTx(tx, *customerID)
			if lerr != nil {
				return lerr
			}
			plan = PlanRedemption(lockedCustomer.LoyaltyPoints, req.PointsToRedeem, prices.TotalAfterDiscount, st)
		}

		// Payment check against the post-redemption net total.
		if req.AmountPaid.LessThan(plan.NetTotal) {
			return apierror.InsufficientPayment()
		}

		// WriteTransaction&Items
		number, nerr := s.txns.NextNumberTx(tx)
		if nerr != nil {
			return nerr
		}
		txn = model.Transaction{
			ID:              txnID,
			Number:          number,
			Subtotal:        round2(prices.Subtotal),
			TaxTotal:        prices.TaxTotal,
			DiscountTotal:   prices.DiscountTotal,
			PointsRedeemed:  plan.Points,
			RedemptionValue: plan.Value,
			Total:           plan.NetTotal,
			PaymentMethod:   req.PaymentMethod,
			AmountPaid:      req.AmountPaid,
			ChangeDue:       req.AmountPaid.Sub(plan.NetTotal),
			CustomerID:      customerID,
			Notes:           req.Notes,
		}
		for _, line := range lines {
			txn.Items = append(txn.Items, model.TransactionItem{
				ProductID:   line.Product.ID,
				ProductName: line.Product.Name,
				ProductSKU:  line.Product.SKU,
				Quantity:    line.Quantity,
				UnitPrice:   line.Product.UnitPrice,
				TaxRatePct:  st.TaxRatePct,
				TaxAmount:   s.pricing.LineTax(line, st.TaxRatePct),
				LineTotal:   round2(line.Subtotal()),
			})
		}
		if cerr := s.txns.CreateTx(tx, &txn); cerr != nil {
			return cerr
		}

		// ApplyEarning — redemption-then-earn entry order preserves the
		// chained-balance invariant.
		if lockedCustomer != nil {
			var aerr error
			pointsEarned, _, aerr = s.loyalty.ApplyTx(ctx, tx, lockedCustomer, plan, txnID, st)
			if aerr != nil {
				return aerr
			}
		}
		return nil
	})
	if txErr != nil {
		if apierror.IsLockConflict(txErr) {
			return nil, apierror.ConcurrencyConflict()
		}
		return nil, txErr
	}

	// Post-commit, fire-and-forget: low-stock trigger and receipt render run
	// outside the atomic unit and can never roll back the settlement.
	if s.dispatcher != nil {
		payload := worker.SaleCompletedPayload{TransactionID: txnID.String()}
		for _, id := range lowStock {
			payload.LowStockProductIDs = append(payload.LowStockProductIDs, id.String())
		}
		_ = s.dispatcher.EnqueueSaleCompleted(ctx, payload)
	}

	resp := saleToResponse(&txn)
	resp.PointsEarned = pointsEarned
	return resp, nil
}

// resolveSaleLocation returns the configured sale location, falling back to
// the store's default location.
func (s *saleService) resolveSaleLocation(ctx context.Context) (*model.Location, error) {
	if s.cfg.SaleLocationID != "" {
		id, err := uuid.Parse(s.cfg.SaleLocationID)
		if err != nil {
			return nil, fmt.Errorf("invalid SALE_LOCATION_ID: %w", err)
		}
		return s.locations.FindByID(ctx, id)
	}
	return s.locations.FindDefault(ctx)
}

func (s *saleService) FindByID(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	txn, err := s.txns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return saleToResponse(txn), nil
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	txns, total, err := s.txns.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(txns))
	for i := range txns {
		items = append(items, *saleToResponse(&txns[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func saleToResponse(t *model.Transaction) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:  item.ProductID.String(),
			Product:    item.ProductName,
			SKU:        item.ProductSKU,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TaxRatePct: item.TaxRatePct,
			TaxAmount:  item.TaxAmount,
			LineTotal:  item.LineTotal,
		})
	}
	var customerID *string
	if t.CustomerID != nil {
		id := t.CustomerID.String()
		customerID = &id
	}
	return &dto.SaleResponse{
		ID:              t.ID.String(),
		Number:          t.Number,
		Items:           items,
		Subtotal:        t.Subtotal,
		TaxTotal:        t.TaxTotal,
		DiscountTotal:   t.DiscountTotal,
		PointsRedeemed:  t.PointsRedeemed,
		RedemptionValue: t.RedemptionValue,
		Total:           t.Total,
		PaymentMethod:   t.PaymentMethod,
		AmountPaid:      t.AmountPaid,
		ChangeDue:       t.ChangeDue,
		CustomerID:      customerID,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
