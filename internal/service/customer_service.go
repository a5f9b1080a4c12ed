package service

import (
	"context"
	"errors"

	"github.com/01-Gira/store-app-sub000/internal/dto"
	"github.com/01-Gira/store-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CustomerService is the read side of the customer directory: profile with
// the stored point balance, and the loyalty ledger history.
type CustomerService interface {
	FindByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	Ledger(ctx context.Context, id uuid.UUID, filter dto.LedgerFilter) (*dto.LedgerListResponse, error)
}

type customerService struct {
	customers repository.CustomerRepository
	ledger    repository.LoyaltyRepository
}

func NewCustomerService(customers repository.CustomerRepository, ledger repository.LoyaltyRepository) CustomerService {
	return &customerService{customers: customers, ledger: ledger}
}

func (s *customerService) FindByID(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The stored balance must equal the tail of the append-only ledger.
	// A divergence means a write bypassed the ledger; surface it loudly but
	// keep serving the stored balance, which is what settlements read.
	if last, lerr := s.ledger.LastEntry(ctx, id); lerr == nil {
		if last.PointsBalance != c.LoyaltyPoints {
			log.Warn().
				Str("customer_id", id.String()).
				Int("stored_balance", c.LoyaltyPoints).
				Int("ledger_balance", last.PointsBalance).
				Msg("loyalty balance diverges from ledger tail")
		}
	} else if !errors.Is(lerr, gorm.ErrRecordNotFound) {
		return nil, lerr
	}

	return &dto.CustomerResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		LoyaltyPoints: c.LoyaltyPoints,
	}, nil
}

func (s *customerService) Ledger(ctx context.Context, id uuid.UUID, filter dto.LedgerFilter) (*dto.LedgerListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	entries, total, err := s.ledger.ListByCustomer(ctx, id, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		var txnID *string
		if e.TransactionID != nil {
			t := e.TransactionID.String()
			txnID = &t
		}
		items = append(items, dto.LedgerEntryResponse{
			ID:            e.ID.String(),
			Type:          e.Type,
			PointsChange:  e.PointsChange,
			PointsBalance: e.PointsBalance,
			Amount:        e.Amount,
			TransactionID: txnID,
			CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.LedgerListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
