package service

import (
	"context"

	"github.com/01-Gira/store-app-sub000/internal/config"
	"github.com/01-Gira/store-app-sub000/internal/model"
	"github.com/01-Gira/store-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RedemptionPlan is the staged outcome of the redemption half of a
// settlement, computed under the customer row lock before anything is
// written. Points is 0 when no redemption applies; NetTotal always carries
// the post-redemption payable amount.
type RedemptionPlan struct {
	Points       int             // effective points redeemed
	Value        decimal.Decimal // monetary value of the redemption
	NetTotal     decimal.Decimal // total after discount and redemption
	BalanceAfter int             // customer balance after the redemption
}

// PlanRedemption computes the effective redemption for a request.
//
//	value_cap = floor(total_after_discount / currency_per_point)  (0 when rate <= 0)
//	effective = min(requested, available, value_cap)
//
// An effective amount below the store's minimum redeemable threshold is
// clamped to zero: the redemption is silently not applied rather than
// rejected. That clamp is a business rule, not a failure.
func PlanRedemption(available, requested int, totalAfterDiscount decimal.Decimal, st config.StoreSettings) RedemptionPlan {
	plan := RedemptionPlan{
		Value:        decimal.Zero,
		NetTotal:     totalAfterDiscount,
		BalanceAfter: available,
	}
	if requested <= 0 {
		return plan
	}

	valueCap := 0
	if st.CurrencyPerPoint.IsPositive() {
		valueCap = int(totalAfterDiscount.Div(st.CurrencyPerPoint).Floor().IntPart())
	}

	effective := requested
	if available < effective {
		effective = available
	}
	if valueCap < effective {
		effective = valueCap
	}
	if effective <= 0 || effective < st.MinRedeemablePoints {
		return plan
	}

	value := round2(decimal.NewFromInt(int64(effective)).Mul(st.CurrencyPerPoint))
	net := round2(decimal.Max(totalAfterDiscount.Sub(value), decimal.Zero))

	return RedemptionPlan{
		Points:       effective,
		Value:        value,
		NetTotal:     net,
		BalanceAfter: available - effective,
	}
}

// EarnedPoints converts the net total into earned points under the
// configured rounding mode.
func EarnedPoints(netTotal decimal.Decimal, st config.StoreSettings) int {
	raw := netTotal.Mul(st.PointsPerCurrency)
	var rounded decimal.Decimal
	switch st.RoundingMode {
	case config.RoundUp:
		rounded = raw.Ceil()
	case config.RoundNearest:
		rounded = raw.Round(0)
	default:
		rounded = raw.Floor()
	}
	points := int(rounded.IntPart())
	if points < 0 {
		return 0
	}
	return points
}

// LoyaltyLedger owns every mutation of customer point balances. Entries are
// append-only and chained: each entry's PointsBalance equals the previous
// balance plus its PointsChange, and the customer row is updated to the
// final balance in the same database transaction.
type LoyaltyLedger struct {
	customers repository.CustomerRepository
	entries   repository.LoyaltyRepository
}

func NewLoyaltyLedger(customers repository.CustomerRepository, entries repository.LoyaltyRepository) *LoyaltyLedger {
	return &LoyaltyLedger{customers: customers, entries: entries}
}

// ApplyTx writes the staged redemption entry (if any), then the earn entry
// for the net total (if any points result), in that order, and updates the
// customer's stored balance to the last entry's PointsBalance. When neither
// entry applies, nothing is written and the balance is left untouched.
// Returns the earned points and the final balance.
func (l *LoyaltyLedger) ApplyTx(
	ctx context.Context,
	tx *gorm.DB,
	customer *model.Customer,
	plan RedemptionPlan,
	transactionID uuid.UUID,
	st config.StoreSettings,
) (int, int, error) {
	_ = ctx

	balance := customer.LoyaltyPoints
	wrote := false

	if plan.Points > 0 {
		balance = plan.BalanceAfter
		entry := &model.LoyaltyLedgerEntry{
			CustomerID:    customer.ID,
			TransactionID: &transactionID,
			Type:          model.LedgerRedeem,
			PointsChange:  -plan.Points,
			PointsBalance: balance,
			Amount:        plan.Value,
		}
		if err := l.entries.CreateEntryTx(tx, entry); err != nil {
			return 0, 0, err
		}
		wrote = true
	}

	earned := EarnedPoints(plan.NetTotal, st)
	if earned > 0 {
		balance += earned
		entry := &model.LoyaltyLedgerEntry{
			CustomerID:    customer.ID,
			TransactionID: &transactionID,
			Type:          model.LedgerEarn,
			PointsChange:  earned,
			PointsBalance: balance,
			Amount:        plan.NetTotal,
		}
		if err := l.entries.CreateEntryTx(tx, entry); err != nil {
			return 0, 0, err
		}
		wrote = true
	}

	if wrote {
		if err := l.customers.SetLoyaltyPointsTx(tx, customer.ID, balance); err != nil {
			return 0, 0, err
		}
	}
	return earned, balance, nil
}
