package worker

import (
	"context"
	"fmt"
	"strings"

	"github.com/01-Gira/store-app-sub000/internal/infra"
	"github.com/01-Gira/store-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SaleCompletedWorker reacts to committed settlements: it renders the
// receipt PDF and fires the low-stock notification trigger. Everything here
// is best-effort — the settlement has already committed and nothing in this
// worker can affect it.
type SaleCompletedWorker struct {
	txns        repository.TransactionRepository
	products    repository.ProductRepository
	mailer      *infra.Mailer
	storeName   string
	receiptPath string
	alertTo     string
}

func NewSaleCompletedWorker(
	txns repository.TransactionRepository,
	products repository.ProductRepository,
	mailer *infra.Mailer,
	storeName, receiptPath, alertTo string,
) *SaleCompletedWorker {
	return &SaleCompletedWorker{
		txns:        txns,
		products:    products,
		mailer:      mailer,
		storeName:   storeName,
		receiptPath: receiptPath,
		alertTo:     alertTo,
	}
}

func (w *SaleCompletedWorker) Handle(ctx context.Context, payload SaleCompletedPayload) {
	txnID, err := uuid.Parse(payload.TransactionID)
	if err != nil {
		log.Error().Str("transaction_id", payload.TransactionID).Msg("sale_completed: bad transaction id")
		return
	}

	txn, err := w.txns.FindByID(ctx, txnID)
	if err != nil {
		log.Error().Err(err).Str("transaction_id", payload.TransactionID).Msg("sale_completed: transaction not found")
		return
	}

	if path, rerr := infra.GenerateReceiptPDF(txn, w.storeName, w.receiptPath); rerr != nil {
		log.Error().Err(rerr).Int("number", txn.Number).Msg("receipt PDF generation failed")
	} else {
		log.Info().Str("path", path).Int("number", txn.Number).Msg("receipt PDF generated")
	}

	if len(payload.LowStockProductIDs) > 0 {
		w.notifyLowStock(ctx, payload.LowStockProductIDs)
	}
}

func (w *SaleCompletedWorker) notifyLowStock(ctx context.Context, productIDs []string) {
	if w.mailer == nil || w.alertTo == "" {
		log.Warn().Int("products", len(productIDs)).Msg("low stock detected but no alert recipient configured")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "The following products dropped to or below their low-stock threshold:\n\n")
	for _, raw := range productIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		p, err := w.products.FindByID(ctx, id)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  - %s (%s): %d left (threshold %d)\n", p.Name, p.SKU, p.StockCount, p.LowStockThreshold)
	}

	subject := fmt.Sprintf("[%s] Low stock alert", w.storeName)
	if err := w.mailer.Send(w.alertTo, subject, b.String(), ""); err != nil {
		log.Error().Err(err).Msg("low stock alert email failed")
		return
	}
	log.Info().Int("products", len(productIDs)).Msg("low stock alert sent")
}
