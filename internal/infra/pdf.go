package infra

// pdf.go — receipt generation using go-pdf/fpdf. Renders a thermal
// receipt-style ticket for a committed transaction: store header, receipt
// number and timestamp, item table, discount and redemption lines, bold
// total, payment and change.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/01-Gira/store-app-sub000/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a PDF receipt for a committed transaction.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateReceiptPDF(txn *model.Transaction, storeName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%d.pdf", txn.Number)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Receipt #%d", txn.Number), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, txn.CreatedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Item table
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range txn.Items {
		pdf.CellFormat(contentW*0.55, 4, item.ProductName, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.15, 4, fmt.Sprintf("x%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.30, 4, item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	line := func(label, value string) {
		pdf.CellFormat(contentW*0.6, 4, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.4, 4, value, "", 1, "R", false, 0, "")
	}

	line("Subtotal", txn.Subtotal.StringFixed(2))
	line("Tax", txn.TaxTotal.StringFixed(2))
	if txn.DiscountTotal.IsPositive() {
		line("Discount", "-"+txn.DiscountTotal.StringFixed(2))
	}
	if txn.PointsRedeemed > 0 {
		line(fmt.Sprintf("Points (%d)", txn.PointsRedeemed), "-"+txn.RedemptionValue.StringFixed(2))
	}

	pdf.SetFont("Helvetica", "B", 9)
	line("TOTAL", txn.Total.StringFixed(2))

	pdf.SetFont("Helvetica", "", 7)
	line("Paid ("+txn.PaymentMethod+")", txn.AmountPaid.StringFixed(2))
	line("Change", txn.ChangeDue.StringFixed(2))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
