package infra

// pdf.go — receipt generation using go-pdf/fpdf.
// Produces an A7-size thermal-style receipt for one sale group:
//   - Fair name header
//   - Receipt number and timestamp
//   - One row per book sold (title, quantity, line total)
//   - Bold total
//   - Payment method breakdown
//
// The output file is saved to storagePath/receipt_{n}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"bookpos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateReceiptPDF renders the receipt for a sale group. txs must be the
// transactions of one group, first one carrying the payments. Returns the
// path to the generated file.
func GenerateReceiptPDF(txs []model.Transaction, fairName, storagePath string, receiptNo int) (string, error) {
	if len(txs) == 0 {
		return "", fmt.Errorf("pdf: empty sale group")
	}
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%d.pdf", receiptNo)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper (custom size, "A7" is not in fpdf's named list)
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, fairName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sales Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Receipt #%d", receiptNo), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, txs[0].TransactionDate.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Station %s — %s", txs[0].StationID, txs[0].OperatorName), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52 // title
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // line total

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Book", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	total := decimal.Zero
	for i := range txs {
		tx := &txs[i]
		title := ""
		if tx.Book != nil {
			title = tx.Book.Title
		}
		if len(title) > 22 {
			title = title[:21] + "…"
		}
		pdf.CellFormat(col1, 5, title, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", tx.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+tx.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")
		total = total.Add(tx.TotalAmount)
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	for _, p := range txs[0].Payments {
		label := "Paid (" + p.Method + "):"
		pdf.CellFormat(col1+col2, 4, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "$"+p.Amount.StringFixed(2), "", 1, "R", false, 0, "")
		if p.Change != nil && !p.Change.IsZero() {
			pdf.CellFormat(col1+col2, 4, "Change:", "", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 4, "$"+p.Change.StringFixed(2), "", 1, "R", false, 0, "")
		}
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you for supporting the book fair!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
