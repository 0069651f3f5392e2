package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"fintrack/internal/core"
)

// PDF writes the transactions as a paginated table. Income amounts render
// green and expenses red, matching the list view in the UI.
func PDF(w io.Writer, txns []core.Transaction) error {
	if len(txns) == 0 {
		return ErrNoRows
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Transaction History", false)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Transaction History", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("02-01-2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{25, 65, 35, 25, 30}
	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(240, 240, 240)
		pdf.SetTextColor(0, 0, 0)
		for i, name := range columns {
			pdf.CellFormat(widths[i], 8, name, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}
	writeHeader()

	pdf.SetFont("Helvetica", "", 9)
	for _, t := range txns {
		if pdf.GetY() > 265 {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(widths[0], 7, t.Date.Format(dateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, t.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, t.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, string(t.Type), "1", 0, "L", false, 0, "")

		amount := t.Amount.String()
		if t.Type == core.Income {
			pdf.SetTextColor(22, 128, 57)
			amount = "+" + amount
		} else {
			pdf.SetTextColor(185, 28, 28)
			amount = "-" + amount
		}
		pdf.CellFormat(widths[4], 7, amount, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
