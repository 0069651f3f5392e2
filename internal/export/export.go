// Package export renders transaction lists as downloadable CSV, XLSX and
// PDF files. All three formats share the same column layout so a statement
// looks the same regardless of how it was exported.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"fintrack/internal/core"
)

// ErrNoRows is returned when an export is requested for an empty list.
// Callers surface this instead of producing an empty file.
var ErrNoRows = errors.New("no transactions to export")

var columns = []string{"Date", "Description", "Category", "Type", "Amount"}

const dateLayout = "02-01-2006"

// Filename returns a download filename stamped with today's date, e.g.
// "transactions-2024-03-01.csv".
func Filename(ext string) string {
	return fmt.Sprintf("transactions-%s.%s", time.Now().Format("2006-01-02"), ext)
}

func row(t core.Transaction) []string {
	return []string{
		t.Date.Format(dateLayout),
		t.Description,
		t.Category,
		string(t.Type),
		t.Amount.String(),
	}
}

// CSV writes the transactions as RFC 4180 CSV with a header row.
func CSV(w io.Writer, txns []core.Transaction) error {
	if len(txns) == 0 {
		return ErrNoRows
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range txns {
		if err := cw.Write(row(t)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
