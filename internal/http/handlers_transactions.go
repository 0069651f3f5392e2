package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/pipeline"
)

type transactionsData struct {
	Theme      string
	Categories []string
	Query      query
	Page       pipeline.Page
	PageItems  []pipeline.PageItem
	Summary    core.Summary
	Breakdown  core.Breakdown
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderTransactionsView(w, r, "transactions.html")
	case http.MethodPost:
		s.handleCreateTransaction(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTransactionsPartial re-renders the filtered table. The client resets
// the page parameter to 1 whenever a filter changes; a stale page number
// past the end is clamped to the last page anyway.
func (s *Server) handleTransactionsPartial(w http.ResponseWriter, r *http.Request) {
	s.renderTransactionsView(w, r, "txn_table.html")
}

func (s *Server) renderTransactionsView(w http.ResponseWriter, r *http.Request, templateName string) {
	txns, err := s.listTransactions(r)
	if err != nil {
		s.failure(w, r, err, "list transactions")
		return
	}

	q := parseQuery(r.URL.Query())
	filtered := pipeline.Filter(txns, q.Filters)
	sorted := pipeline.SortBy(filtered, q.Sort)
	page := pipeline.Paginate(sorted, q.Page, q.Size)
	summary, breakdown := pipeline.Aggregate(filtered)

	s.render(w, r, templateName, transactionsData{
		Theme:      s.theme(r),
		Categories: pipeline.UniqueCategories(txns),
		Query:      q,
		Page:       page,
		PageItems:  pipeline.PageNumbers(page.Index, page.TotalPages),
		Summary:    summary,
		Breakdown:  breakdown,
	})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
		return
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Amount must be a positive number.")
		return
	}

	date := time.Now()
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		if d, perr := time.ParseInLocation("2006-01-02", v, time.Local); perr == nil {
			date = d
		} else {
			s.renderAlert(w, http.StatusUnprocessableEntity, "Date must be YYYY-MM-DD.")
			return
		}
	}

	txn := core.Transaction{
		Type:        core.TxnType(r.Form.Get("type")),
		Amount:      amount,
		Category:    sanitizeInput(r.Form.Get("category")),
		Description: sanitizeInput(r.Form.Get("description")),
		Date:        date,
		IsRecurring: r.Form.Get("isRecurring") == "on",
		Frequency:   core.Frequency(r.Form.Get("frequency")),
	}
	if err := txn.Validate(); err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Invalid transaction: "+err.Error())
		return
	}

	if err := s.client(r).CreateTransaction(r.Context(), txn); err != nil {
		s.failure(w, r, err, "create transaction")
		return
	}

	sid := sessionID(r.Context())
	s.invalidateTxns(sid)
	s.invalidatePeriod(sid, int(txn.Date.Month()), txn.Date.Year())
	s.publishRefresh(r, int(txn.Date.Month()), txn.Date.Year(), amqp.ReasonTransactionCreated)

	w.Header().Set("HX-Trigger", `{"txn:created": {}}`)
	s.renderSuccess(w, fmt.Sprintf("Saved %s transaction of $%s.", txn.Type, txn.Amount))
}

// handleSuggestCategory returns an out-of-band category suggestion for the
// description typed so far. The browser debounces keystrokes; this endpoint
// asks the AI service immediately. Failures return 204 so nothing in the
// form changes.
func (s *Server) handleSuggestCategory(w http.ResponseWriter, r *http.Request) {
	description := strings.TrimSpace(r.URL.Query().Get("description"))

	// If the user already picked a category, never overwrite it.
	if strings.TrimSpace(r.URL.Query().Get("category")) != "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	category, ok := s.suggester.SuggestNow(r.Context(), description)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.render(w, r, "suggest.html", struct{ Category string }{Category: category})
}

// handleExport streams the current filtered view as csv, xlsx or pdf. The
// same query parameters as the table partial select the rows, so the export
// always matches what the user sees.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	txns, err := s.listTransactions(r)
	if err != nil {
		s.failure(w, r, err, "export transactions")
		return
	}

	q := parseQuery(r.URL.Query())
	rows := pipeline.SortBy(pipeline.Filter(txns, q.Filters), q.Sort)

	format := r.URL.Query().Get("format")
	if len(rows) == 0 {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Nothing to export for the current filters.")
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(export.Filename("csv")))
		err = export.CSV(w, rows)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(export.Filename("xlsx")))
		err = export.XLSX(w, rows)
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(export.Filename("pdf")))
		err = export.PDF(w, rows)
	default:
		s.renderAlert(w, http.StatusBadRequest, "Unknown export format.")
		return
	}

	if err != nil {
		// Headers are already written; log and close.
		s.logger.ErrorContext(r.Context(), "Export failed",
			log.FieldError, err,
			"format", format,
			log.FieldTxnCount, len(rows))
	}
}
