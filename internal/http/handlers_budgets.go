package http

import (
	"net/http"

	"fintrack/internal/amqp"
	"fintrack/internal/budget"
	"fintrack/internal/core"
	"fintrack/internal/pipeline"
)

type budgetsData struct {
	Theme      string
	Month      int
	Year       int
	Total      core.Money
	Lines      []core.BudgetLine
	Categories []string
	HasBudget  bool
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderBudgets(w, r)
	case http.MethodPost:
		s.handleBudgetUpsert(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderBudgets(w http.ResponseWriter, r *http.Request) {
	month, year := currentPeriod(r.URL.Query())
	client := s.client(r)

	doc, err := client.GetBudget(r.Context(), month, year)
	if err != nil {
		s.failure(w, r, err, "load budget")
		return
	}
	breakdown, err := client.Breakdown(r.Context(), month, year)
	if err != nil {
		s.failure(w, r, err, "load breakdown")
		return
	}

	txns, err := s.listTransactions(r)
	if err != nil {
		s.failure(w, r, err, "list transactions")
		return
	}

	data := budgetsData{
		Theme:      s.theme(r),
		Month:      month,
		Year:       year,
		Lines:      budget.JoinLines(doc, breakdown),
		Categories: pipeline.UniqueCategories(txns),
		HasBudget:  doc != nil,
	}
	if doc != nil {
		data.Total = doc.TotalBudget
	}
	s.render(w, r, "budgets.html", data)
}

// handleBudgetUpsert merges one category limit into the period's budget and
// sends the whole document back, since the backend replaces it wholesale.
func (s *Server) handleBudgetUpsert(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
		return
	}
	month, year := currentPeriod(r.Form)

	limit, err := core.ParseAmount(r.Form.Get("limit"))
	if err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Limit must be a positive number.")
		return
	}
	category := sanitizeInput(r.Form.Get("category"))

	client := s.client(r)
	existing, err := client.GetBudget(r.Context(), month, year)
	if err != nil {
		s.failure(w, r, err, "load budget for merge")
		return
	}

	doc, err := budget.MergeLimit(existing, month, year, category, limit)
	if err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Invalid budget: "+err.Error())
		return
	}
	if err := client.UpsertBudget(r.Context(), doc); err != nil {
		s.failure(w, r, err, "upsert budget")
		return
	}

	s.publishRefresh(r, month, year, amqp.ReasonBudgetChanged)
	w.Header().Set("HX-Trigger", `{"budget:changed": {}}`)
	s.renderSuccess(w, "Budget saved.")
}

func (s *Server) handleBudgetRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
		return
	}
	month, year := currentPeriod(r.Form)
	category := sanitizeInput(r.Form.Get("category"))

	client := s.client(r)
	existing, err := client.GetBudget(r.Context(), month, year)
	if err != nil {
		s.failure(w, r, err, "load budget for removal")
		return
	}
	if existing == nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "No budget exists for this period.")
		return
	}

	doc, err := budget.RemoveLimit(existing, month, year, category)
	if err != nil {
		s.renderAlert(w, http.StatusUnprocessableEntity, "Invalid budget: "+err.Error())
		return
	}
	if err := client.UpsertBudget(r.Context(), doc); err != nil {
		s.failure(w, r, err, "upsert budget")
		return
	}

	s.publishRefresh(r, month, year, amqp.ReasonBudgetChanged)
	w.Header().Set("HX-Trigger", `{"budget:changed": {}}`)
	s.renderSuccess(w, "Budget limit removed.")
}
