package http

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/api"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/pipeline"
	"fintrack/internal/session"
	"fintrack/internal/styles"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money":      func(m core.Money) string { return "$" + m.String() },
		"badge":      styles.BadgeClass,
		"icon":       styles.Icon,
		"chartColor": styles.ChartColor,
		"shortDate":  func(t time.Time) string { return t.Format("02-01-2006") },
		"monthName":  func(m int) string { return time.Month(m).String() },
		"progress": func(g core.SavingsGoal) int {
			return g.Progress()
		},
		"percentOf": func(part, whole core.Money) int {
			if !whole.IsPositive() {
				return 0
			}
			pct := int(part.Div(whole).Mul(core.MoneyFromInt(100)).Float64())
			if pct > 100 {
				pct = 100
			}
			if pct < 0 {
				pct = 0
			}
			return pct
		},
		"seq": func(from, to int) []int {
			if to < from {
				return nil
			}
			out := make([]int, 0, to-from+1)
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
	}
}

// client returns the backend client bound to this request's session token.
func (s *Server) client(r *http.Request) *api.Client {
	sid := sessionID(r.Context())
	return s.backend.WithTokens(session.Binding{Store: s.sessions, ID: sid})
}

func (s *Server) theme(r *http.Request) string {
	sid := sessionID(r.Context())
	theme, err := s.sessions.Theme(r.Context(), sid)
	if err != nil {
		return session.ThemeLight
	}
	return theme
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			"template", name)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// renderAlert writes an inline alert partial, the target of most htmx form
// posts when something goes wrong.
func (s *Server) renderAlert(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="alert alert-error">` + template.HTMLEscapeString(message) + `</div>`))
}

func (s *Server) renderSuccess(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="alert alert-success">` + template.HTMLEscapeString(message) + `</div>`))
}

// renderErrorPage is the catch-all failure screen with reload and home
// actions. Details appear only in dev mode.
func (s *Server) renderErrorPage(w http.ResponseWriter, r *http.Request, err error, stack string) {
	data := struct {
		Theme   string
		Message string
		Detail  string
		Stack   string
		Dev     bool
	}{
		Theme:   s.theme(r),
		Message: "Something went wrong.",
		Dev:     s.devMode,
	}
	if s.devMode && err != nil {
		data.Detail = err.Error()
		data.Stack = stack
	}
	w.WriteHeader(http.StatusInternalServerError)
	if terr := s.templates.ExecuteTemplate(w, "error.html", data); terr != nil {
		_, _ = w.Write([]byte("Something went wrong."))
	}
}

// failure routes a backend error to the right response: expired tokens go
// back to login, backend messages surface inline, and anything else gets a
// generic alert with the detail kept in the logs.
func (s *Server) failure(w http.ResponseWriter, r *http.Request, err error, operation string) {
	s.logger.ErrorContext(r.Context(), "Backend operation failed",
		log.FieldOperation, operation,
		log.FieldError, err)

	if errors.Is(err, api.ErrUnauthorized) {
		s.handleUnauthorized(w, r)
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Message != "" {
		s.renderAlert(w, apiErr.Status, apiErr.Message)
		return
	}
	s.renderAlert(w, http.StatusBadGateway, "Cannot reach the server right now. Please try again.")
}

// listTransactions fetches the session's full history, cached per session.
func (s *Server) listTransactions(r *http.Request) ([]core.Transaction, error) {
	sid := sessionID(r.Context())
	if txns, ok := s.txnsCache.Get(sid); ok {
		out := make([]core.Transaction, len(txns))
		copy(out, txns)
		return out, nil
	}
	txns, err := s.client(r).ListTransactions(r.Context())
	if err != nil {
		return nil, err
	}
	s.txnsCache.Set(sid, txns)
	return txns, nil
}

// query holds everything parsed from the transaction view's query string.
type query struct {
	Filters pipeline.Filters
	Sort    pipeline.Sort
	Page    int
	Size    int
}

func parseQuery(values url.Values) query {
	q := query{
		Filters: pipeline.Filters{
			Search:   strings.TrimSpace(values.Get("search")),
			Type:     valueOr(values, "type", "all"),
			Category: valueOr(values, "category", "all"),
		},
		Sort: pipeline.Sort{
			Key:   pipeline.ByDate,
			Order: pipeline.Desc,
		},
		Page: 1,
		Size: 10,
	}

	if m, err := core.ParseAmount(values.Get("min")); err == nil {
		q.Filters.Min = &m
	}
	if m, err := core.ParseAmount(values.Get("max")); err == nil {
		q.Filters.Max = &m
	}

	switch values.Get("dateMode") {
	case string(pipeline.ByRange):
		q.Filters.DateMode = pipeline.ByRange
		if t, err := time.ParseInLocation("2006-01-02", values.Get("from"), time.Local); err == nil {
			q.Filters.From = &t
		}
		if t, err := time.ParseInLocation("2006-01-02", values.Get("to"), time.Local); err == nil {
			q.Filters.To = &t
		}
	case string(pipeline.ByMonth):
		q.Filters.DateMode = pipeline.ByMonth
		now := time.Now()
		q.Filters.Month = intOr(values, "month", int(now.Month()))
		q.Filters.Year = intOr(values, "year", now.Year())
	}

	switch key := pipeline.SortKey(values.Get("sort")); key {
	case pipeline.ByDate, pipeline.ByDescription, pipeline.ByCategory, pipeline.ByAmount:
		q.Sort.Key = key
	}
	if values.Get("order") == string(pipeline.Asc) {
		q.Sort.Order = pipeline.Asc
	}

	q.Page = intOr(values, "page", 1)
	if size := intOr(values, "size", 10); size >= 5 && size <= 100 {
		q.Size = size
	}
	return q
}

func valueOr(values url.Values, key, fallback string) string {
	if v := strings.TrimSpace(values.Get(key)); v != "" {
		return v
	}
	return fallback
}

func intOr(values url.Values, key string, fallback int) int {
	if v := strings.TrimSpace(values.Get(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// currentPeriod reads the dashboard's month/year selection, defaulting to
// the current month.
func currentPeriod(values url.Values) (int, int) {
	now := time.Now()
	month := intOr(values, "month", int(now.Month()))
	year := intOr(values, "year", now.Year())
	if core.ValidatePeriod(month, year) != nil {
		return int(now.Month()), now.Year()
	}
	return month, year
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// publishRefresh fires an insight refresh event, logging instead of failing
// the request when the broker is unavailable.
func (s *Server) publishRefresh(r *http.Request, month, year int, reason string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRefresh(r.Context(), month, year, reason); err != nil {
		s.logger.WarnContext(r.Context(), "Failed to publish refresh event",
			log.FieldError, err,
			log.FieldMonth, month,
			log.FieldYear, year)
	}
}
