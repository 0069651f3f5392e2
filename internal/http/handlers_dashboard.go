package http

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/styles"
)

type breakdownRow struct {
	Category string
	Total    core.Money
	Percent  int
	Color    string
}

type dashboardData struct {
	Theme    string
	Month    int
	Year     int
	Summary  core.Summary
	Rows     []breakdownRow
	Insights []string
	HasData  bool
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month, year := currentPeriod(r.URL.Query())
	s.render(w, r, "dashboard.html", struct {
		Theme string
		Month int
		Year  int
	}{Theme: s.theme(r), Month: month, Year: year})
}

// handleDashboardPartial renders the summary cards, category chart and
// insight list for one period. The three backend reads are independent and
// run concurrently; insights failing alone degrades to an empty list since
// they are advisory.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	month, year := currentPeriod(r.URL.Query())
	sid := sessionID(r.Context())
	key := s.cacheKey(sid, month, year)
	client := s.client(r)

	var (
		summary   core.Summary
		breakdown core.Breakdown
		insights  []string
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		if cached, ok := s.summaryCache.Get(key); ok {
			summary = cached
			return nil
		}
		v, err := client.Summary(ctx, month, year)
		if err != nil {
			return err
		}
		s.summaryCache.Set(key, v)
		summary = v
		return nil
	})
	g.Go(func() error {
		if cached, ok := s.breakdownCache.Get(key); ok {
			breakdown = cached
			return nil
		}
		v, err := client.Breakdown(ctx, month, year)
		if err != nil {
			return err
		}
		s.breakdownCache.Set(key, v)
		breakdown = v
		return nil
	})
	g.Go(func() error {
		if cached, ok := s.insightsCache.Get(key); ok {
			insights = cached
			return nil
		}
		v, err := client.MonthlyInsights(ctx, month, year)
		if err != nil {
			s.logger.WarnContext(ctx, "Insights unavailable",
				log.FieldError, err,
				log.FieldMonth, month,
				log.FieldYear, year)
			return nil
		}
		s.insightsCache.Set(key, v)
		insights = v
		return nil
	})

	data := dashboardData{Theme: s.theme(r), Month: month, Year: year}
	if err := g.Wait(); err != nil {
		s.failure(w, r, err, "load dashboard")
		return
	}

	data.Summary = summary
	data.Insights = insights
	data.HasData = len(breakdown) > 0 || !summary.Income.IsZero() || !summary.Expense.IsZero()

	var max core.Money
	for _, row := range breakdown {
		if row.Total.Cmp(max) > 0 {
			max = row.Total
		}
	}
	for i, row := range breakdown {
		percent := 0
		if max.IsPositive() {
			percent = int(row.Total.Div(max).Mul(core.MoneyFromInt(100)).Float64())
			if percent > 0 && percent < 2 {
				percent = 2
			}
			if percent > 100 {
				percent = 100
			}
		}
		data.Rows = append(data.Rows, breakdownRow{
			Category: row.Category,
			Total:    row.Total,
			Percent:  percent,
			Color:    styles.ChartColor(row.Category, i),
		})
	}

	s.render(w, r, "dashboard_partial.html", data)
}
