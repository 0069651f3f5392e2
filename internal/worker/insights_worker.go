// Package worker re-warms backend analytics after data changes. The web app
// publishes a refresh event whenever transactions land; the worker consumes
// it and calls the analytics endpoints so their results are computed and
// cached before the user next opens the dashboard.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// Analytics is the slice of the backend client the worker needs.
type Analytics interface {
	Summary(ctx context.Context, month, year int) (core.Summary, error)
	Breakdown(ctx context.Context, month, year int) (core.Breakdown, error)
	MonthlyInsights(ctx context.Context, month, year int) ([]string, error)
}

// InsightsWorker handles refresh messages by touching every analytics
// endpoint for the named period.
type InsightsWorker struct {
	analytics Analytics
}

func NewInsightsWorker(analytics Analytics) *InsightsWorker {
	return &InsightsWorker{analytics: analytics}
}

// HandleRefresh processes a single refresh message. The three endpoints are
// independent, so they warm concurrently; any failure requeues the message.
func (w *InsightsWorker) HandleRefresh(ctx context.Context, msg *amqp.RefreshMessage) error {
	if err := core.ValidatePeriod(msg.Month, msg.Year); err != nil {
		// A malformed period will never become valid; log and drop.
		slog.WarnContext(ctx, "Dropping refresh message with invalid period",
			"month", msg.Month,
			"year", msg.Year,
			"error", err)
		return nil
	}

	slog.InfoContext(ctx, "Warming analytics",
		"month", msg.Month,
		"year", msg.Year,
		"reason", msg.Reason)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := w.analytics.Summary(gctx, msg.Month, msg.Year); err != nil {
			return fmt.Errorf("warm summary: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := w.analytics.Breakdown(gctx, msg.Month, msg.Year); err != nil {
			return fmt.Errorf("warm breakdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := w.analytics.MonthlyInsights(gctx, msg.Month, msg.Year); err != nil {
			return fmt.Errorf("warm insights: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Analytics warmed",
		"month", msg.Month,
		"year", msg.Year)
	return nil
}
