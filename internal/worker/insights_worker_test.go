package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

type fakeAnalytics struct {
	summaryCalls   int32
	breakdownCalls int32
	insightsCalls  int32
	insightsErr    error
}

func (f *fakeAnalytics) Summary(ctx context.Context, month, year int) (core.Summary, error) {
	atomic.AddInt32(&f.summaryCalls, 1)
	return core.Summary{}, nil
}

func (f *fakeAnalytics) Breakdown(ctx context.Context, month, year int) (core.Breakdown, error) {
	atomic.AddInt32(&f.breakdownCalls, 1)
	return nil, nil
}

func (f *fakeAnalytics) MonthlyInsights(ctx context.Context, month, year int) ([]string, error) {
	atomic.AddInt32(&f.insightsCalls, 1)
	return nil, f.insightsErr
}

func TestHandleRefreshWarmsAllEndpoints(t *testing.T) {
	analytics := &fakeAnalytics{}
	w := NewInsightsWorker(analytics)

	msg := amqp.NewRefreshMessage(3, 2024, amqp.ReasonTransactionCreated)
	if err := w.HandleRefresh(context.Background(), msg); err != nil {
		t.Fatalf("HandleRefresh: %v", err)
	}
	if analytics.summaryCalls != 1 || analytics.breakdownCalls != 1 || analytics.insightsCalls != 1 {
		t.Errorf("calls = %d/%d/%d, want 1 each",
			analytics.summaryCalls, analytics.breakdownCalls, analytics.insightsCalls)
	}
}

func TestHandleRefreshPropagatesFailure(t *testing.T) {
	analytics := &fakeAnalytics{insightsErr: errors.New("backend down")}
	w := NewInsightsWorker(analytics)

	msg := amqp.NewRefreshMessage(3, 2024, amqp.ReasonStatementImported)
	if err := w.HandleRefresh(context.Background(), msg); err == nil {
		t.Fatal("expected error so the message requeues")
	}
}

func TestHandleRefreshDropsInvalidPeriod(t *testing.T) {
	analytics := &fakeAnalytics{}
	w := NewInsightsWorker(analytics)

	msg := amqp.NewRefreshMessage(13, 2024, amqp.ReasonTransactionCreated)
	if err := w.HandleRefresh(context.Background(), msg); err != nil {
		t.Fatalf("invalid period should be dropped, not requeued: %v", err)
	}
	if analytics.summaryCalls != 0 {
		t.Error("analytics called for invalid period")
	}
}
