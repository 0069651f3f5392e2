package ai

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakePredictor struct {
	mu      sync.Mutex
	calls   []string
	delay   time.Duration
	result  string
	err     error
	results map[string]string
}

func (f *fakePredictor) PredictCategory(ctx context.Context, description string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, description)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return "", f.err
	}
	if f.results != nil {
		return f.results[description], nil
	}
	return f.result, nil
}

func (f *fakePredictor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type delivery struct {
	mu     sync.Mutex
	values []string
}

func (d *delivery) deliver(category string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values = append(d.values, category)
}

func (d *delivery) got() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.values))
	copy(out, d.values)
	return out
}

func TestSuggesterDebouncesRapidInput(t *testing.T) {
	pred := &fakePredictor{result: "Food"}
	s := NewSuggester(pred, 30*time.Millisecond, nil)
	var d delivery

	// Typing "groc", "groce", "grocer" rapidly should produce one call for
	// the final value only.
	s.OnInput(context.Background(), "groc", d.deliver)
	s.OnInput(context.Background(), "groce", d.deliver)
	s.OnInput(context.Background(), "grocer", d.deliver)

	time.Sleep(100 * time.Millisecond)

	if n := pred.callCount(); n != 1 {
		t.Fatalf("predictor called %d times, want 1", n)
	}
	if got := d.got(); len(got) != 1 || got[0] != "Food" {
		t.Fatalf("delivered = %v", got)
	}
}

func TestSuggesterIgnoresShortInput(t *testing.T) {
	pred := &fakePredictor{result: "Food"}
	s := NewSuggester(pred, 10*time.Millisecond, nil)
	var d delivery

	s.OnInput(context.Background(), "abc", d.deliver)
	time.Sleep(50 * time.Millisecond)

	if n := pred.callCount(); n != 0 {
		t.Fatalf("predictor called %d times for short input", n)
	}
	if got := d.got(); len(got) != 0 {
		t.Fatalf("delivered = %v", got)
	}
}

func TestSuggesterDropsStaleResponse(t *testing.T) {
	pred := &fakePredictor{
		delay:   40 * time.Millisecond,
		results: map[string]string{"first input": "Old", "second input": "New"},
	}
	s := NewSuggester(pred, 10*time.Millisecond, nil)
	var d delivery

	s.OnInput(context.Background(), "first input", d.deliver)
	// Let the first request start, then supersede it while in flight.
	time.Sleep(25 * time.Millisecond)
	s.OnInput(context.Background(), "second input", d.deliver)

	time.Sleep(150 * time.Millisecond)

	got := d.got()
	for _, v := range got {
		if v == "Old" {
			t.Fatalf("stale suggestion delivered: %v", got)
		}
	}
	if len(got) != 1 || got[0] != "New" {
		t.Fatalf("delivered = %v, want [New]", got)
	}
}

func TestSuggesterCancel(t *testing.T) {
	pred := &fakePredictor{result: "Food"}
	s := NewSuggester(pred, 20*time.Millisecond, nil)
	var d delivery

	s.OnInput(context.Background(), "groceries", d.deliver)
	s.Cancel()
	time.Sleep(80 * time.Millisecond)

	if got := d.got(); len(got) != 0 {
		t.Fatalf("delivered after cancel = %v", got)
	}
}

func TestSuggesterSilentOnError(t *testing.T) {
	pred := &fakePredictor{err: errors.New("service down")}
	s := NewSuggester(pred, 10*time.Millisecond, nil)
	var d delivery

	s.OnInput(context.Background(), "groceries", d.deliver)
	time.Sleep(60 * time.Millisecond)

	if got := d.got(); len(got) != 0 {
		t.Fatalf("delivered on error = %v", got)
	}
}

func TestSuggestNow(t *testing.T) {
	pred := &fakePredictor{result: "Transport"}
	s := NewSuggester(pred, time.Second, nil)

	if _, ok := s.SuggestNow(context.Background(), "bus"); ok {
		t.Fatal("short input should not suggest")
	}
	category, ok := s.SuggestNow(context.Background(), "bus ticket")
	if !ok || category != "Transport" {
		t.Fatalf("SuggestNow = %q,%v", category, ok)
	}
}
