package ai

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/log"
)

// MinQueryLength is the shortest description worth suggesting for.
const MinQueryLength = 4

// Predictor is the slice of Client the suggester needs.
type Predictor interface {
	PredictCategory(ctx context.Context, description string) (string, error)
}

// Suggester debounces description keystrokes and delivers at most one
// in-flight category prediction at a time. A new keystroke cancels the
// pending timer, and responses for superseded inputs are dropped so a slow
// request can never clobber a newer suggestion.
type Suggester struct {
	predictor Predictor
	debounce  time.Duration
	logger    *log.Logger

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
}

// NewSuggester creates a suggester with the given debounce interval.
func NewSuggester(predictor Predictor, debounce time.Duration, logger *log.Logger) *Suggester {
	if debounce <= 0 {
		debounce = 600 * time.Millisecond
	}
	return &Suggester{predictor: predictor, debounce: debounce, logger: logger}
}

// OnInput registers a description keystroke. After the debounce interval
// passes with no further input, the predictor is called and deliver runs
// with the suggestion. deliver is never called for inputs shorter than
// MinQueryLength, for stale generations, or when the predictor fails;
// prediction errors are logged and otherwise silent.
func (s *Suggester) OnInput(ctx context.Context, description string, deliver func(category string)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if len([]rune(description)) < MinQueryLength {
		return
	}

	s.timer = time.AfterFunc(s.debounce, func() {
		s.fire(ctx, gen, description, deliver)
	})
}

// Cancel discards any pending or in-flight suggestion, typically because the
// user picked a category themselves.
func (s *Suggester) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Suggester) fire(ctx context.Context, gen uint64, description string, deliver func(string)) {
	category, err := s.predictor.PredictCategory(ctx, description)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("category prediction failed",
				log.FieldError, err,
				log.FieldGen, gen,
			)
		}
		return
	}
	if category == "" {
		return
	}

	s.mu.Lock()
	stale := gen != s.gen
	s.mu.Unlock()
	if stale {
		return
	}
	deliver(category)
}

// SuggestNow bypasses the debounce and asks for a prediction immediately.
// Used by the HTTP handler, where the browser owns the debounce timing.
func (s *Suggester) SuggestNow(ctx context.Context, description string) (string, bool) {
	if len([]rune(description)) < MinQueryLength {
		return "", false
	}
	category, err := s.predictor.PredictCategory(ctx, description)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("category prediction failed", log.FieldError, err)
		}
		return "", false
	}
	if category == "" {
		return "", false
	}
	return category, true
}
