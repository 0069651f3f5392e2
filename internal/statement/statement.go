// Package statement drives the two-phase CSV import flow: upload a statement
// for preview, prune the proposed rows, then confirm the rest in one batch.
package statement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"fintrack/internal/core"
)

// ErrNothingPending is returned when Confirm runs with no previewed rows.
var ErrNothingPending = errors.New("no previewed transactions to confirm")

// Uploader is the slice of the backend client the import flow needs.
type Uploader interface {
	PreviewStatement(ctx context.Context, filename string, file io.Reader) ([]core.Transaction, error)
	ConfirmStatement(ctx context.Context, txns []core.Transaction) error
}

// Session holds the transactions previewed from one uploaded statement.
// Nothing is persisted until Confirm succeeds; a failed confirm keeps the
// list intact so the user can retry without re-uploading.
type Session struct {
	uploader Uploader

	mu   sync.Mutex
	rows []core.Transaction
}

// NewSession creates an import session over the given uploader.
func NewSession(uploader Uploader) *Session {
	return &Session{uploader: uploader}
}

// Preview uploads a statement and replaces any previously previewed rows
// with the parsed result. On upload failure the previous rows are kept.
func (s *Session) Preview(ctx context.Context, filename string, file io.Reader) ([]core.Transaction, error) {
	rows, err := s.uploader.PreviewStatement(ctx, filename, file)
	if err != nil {
		return nil, fmt.Errorf("preview statement: %w", err)
	}
	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
	return s.Pending(), nil
}

// Pending returns a copy of the previewed rows awaiting confirmation.
func (s *Session) Pending() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.rows))
	copy(out, s.rows)
	return out
}

// Remove drops one previewed row by position.
func (s *Session) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("row %d out of range (%d pending)", index, len(s.rows))
	}
	s.rows = append(s.rows[:index], s.rows[index+1:]...)
	return nil
}

// Confirm persists the remaining rows as one batch. On success the session
// empties; on failure the rows stay pending for a retry.
func (s *Session) Confirm(ctx context.Context) error {
	batch := s.Pending()
	if len(batch) == 0 {
		return ErrNothingPending
	}
	if err := s.uploader.ConfirmStatement(ctx, batch); err != nil {
		return fmt.Errorf("confirm statement: %w", err)
	}
	s.mu.Lock()
	s.rows = nil
	s.mu.Unlock()
	return nil
}

// Discard abandons the previewed rows without persisting anything.
func (s *Session) Discard() {
	s.mu.Lock()
	s.rows = nil
	s.mu.Unlock()
}
