package statement

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
)

type fakeUploader struct {
	previewRows []core.Transaction
	previewErr  error
	confirmErr  error
	confirmed   [][]core.Transaction
}

func (f *fakeUploader) PreviewStatement(ctx context.Context, filename string, file io.Reader) ([]core.Transaction, error) {
	if f.previewErr != nil {
		return nil, f.previewErr
	}
	return f.previewRows, nil
}

func (f *fakeUploader) ConfirmStatement(ctx context.Context, txns []core.Transaction) error {
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = append(f.confirmed, txns)
	return nil
}

func sampleRows() []core.Transaction {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []core.Transaction{
		{Type: core.Expense, Amount: core.MoneyFromInt(40), Category: "Food", Description: "Groceries", Date: date},
		{Type: core.Expense, Amount: core.MoneyFromInt(15), Category: "Transport", Description: "Bus", Date: date},
		{Type: core.Income, Amount: core.MoneyFromInt(500), Category: "Salary", Description: "March pay", Date: date},
	}
}

func TestPreviewRemoveConfirm(t *testing.T) {
	up := &fakeUploader{previewRows: sampleRows()}
	s := NewSession(up)
	ctx := context.Background()

	rows, err := s.Preview(ctx, "statement.csv", strings.NewReader("..."))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("previewed %d rows", len(rows))
	}

	if err := s.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	pending := s.Pending()
	if len(pending) != 2 {
		t.Fatalf("pending = %d", len(pending))
	}
	if pending[1].Description != "March pay" {
		t.Errorf("pending[1] = %+v", pending[1])
	}

	if err := s.Confirm(ctx); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(up.confirmed) != 1 || len(up.confirmed[0]) != 2 {
		t.Fatalf("confirmed = %+v", up.confirmed)
	}
	if len(s.Pending()) != 0 {
		t.Error("session not emptied after confirm")
	}
}

func TestConfirmFailureRetainsRows(t *testing.T) {
	up := &fakeUploader{previewRows: sampleRows(), confirmErr: errors.New("backend down")}
	s := NewSession(up)
	ctx := context.Background()

	if _, err := s.Preview(ctx, "statement.csv", strings.NewReader("...")); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if err := s.Confirm(ctx); err == nil {
		t.Fatal("Confirm should fail")
	}
	if len(s.Pending()) != 3 {
		t.Fatalf("pending after failed confirm = %d, want 3", len(s.Pending()))
	}

	// Retry succeeds once the backend recovers.
	up.confirmErr = nil
	if err := s.Confirm(ctx); err != nil {
		t.Fatalf("retry Confirm: %v", err)
	}
	if len(s.Pending()) != 0 {
		t.Error("session not emptied after retry")
	}
}

func TestConfirmEmpty(t *testing.T) {
	s := NewSession(&fakeUploader{})
	if err := s.Confirm(context.Background()); !errors.Is(err, ErrNothingPending) {
		t.Errorf("err = %v", err)
	}
}

func TestRemoveOutOfRange(t *testing.T) {
	up := &fakeUploader{previewRows: sampleRows()}
	s := NewSession(up)
	if _, err := s.Preview(context.Background(), "x.csv", strings.NewReader("")); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if err := s.Remove(3); err == nil {
		t.Error("index 3 accepted")
	}
	if err := s.Remove(-1); err == nil {
		t.Error("index -1 accepted")
	}
}

func TestPreviewFailureKeepsPrevious(t *testing.T) {
	up := &fakeUploader{previewRows: sampleRows()}
	s := NewSession(up)
	ctx := context.Background()

	if _, err := s.Preview(ctx, "a.csv", strings.NewReader("")); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	up.previewErr = errors.New("parse failed")
	if _, err := s.Preview(ctx, "b.csv", strings.NewReader("")); err == nil {
		t.Fatal("Preview should fail")
	}
	if len(s.Pending()) != 3 {
		t.Errorf("pending = %d, want previous rows retained", len(s.Pending()))
	}
}

func TestDiscard(t *testing.T) {
	up := &fakeUploader{previewRows: sampleRows()}
	s := NewSession(up)
	if _, err := s.Preview(context.Background(), "x.csv", strings.NewReader("")); err != nil {
		t.Fatalf("Preview: %v", err)
	}
	s.Discard()
	if len(s.Pending()) != 0 {
		t.Error("rows remain after discard")
	}
}
