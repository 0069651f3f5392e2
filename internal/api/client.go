// Package api is the HTTP client for the REST backend. Every request except
// authentication carries a bearer token sourced from the session store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
)

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// ErrUnauthorized is returned when the backend rejects the bearer token.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a non-2xx backend response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("backend: status %d", e.Status)
}

// Client talks to the REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a backend client. tokens may be nil for a client that
// only performs authentication calls.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// WithTokens returns a shallow copy of the client bound to a different token
// source. The underlying http.Client is shared, so this is cheap enough to
// call per request.
func (c *Client) WithTokens(tokens TokenSource) *Client {
	clone := *c
	clone.tokens = tokens
	return &clone
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return &Error{Status: resp.StatusCode, Message: payload.Message}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Signup registers a new account and returns its bearer token.
func (c *Client) Signup(ctx context.Context, name, email, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/signup", credentials{Name: name, Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListTransactions fetches the full transaction history.
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	var docs []txnDoc
	if err := c.do(ctx, http.MethodGet, "/transactions", nil, &docs); err != nil {
		return nil, err
	}
	out := make([]core.Transaction, len(docs))
	for i, d := range docs {
		out[i] = d.toCore()
	}
	return out, nil
}

// CreateTransaction submits a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, t core.Transaction) error {
	return c.do(ctx, http.MethodPost, "/transactions", txnToDoc(t), nil)
}

// GetBudget fetches the budget document for a period; nil when none exists.
func (c *Client) GetBudget(ctx context.Context, month, year int) (*core.BudgetDocument, error) {
	var doc *budgetDoc
	path := fmt.Sprintf("/budgets?month=%d&year=%d", month, year)
	if err := c.do(ctx, http.MethodGet, path, nil, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	out := doc.toCore()
	return &out, nil
}

// UpsertBudget submits the full budget document for its period. The backend
// replaces the stored document wholesale.
func (c *Client) UpsertBudget(ctx context.Context, doc core.BudgetDocument) error {
	payload := budgetDoc{
		Month:           doc.Month,
		Year:            doc.Year,
		TotalBudget:     doc.TotalBudget,
		CategoryBudgets: doc.CategoryBudgets,
	}
	return c.do(ctx, http.MethodPost, "/budgets", payload, nil)
}

// Summary fetches the aggregated income/expense/savings for a period.
func (c *Client) Summary(ctx context.Context, month, year int) (core.Summary, error) {
	var out core.Summary
	path := fmt.Sprintf("/analytics/summary?month=%d&year=%d", month, year)
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Breakdown fetches per-category expense totals for a period.
func (c *Client) Breakdown(ctx context.Context, month, year int) (core.Breakdown, error) {
	var rows []core.CategoryTotal
	path := fmt.Sprintf("/analytics/category-breakdown?month=%d&year=%d", month, year)
	if err := c.do(ctx, http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	return breakdownFromWire(rows), nil
}

// MonthlyInsights fetches the generated insight lines for a period.
func (c *Client) MonthlyInsights(ctx context.Context, month, year int) ([]string, error) {
	var resp insightsResponse
	path := fmt.Sprintf("/insights/monthly?month=%d&year=%d", month, year)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Insights, nil
}

// ListGoals fetches every savings goal.
func (c *Client) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	var docs []goalDoc
	if err := c.do(ctx, http.MethodGet, "/savings-goals", nil, &docs); err != nil {
		return nil, err
	}
	out := make([]core.SavingsGoal, len(docs))
	for i, d := range docs {
		out[i] = d.toCore()
	}
	return out, nil
}

// CreateGoal submits a new savings goal.
func (c *Client) CreateGoal(ctx context.Context, g core.SavingsGoal) error {
	doc := goalDoc{Name: g.Name, TargetAmount: g.TargetAmount, TargetDate: g.TargetDate}
	return c.do(ctx, http.MethodPost, "/savings-goals", doc, nil)
}

// UpdateGoal edits name, target amount and target date. CurrentAmount is
// never sent; only contribute/withdraw mutate it.
func (c *Client) UpdateGoal(ctx context.Context, g core.SavingsGoal) error {
	doc := goalDoc{Name: g.Name, TargetAmount: g.TargetAmount, TargetDate: g.TargetDate}
	return c.do(ctx, http.MethodPut, "/savings-goals/"+g.ID, doc, nil)
}

// DeleteGoal removes a goal in any state.
func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/savings-goals/"+id, nil, nil)
}

// Contribute adds funds to a goal.
func (c *Client) Contribute(ctx context.Context, id string, amount core.Money) error {
	return c.do(ctx, http.MethodPost, "/savings-goals/"+id+"/contribute", amountRequest{Amount: amount}, nil)
}

// Withdraw removes funds from a goal.
func (c *Client) Withdraw(ctx context.Context, id string, amount core.Money) error {
	return c.do(ctx, http.MethodPost, "/savings-goals/"+id+"/withdraw", amountRequest{Amount: amount}, nil)
}

// PreviewStatement uploads a CSV statement and returns the proposed
// transactions parsed from it. Nothing is persisted until ConfirmStatement.
func (c *Client) PreviewStatement(ctx context.Context, filename string, file io.Reader) ([]core.Transaction, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy statement file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/statements/preview", &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST /statements/preview: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("POST /statements/preview: %w", err)
	}
	var batch statementBatch
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("decode preview response: %w", err)
	}
	out := make([]core.Transaction, len(batch.Transactions))
	for i, d := range batch.Transactions {
		out[i] = d.toCore()
	}
	return out, nil
}

// ConfirmStatement persists a previously previewed (possibly reduced) batch.
func (c *Client) ConfirmStatement(ctx context.Context, txns []core.Transaction) error {
	batch := statementBatch{Transactions: make([]txnDoc, len(txns))}
	for i, t := range txns {
		batch.Transactions[i] = txnToDoc(t)
	}
	return c.do(ctx, http.MethodPost, "/statements/confirm", batch, nil)
}
