package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPredictCategoryRequest(t *testing.T) {
	var gotPath, gotDescription string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body struct {
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotDescription = body.Description
		_ = json.NewEncoder(w).Encode(map[string]string{"category": "food"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	category, err := client.PredictCategory(context.Background(), "weekly groceries")
	if err != nil {
		t.Fatalf("PredictCategory: %v", err)
	}

	if gotPath != "/predict-category" {
		t.Errorf("request path = %q, want /predict-category", gotPath)
	}
	if gotDescription != "weekly groceries" {
		t.Errorf("description = %q", gotDescription)
	}
	if category != "food" {
		t.Errorf("category = %q, want food", category)
	}
}

func TestPredictCategoryErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.PredictCategory(context.Background(), "anything"); err == nil {
		t.Error("expected an error on a 500 response")
	}
}

func TestHealthRequest(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}

	if gotPath != "/health" {
		t.Errorf("request path = %q, want /health", gotPath)
	}
	if gotAuth != "" {
		t.Errorf("health check sent Authorization %q, want none", gotAuth)
	}
}

func TestHealthUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if err := client.Health(context.Background()); err == nil {
		t.Error("expected an error on a 503 response")
	}
}
