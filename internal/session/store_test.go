package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(id) != 64 {
		t.Errorf("id length = %d", len(id))
	}

	// New sessions start logged out with the light theme.
	token, err := store.Token(ctx, id)
	if err != nil || token != "" {
		t.Fatalf("Token = %q,%v", token, err)
	}
	theme, err := store.Theme(ctx, id)
	if err != nil || theme != ThemeLight {
		t.Fatalf("Theme = %q,%v", theme, err)
	}

	if err := store.SetToken(ctx, id, "jwt-abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	token, err = store.Token(ctx, id)
	if err != nil || token != "jwt-abc" {
		t.Fatalf("Token after set = %q,%v", token, err)
	}

	if err := store.SetTheme(ctx, id, ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	// Logout clears the token but keeps the theme.
	if err := store.ClearToken(ctx, id); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	token, _ = store.Token(ctx, id)
	if token != "" {
		t.Errorf("token after logout = %q", token)
	}
	theme, _ = store.Theme(ctx, id)
	if theme != ThemeDark {
		t.Errorf("theme after logout = %q", theme)
	}
}

func TestSessionNotFound(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Token(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Token err = %v", err)
	}
	if err := store.SetToken(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetToken err = %v", err)
	}
	if err := store.SetTheme(ctx, "missing", ThemeDark); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetTheme err = %v", err)
	}
}

func TestSetThemeRejectsUnknown(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	id, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.SetTheme(ctx, id, "solarized"); err == nil {
		t.Fatal("unknown theme accepted")
	}
}

func TestDeleteAndPurge(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Token(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Token after delete = %v", err)
	}

	if _, err := store.Create(ctx); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// A generous cutoff keeps fresh sessions.
	n, err := store.PurgeStale(ctx, time.Hour)
	if err != nil {
		t.Fatalf("PurgeStale: %v", err)
	}
	if n != 0 {
		t.Errorf("purged %d fresh sessions", n)
	}
}

func TestBindingToken(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.SetToken(ctx, id, "jwt-xyz"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	b := Binding{Store: store, ID: id}
	if got := b.Token(); got != "jwt-xyz" {
		t.Errorf("Binding.Token = %q", got)
	}
	if got := (Binding{Store: store, ID: "missing"}).Token(); got != "" {
		t.Errorf("missing binding token = %q", got)
	}
}
