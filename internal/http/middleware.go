package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/session"
)

type contextKey string

const (
	ctxKeyRequestID contextKey = "request_id"
	ctxKeySessionID contextKey = "session_id"
)

const sessionCookie = "fintrack_session"

// public wraps handlers reachable without a login. It still ensures a
// session cookie exists so theme and login state have a row to land in.
func (s *Server) public(next http.HandlerFunc) http.HandlerFunc {
	return s.withSecurityHeaders(s.withSession(next, false))
}

// protected additionally requires a backend token; without one the request
// is redirected to the login page.
func (s *Server) protected(next http.HandlerFunc) http.HandlerFunc {
	return s.withSecurityHeaders(s.withSession(next, true))
}

// withSecurityHeaders adds security headers, rate limiting, panic recovery
// and request logging.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				s.logger.ErrorContext(ctx, "Handler panicked",
					log.FieldRequestID, requestID,
					log.FieldPath, r.URL.Path,
					log.FieldError, fmt.Sprint(rec))
				s.renderErrorPage(rw, r, fmt.Errorf("%v", rec), string(debug.Stack()))
			}

			duration := time.Since(start)
			s.logger.InfoContext(ctx, "Request completed",
				log.FieldRequestID, requestID,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldStatus, rw.statusCode,
				log.FieldDuration, duration.Milliseconds(),
				log.FieldClientIP, clientIP)
		}()

		next(rw, r)
	}
}

// withSession ensures a session cookie exists, creating a row when needed.
// When requireAuth is set and the session has no token, browsers are
// redirected to /login; htmx requests get an HX-Redirect header instead so
// the full page navigates rather than the partial target.
func (s *Server) withSession(next http.HandlerFunc, requireAuth bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid, ok := s.ensureSession(w, r)
		if !ok {
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), ctxKeySessionID, sid))

		if requireAuth {
			token, err := s.sessions.Token(r.Context(), sid)
			if err != nil || token == "" {
				redirectToLogin(w, r)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		if _, err := s.sessions.Token(r.Context(), c.Value); err == nil {
			return c.Value, true
		}
		// Stale cookie referencing a purged row; fall through and reissue.
	}

	sid, err := s.sessions.Create(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to create session", log.FieldError, err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return "", false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((30 * 24 * time.Hour).Seconds()),
	})
	return sid, true
}

func sessionID(ctx context.Context) string {
	if sid, ok := ctx.Value(ctxKeySessionID).(string); ok {
		return sid
	}
	return ""
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return id
	}
	return ""
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleUnauthorized clears the stored token and sends the user back to the
// login page. Called whenever the backend rejects a request's token.
func (s *Server) handleUnauthorized(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r.Context())
	if sid != "" {
		if err := s.sessions.ClearToken(r.Context(), sid); err != nil && !errors.Is(err, session.ErrNotFound) {
			s.logger.WarnContext(r.Context(), "Failed to clear expired token", log.FieldError, err)
		}
	}
	redirectToLogin(w, r)
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
