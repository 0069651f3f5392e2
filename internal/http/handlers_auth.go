package http

import (
	"net/http"
	"strings"

	"fintrack/internal/log"
	"fintrack/internal/session"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", struct {
			Theme string
			Error string
		}{Theme: s.theme(r)})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
			return
		}
		email := strings.TrimSpace(r.Form.Get("email"))
		password := r.Form.Get("password")
		if email == "" || password == "" {
			s.renderAlert(w, http.StatusUnprocessableEntity, "Email and password are required.")
			return
		}

		token, err := s.client(r).Login(r.Context(), email, password)
		if err != nil {
			s.loginFailure(w, r, err)
			return
		}
		s.establishSession(w, r, token)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "signup.html", struct {
			Theme string
			Error string
		}{Theme: s.theme(r)})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			s.renderAlert(w, http.StatusBadRequest, "Invalid request format.")
			return
		}
		name := sanitizeInput(r.Form.Get("name"))
		email := strings.TrimSpace(r.Form.Get("email"))
		password := r.Form.Get("password")
		if name == "" || email == "" || password == "" {
			s.renderAlert(w, http.StatusUnprocessableEntity, "Name, email and password are required.")
			return
		}
		if len(password) < 8 {
			s.renderAlert(w, http.StatusUnprocessableEntity, "Password must be at least 8 characters.")
			return
		}

		token, err := s.client(r).Signup(r.Context(), name, email, password)
		if err != nil {
			s.loginFailure(w, r, err)
			return
		}
		s.establishSession(w, r, token)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// loginFailure keeps authentication errors vague for wrong credentials but
// distinguishes an unreachable backend.
func (s *Server) loginFailure(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.WarnContext(r.Context(), "Authentication failed", log.FieldError, err)
	s.renderAlert(w, http.StatusUnauthorized, "Invalid credentials or unavailable service.")
}

func (s *Server) establishSession(w http.ResponseWriter, r *http.Request, token string) {
	sid := sessionID(r.Context())
	if err := s.sessions.SetToken(r.Context(), sid, token); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to store token", log.FieldError, err)
		s.renderAlert(w, http.StatusInternalServerError, "Could not start your session. Please try again.")
		return
	}
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/dashboard")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sid := sessionID(r.Context())
	if err := s.sessions.ClearToken(r.Context(), sid); err != nil {
		s.logger.WarnContext(r.Context(), "Failed to clear token on logout", log.FieldError, err)
	}
	s.invalidateTxns(sid)
	redirectToLogin(w, r)
}

// handleTheme toggles between light and dark and re-renders nothing; the
// client flips the class and the preference persists server-side.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sid := sessionID(r.Context())
	current, err := s.sessions.Theme(r.Context(), sid)
	if err != nil {
		s.renderAlert(w, http.StatusInternalServerError, "Could not update theme.")
		return
	}
	next := session.ThemeDark
	if current == session.ThemeDark {
		next = session.ThemeLight
	}
	if err := s.sessions.SetTheme(r.Context(), sid, next); err != nil {
		s.renderAlert(w, http.StatusInternalServerError, "Could not update theme.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
