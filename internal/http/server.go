// Package http serves the web UI: server-rendered pages plus htmx partials
// backed by the REST backend, the AI suggestion service and the local
// session store.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"sync"
	"time"

	"fintrack/internal/ai"
	"fintrack/internal/amqp"
	"fintrack/internal/api"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/session"
	"fintrack/internal/statement"
	appweb "fintrack/web"
)

// Deps carries everything the server needs. Events may be nil when no AMQP
// broker is configured; refresh publishing is then skipped.
type Deps struct {
	Config    *config.Config
	Logger    *log.Logger
	Backend   *api.Client
	Suggester *ai.Suggester
	Sessions  *session.Store
	Events    *amqp.Client
}

type Server struct {
	http.Server

	templates *template.Template
	logger    *log.Logger
	devMode   bool

	backend   *api.Client
	suggester *ai.Suggester
	sessions  *session.Store
	events    *amqp.Client

	rateLimiter *rateLimiter

	// Per-session caches over the backend's read endpoints. Writes
	// invalidate the owning session's entries.
	txnsCache      *cache.LRUCache[[]core.Transaction]
	summaryCache   *cache.LRUCache[core.Summary]
	breakdownCache *cache.LRUCache[core.Breakdown]
	insightsCache  *cache.LRUCache[[]string]
	cacheManager   *cache.Manager

	// In-flight statement imports, one per browser session.
	importMu sync.Mutex
	imports  map[string]*statement.Session

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(deps Deps) (*Server, error) {
	mux := http.NewServeMux()
	cfg := deps.Config

	s := &Server{
		Server: http.Server{
			Addr:    ":" + cfg.Port,
			Handler: mux,
		},
		logger:      deps.Logger.WithComponent(log.ComponentHTTP),
		devMode:     cfg.DevMode,
		backend:     deps.Backend,
		suggester:   deps.Suggester,
		sessions:    deps.Sessions,
		events:      deps.Events,
		rateLimiter: newRateLimiter(),

		txnsCache:      cache.NewLRUCache[[]core.Transaction](200, cfg.CacheTTL),
		summaryCache:   cache.NewLRUCache[core.Summary](200, cfg.CacheTTL),
		breakdownCache: cache.NewLRUCache[core.Breakdown](200, cfg.CacheTTL),
		insightsCache:  cache.NewLRUCache[[]string](100, cfg.CacheTTL),
		cacheManager:   cache.NewManager(),

		imports: make(map[string]*statement.Session),
	}

	for _, c := range []cache.Cleaner{s.txnsCache, s.summaryCache, s.breakdownCache, s.insightsCache} {
		s.cacheManager.Register(c)
	}
	s.cacheManager.StartCleanup(10 * time.Minute)

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Public pages.
	mux.HandleFunc("/login", s.public(s.handleLogin))
	mux.HandleFunc("/signup", s.public(s.handleSignup))

	// Authenticated pages.
	mux.HandleFunc("/", s.protected(s.handleIndex))
	mux.HandleFunc("/dashboard", s.protected(s.handleDashboard))
	mux.HandleFunc("/transactions", s.protected(s.handleTransactions))
	mux.HandleFunc("/transactions/export", s.protected(s.handleExport))
	mux.HandleFunc("/budgets", s.protected(s.handleBudgets))
	mux.HandleFunc("/budgets/remove", s.protected(s.handleBudgetRemove))
	mux.HandleFunc("/savings", s.protected(s.handleSavings))
	mux.HandleFunc("/savings/contribute", s.protected(s.handleContribute))
	mux.HandleFunc("/savings/withdraw", s.protected(s.handleWithdraw))
	mux.HandleFunc("/savings/update", s.protected(s.handleGoalUpdate))
	mux.HandleFunc("/savings/delete", s.protected(s.handleGoalDelete))
	mux.HandleFunc("/import", s.protected(s.handleImport))
	mux.HandleFunc("/import/preview", s.protected(s.handleImportPreview))
	mux.HandleFunc("/import/remove", s.protected(s.handleImportRemove))
	mux.HandleFunc("/import/confirm", s.protected(s.handleImportConfirm))
	mux.HandleFunc("/import/discard", s.protected(s.handleImportDiscard))
	mux.HandleFunc("/logout", s.protected(s.handleLogout))
	mux.HandleFunc("/theme", s.protected(s.handleTheme))

	// htmx partials.
	mux.HandleFunc("/ui/transactions", s.protected(s.handleTransactionsPartial))
	mux.HandleFunc("/ui/dashboard", s.protected(s.handleDashboardPartial))
	mux.HandleFunc("/ui/suggest-category", s.protected(s.handleSuggestCategory))

	return s, nil
}

// Shutdown stops the HTTP server and background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) cacheKey(sessionID string, month, year int) string {
	return sessionID + "-" + strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

func (s *Server) invalidateTxns(sessionID string) {
	s.txnsCache.Delete(sessionID)
}

func (s *Server) invalidatePeriod(sessionID string, month, year int) {
	key := s.cacheKey(sessionID, month, year)
	s.summaryCache.Delete(key)
	s.breakdownCache.Delete(key)
	s.insightsCache.Delete(key)
}

func (s *Server) importSession(sessionID string) *statement.Session {
	s.importMu.Lock()
	defer s.importMu.Unlock()
	if imp, ok := s.imports[sessionID]; ok {
		return imp
	}
	imp := statement.NewSession(s.backend.WithTokens(session.Binding{Store: s.sessions, ID: sessionID}))
	s.imports[sessionID] = imp
	return imp
}
