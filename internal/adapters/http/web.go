package web

import (
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"academy/internal/adapters/email"
	"academy/internal/adapters/http/middleware"
	"academy/internal/adapters/http/perf"
	"academy/internal/application/favorites"
	"academy/internal/application/projections"
)

//go:embed templates static
var assets embed.FS

// DefaultRateLimitPerSecond is the per-IP request budget.
const DefaultRateLimitPerSecond = 20

// Deps holds everything the HTTP layer needs. All fields except Perf and
// Sender are required.
type Deps struct {
	Catalog   projections.CourseCatalog
	Favorites *favorites.Registry
	Sender    email.Sender // nil disables sharing
	EmailFrom string
	BaseURL   string // Absolute URL used in shared emails
	Perf      *perf.Collector
	Security  SecurityConfig
}

// SecurityConfig configures cookies, CSRF and rate limiting.
type SecurityConfig struct {
	CSRFKey            []byte // 32 bytes
	SecureCookies      bool
	TrustedOrigins     []string
	RateLimitPerSecond int // <= 0 uses DefaultRateLimitPerSecond
	SlowRequestMs      int // <= 0 uses middleware.DefaultSlowRequestMs
}

// Server serves the HTML pages and the JSON API.
type Server struct {
	deps    Deps
	pages   map[string]*template.Template
	limiter *middleware.RateLimiter
	handler http.Handler
}

// ErrMissingDeps is returned by NewServer when a required dependency is nil.
var ErrMissingDeps = errors.New("web: catalog and favorites registry are required")

// NewServer parses templates and wires routes and middleware.
// PRE: deps.Catalog and deps.Favorites are non-nil; len(deps.Security.CSRFKey) == 32
// POST: Returns a ready http.Handler; call Close when done
func NewServer(deps Deps) (*Server, error) {
	if deps.Catalog == nil || deps.Favorites == nil {
		return nil, ErrMissingDeps
	}
	if len(deps.Security.CSRFKey) != 32 {
		return nil, fmt.Errorf("web: CSRF key must be 32 bytes, got %d", len(deps.Security.CSRFKey))
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	rate := deps.Security.RateLimitPerSecond
	if rate <= 0 {
		rate = DefaultRateLimitPerSecond
	}
	s := &Server{
		deps:    deps,
		pages:   pages,
		limiter: middleware.NewRateLimiter(rate, time.Second),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	// Timing is outermost, Visitor innermost.
	s.handler = middleware.Chain(mux,
		middleware.Visitor(deps.Security.SecureCookies),
		middleware.CSRF(middleware.CSRFConfig{
			Key:            deps.Security.CSRFKey,
			Secure:         deps.Security.SecureCookies,
			TrustedOrigins: deps.Security.TrustedOrigins,
		}),
		middleware.SecurityHeaders,
		middleware.RateLimit(s.limiter),
		middleware.Timing(deps.Perf, deps.Security.SlowRequestMs),
	)
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close releases background resources.
func (s *Server) Close() {
	s.limiter.Close()
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	static, _ := fs.Sub(assets, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	s.handle(mux, "GET /{$}", s.handleCourseList)
	s.handle(mux, "GET /course/{id}", s.handleCourseDetail)
	s.handle(mux, "GET /favorites", s.handleFavorites)
	s.handle(mux, "POST /favorites/{id}/toggle", s.handleToggleFavorite)
	s.handle(mux, "POST /favorites/share", s.handleShareFavorites)

	s.handle(mux, "GET /api/courses", s.handleAPICourses)
	s.handle(mux, "GET /api/courses/{id}", s.handleAPICourse)
	s.handle(mux, "GET /api/favorites", s.handleAPIFavorites)
	s.handle(mux, "PUT /api/favorites/{id}", s.handleAPISetFavorite(true))
	s.handle(mux, "DELETE /api/favorites/{id}", s.handleAPISetFavorite(false))
	s.handle(mux, "GET /api/perf", s.handleAPIPerf)
	s.handle(mux, "GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	s.handle(mux, "/", s.handleNotFound)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		middleware.NoteRoute(r)
		h(w, r)
	})
}

// LoadCSRFKey decodes a hex CSRF secret (32 bytes).
// An empty value is an error in production; elsewhere a random key is generated
// and forms will not survive a restart.
// PRE: none
// POST: Returns a 32-byte key or an error
func LoadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("CSRF key must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, errors.New("CSRF key is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate CSRF key: %w", err)
	}
	slog.Warn("config_event", "event", "random_csrf_key", "hint", "set ACADEMY_CSRF_KEY so forms survive restarts")
	return key, nil
}
