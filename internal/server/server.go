package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/omnia-aid/omnia/internal/apiclient"
	"github.com/omnia-aid/omnia/internal/auth"
	"github.com/omnia-aid/omnia/internal/config"
	"github.com/omnia-aid/omnia/internal/handler"
	"github.com/omnia-aid/omnia/internal/middleware"
	"github.com/omnia-aid/omnia/internal/source"
	"github.com/omnia-aid/omnia/internal/store"
	"github.com/omnia-aid/omnia/internal/web"
	ws "github.com/omnia-aid/omnia/internal/websocket"
)

const tokenIssuer = "omnia"

type Server struct {
	db          *sql.DB
	cfg         *config.Config
	hub         *ws.Hub
	tokens      *auth.Tokens
	api         handler.APIHandlers
	console     *web.ConsoleHandler
	aidTypes    *store.AidTypeStore
	rateLimiter *middleware.RateLimiter
	origins     []string
	logger      *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	hub := ws.NewHub(logger.With("component", "websocket"))
	tokens := auth.NewTokens(cfg.JWTSecret, tokenIssuer, cfg.JWTTTL)

	familyStore := store.NewFamilyStore(db)
	userStore := store.NewUserStore(db)
	aidTypeStore := store.NewAidTypeStore(db)
	visitStore := store.NewVisitStore(db)

	src, fallback, err := dataSources(cfg, tokens)
	if err != nil {
		return nil, err
	}
	logger.Info("console data source", "source", src.Name, "fallback", fallback != nil)

	consoleH, err := web.NewConsoleHandler(web.Options{
		Source:        src,
		Fallback:      fallback,
		Tokens:        tokens,
		RedirectDelay: cfg.RedirectDelay,
		Logger:        logger.With("component", "console"),
	})
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}

	return &Server{
		db:     db,
		cfg:    cfg,
		hub:    hub,
		tokens: tokens,
		api: handler.APIHandlers{
			Families:  handler.NewFamilyHandler(familyStore, aidTypeStore, hub, logger.With("component", "family")),
			Users:     handler.NewUserHandler(userStore, hub, logger.With("component", "user")),
			Auth:      handler.NewAuthHandler(userStore, tokens, hub, logger.With("component", "auth")),
			AidTypes:  handler.NewAidTypeHandler(aidTypeStore, hub, logger.With("component", "aid_type")),
			Visits:    handler.NewVisitHandler(visitStore, familyStore, hub, logger.With("component", "visit")),
			Dashboard: handler.NewDashboardHandler(familyStore, visitStore, logger.With("component", "dashboard")),
		},
		console:     consoleH,
		aidTypes:    aidTypeStore,
		rateLimiter: middleware.NewRateLimiter(),
		origins:     middleware.SplitOrigins(cfg.CORSOrigins),
		logger:      logger,
	}, nil
}

// dataSources picks what the console reads from. The fallback is only set
// for a remote source with FIXTURE_FALLBACK enabled.
func dataSources(cfg *config.Config, tokens *auth.Tokens) (*source.Source, *source.Source, error) {
	fixture := func() *source.Source {
		return source.NewFixture(source.FixtureOptions{Latency: cfg.FixtureLatency, Tokens: tokens})
	}
	if cfg.DataSource == source.NameFixture {
		return fixture(), nil, nil
	}

	client, err := apiclient.New(cfg.APIURL)
	if err != nil {
		return nil, nil, fmt.Errorf("remote source: %w", err)
	}
	var fallback *source.Source
	if cfg.FixtureFallback {
		fallback = fixture()
	}
	return source.NewRemote(client), fallback, nil
}

// Hub returns the websocket hub for shutdown.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// AidTypeStore returns the aid-type store for seeding.
func (s *Server) AidTypeStore() *store.AidTypeStore {
	return s.aidTypes
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	s.console.PublicRoutes(outerMux, s.rateLimited)

	apiMux := http.NewServeMux()
	handler.Routes(apiMux, s.api)
	outerMux.Handle("/api/", middleware.CORS(s.origins)(apiMux))
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, originHosts(s.origins), s.logger.With("component", "websocket")))

	// Console pages, behind the session cookie when login is required
	protectedMux := http.NewServeMux()
	s.console.Routes(protectedMux)

	authMiddleware := middleware.OptionalAuth(s.tokens)
	if s.cfg.RequireLogin {
		authMiddleware = middleware.RequireAuth(s.tokens)
	}
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.Handler) http.Handler {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)(h)
}

// originHosts turns CORS origins into the host patterns the websocket
// upgrader matches.
func originHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
