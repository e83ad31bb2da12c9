package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/chatrelay/internal/api/handler"
	mw "github.com/edvin/chatrelay/internal/api/middleware"
	"github.com/edvin/chatrelay/internal/billing"
	"github.com/edvin/chatrelay/internal/config"
	"github.com/edvin/chatrelay/internal/core"
	"github.com/edvin/chatrelay/internal/engine"
	"github.com/edvin/chatrelay/internal/ratelimit"
)

const (
	chatLimit  = 10
	chatWindow = time.Minute
	demoLimit  = 5
	demoWindow = time.Hour
	authLimit  = 20
	authWindow = time.Minute
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	pool     *pgxpool.Pool
	limiter  *ratelimit.RedisLimiter
	eng      *engine.Client
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, limiter *ratelimit.RedisLimiter, eng *engine.Client, cfg *config.Config) *Server {
	services := core.NewServices(pool, eng, cfg.JWTSecret, logger)

	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		pool:     pool,
		limiter:  limiter,
		eng:      eng,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// Payment provider webhook
	billingHandler := handler.NewBilling(s.services.Billing, s.cfg.StripeWebhookSecret)
	s.router.Post("/webhook/stripe", billingHandler.Webhook)

	// Hosted checkout, enabled only when the payment provider is configured
	var sessions handler.CheckoutCreator
	if s.cfg.StripeSecretKey != "" {
		sessions = billing.NewCheckoutClient(s.cfg.StripeSecretKey, s.cfg.StripePriceBasic, s.cfg.StripePricePro, s.cfg.FrontendURL)
	}
	checkout := handler.NewCheckout(sessions)
	s.router.With(mw.Session(s.services.Auth)).Post("/create-checkout", checkout.Create)

	// Widget relay
	chat := handler.NewChat(s.services.Relay, s.eng, s.cfg.DemoWebhookURL)
	s.router.With(mw.RateLimit(s.limiter, "chat", chatLimit, chatWindow)).
		Post("/webhook/chat/{tenantID}", chat.Relay)
	s.router.With(mw.RateLimit(s.limiter, "demo", demoLimit, demoWindow)).
		Post("/webhook/demo-chat", chat.Demo)

	// Account registration and login
	auth := handler.NewAuth(s.services.Tenants, s.services.Auth)
	s.router.Route("/auth", func(r chi.Router) {
		r.Use(mw.RateLimit(s.limiter, "auth", authLimit, authWindow))
		r.Post("/register", auth.Register)
		r.Post("/login", auth.Login)
	})

	// Tenant dashboard
	tenant := handler.NewTenant(s.services.Tenants, s.services.ChatLogs, s.eng)
	s.router.Route("/tenant", func(r chi.Router) {
		r.Use(mw.Session(s.services.Auth))
		r.Get("/profile", tenant.Profile)
		r.Patch("/settings", tenant.UpdateSettings)
		r.Post("/regenerate-api-key", tenant.RegenerateAPIKey)
		r.Get("/chat-logs", tenant.ChatLogs)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	if err := s.limiter.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		healthy = false
	} else {
		checks["redis"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
