package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edvin/chatrelay/internal/api"
	"github.com/edvin/chatrelay/internal/config"
	"github.com/edvin/chatrelay/internal/core"
	"github.com/edvin/chatrelay/internal/db"
	"github.com/edvin/chatrelay/internal/engine"
	"github.com/edvin/chatrelay/internal/logging"
	"github.com/edvin/chatrelay/internal/ratelimit"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "create-tenant" {
		createTenant(os.Args[2:])
		return
	}

	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	migrateDirFlag := flag.String("migrate-dir", db.DefaultMigrationsDir, "Migration files directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		logger.Info().Str("dir", *migrateDirFlag).Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL, *migrateDirFlag); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	limiter, err := ratelimit.NewRedisLimiter(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer limiter.Close()

	eng := engine.NewClient(cfg.EngineURL, cfg.EngineAPIKey, cfg.EngineTemplateWorkflowID)

	srv := api.NewServer(logger, pool, limiter, eng, cfg)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting chat relay API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

func createTenant(args []string) {
	fs := flag.NewFlagSet("create-tenant", flag.ExitOnError)
	email := fs.String("email", "", "Email for the tenant account (required)")
	password := fs.String("password", "", "Dashboard password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "error: --email and --password are required")
		fmt.Fprintln(os.Stderr, "usage: chatrelay-api create-tenant --email <email> --password <password>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	svc := core.NewTenantService(pool)
	tenant, err := svc.Register(ctx, *email, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to create tenant: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Tenant created successfully.\n\n")
	fmt.Printf("  ID:       %s\n", tenant.ID)
	fmt.Printf("  Email:    %s\n", tenant.Email)
	fmt.Printf("  API key:  %s\n", tenant.APIKey)
}
