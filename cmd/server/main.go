package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"idive/internal/auth"
	"idive/internal/config"
	"idive/internal/handler"
	"idive/internal/middleware"
	"idive/internal/presets"
	"idive/internal/repository"
	authSvc "idive/internal/service/auth"
	serviceLLM "idive/internal/service/llm"
	servicePresenter "idive/internal/service/presenter"
	serviceScript "idive/internal/service/script"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logger, closeLog, err := config.NewLogger(cfg, "server")
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger) // Set as default logger

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"storage", cfg.StorageDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Authentication: Supabase JWTs, or a trusted header in dev
	var authMiddleware func(http.Handler) http.Handler
	if cfg.AuthDisabled {
		logger.Warn("AUTH DISABLED: trusting " + middleware.DevUserHeader + " header (dev only)")
		authMiddleware = middleware.DevAuthMiddleware(logger)
	} else {
		jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.SupabaseJWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
		authMiddleware = middleware.AuthMiddleware(jwtVerifier, logger)
	}

	// Repositories (postgres or sqlite, optionally behind redis)
	stores, err := repository.Open(ctx, cfg, cfg.AutoMigrate, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer stores.Close()

	authorizer := authSvc.NewOwnerBasedAuthorizer(stores.Presenters, stores.Scripts)

	// Transform presets
	presetRegistry, err := presets.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load transform presets: %v", err)
	}
	logger.Info("transform presets loaded", "count", len(presetRegistry.List()))

	// Text generation
	generator, providerRegistry, err := serviceLLM.SetupGenerator(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup text generator: %v", err)
	}
	defer providerRegistry.Close()

	// Services
	scriptService := serviceScript.NewService(
		stores.Scripts,
		stores.History,
		stores.Presenters,
		authorizer,
		generator,
		presetRegistry,
		cfg.DefaultLanguage,
		logger,
	)
	presenterService := servicePresenter.NewService(stores.Presenters, authorizer, logger)

	logger.Info("services initialized")

	// Handlers and routes
	mux := handler.NewRouter(
		handler.NewPresenterHandler(presenterService, scriptService, logger),
		handler.NewScriptHandler(scriptService, presetRegistry, logger),
		handler.NewHealthHandler(stores),
	)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = authMiddleware(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.DevUserHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Generation calls run up to GenerationTimeout inside a request
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
