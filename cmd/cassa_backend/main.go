package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/cash_register_app/internal/adapters/events/kafka"
	"github.com/SscSPs/cash_register_app/internal/adapters/ocr"
	"github.com/SscSPs/cash_register_app/internal/adapters/remote/redis"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/cash_register_app/internal/core/services"
	"github.com/SscSPs/cash_register_app/internal/handlers"
	"github.com/SscSPs/cash_register_app/internal/middleware"
	"github.com/SscSPs/cash_register_app/internal/platform/config"
	"github.com/SscSPs/cash_register_app/internal/platform/metrics"
	"github.com/SscSPs/cash_register_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/cash_register_app/internal/repositories/jsonfile"
	"github.com/SscSPs/cash_register_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title Cassa Backend API
// @version 1.0
// @description Cash register, supplier invoices and cash advances for a small shop.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by /auth/unlock.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	serviceContainer, err := services.NewServiceContainer(cfg, repos, promReg)
	if err != nil {
		logger.Error("Failed to initialize services", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, metrics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.Metrics(metrics.NewHTTPMetrics(promReg)),
		cors.New(corsConfig(cfg)),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, promReg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	// Flush pending remote pushes and commit events
	serviceContainer.Shutdown(shutdownCtx)
	logger.Info("Server stopped")
}

// buildRepositories wires the register store and the optional integrations.
// The returned func releases everything that was opened.
func buildRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	var (
		repos   portsrepo.RepositoryProvider
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return repos, closeAll, err
		}
		closers = append(closers, func() { database.ClosePgxPool(dbPool) })

		logger.Info("Running database migrations...", slog.String("source", cfg.MigrationsPath))
		applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			closeAll()
			return repos, func() {}, err
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	} else {
		fileRepo, err := jsonfile.NewRegisterRepository(cfg.DataDir)
		if err != nil {
			return repos, closeAll, err
		}
		logger.Info("Using JSON document store", slog.String("dir", cfg.DataDir))
		repos.RegisterRepo = fileRepo
		repos.LockState = fileRepo
	}

	if cfg.RedisURL != "" {
		store, err := redis.New(ctx, cfg.RedisURL)
		if err != nil {
			// Remote sync is optional; the register keeps working offline
			logger.Warn("Remote sync disabled", slog.String("error", err.Error()))
		} else {
			repos.Snapshots = store
			closers = append(closers, func() { _ = store.Close() })
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Warn("Commit events disabled", slog.String("error", err.Error()))
		} else {
			// closed by the service container shutdown
			repos.Events = publisher
		}
	}

	switch cfg.OCRProvider {
	case "":
	case "openai":
		scanner, err := ocr.NewOpenAIScanner(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			logger.Warn("Invoice scanning disabled", slog.String("error", err.Error()))
		} else {
			repos.Scanner = scanner
		}
	case "google_vision", "vision":
		scanner, err := ocr.NewVisionScanner(ctx, cfg.GoogleCredentials)
		if err != nil {
			logger.Warn("Invoice scanning disabled", slog.String("error", err.Error()))
		} else {
			repos.Scanner = scanner
			closers = append(closers, func() { _ = scanner.Close() })
		}
	default:
		logger.Warn("Unknown OCR provider, invoice scanning disabled", slog.String("provider", cfg.OCRProvider))
	}

	return repos, closeAll, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	return corsCfg
}
