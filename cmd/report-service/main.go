package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/shiftpay/shiftpay-backend/internal/report/cache"
	"github.com/shiftpay/shiftpay-backend/internal/report/consumers"
	"github.com/shiftpay/shiftpay-backend/internal/report/events"
	"github.com/shiftpay/shiftpay-backend/internal/report/handler"
	"github.com/shiftpay/shiftpay-backend/internal/report/repository"
	"github.com/shiftpay/shiftpay-backend/internal/report/service"
	"github.com/shiftpay/shiftpay-backend/internal/report/warmer"
	"github.com/shiftpay/shiftpay-backend/pkg/config"
	"github.com/shiftpay/shiftpay-backend/pkg/database"
	"github.com/shiftpay/shiftpay-backend/pkg/httputil"
	"github.com/shiftpay/shiftpay-backend/pkg/logger"
	"github.com/shiftpay/shiftpay-backend/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("report-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("report-service", cfg.Server.Environment)
	log.Info().Msg("starting Report Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewReportEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Export directory for generated workbooks
	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Export.Dir).Msg("failed to create export directory")
	}

	// Initialize repository and cache
	repo := repository.NewReportRepository(db)
	store := cache.NewMemoryStore(cfg.Cache.TTL)

	// Initialize services
	summaries := service.NewSummaryService(repo, store, log)
	exports := service.NewExportService(summaries, store, publisher, cfg.Export.Dir, log)
	search := service.NewSearchService(repo, log)
	monthSearch := service.NewMonthSearchService(repo, log)
	flatExports := service.NewFlatExportService(repo, log)
	shiftSummaries := service.NewShiftSummaryService(repo, log)

	// Initialize handlers
	summaryHandler := handler.NewSummaryHandler(summaries, exports, log)
	searchHandler := handler.NewSearchHandler(search, monthSearch, log)
	exportHandler := handler.NewExportHandler(flatExports, log)
	shiftSummaryHandler := handler.NewShiftSummaryHandler(shiftSummaries, log)
	clientHandler := handler.NewClientHandler(log)

	// Start allowance event consumer
	allowanceConsumer, err := consumers.NewAllowanceEventConsumer(rmq, store, publisher, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create allowance event consumer")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := allowanceConsumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start allowance event consumer")
	}

	// Start cache warmer if enabled
	var warm *warmer.Warmer
	if cfg.Warmer.Enabled {
		warm, err = warmer.New(cfg.Warmer.Spec, summaries, exports, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create cache warmer")
		}
		warm.Start()
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "report-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// Report routes. Paths and body shapes are contractual; existing
	// dashboards call them without a version prefix.
	r.Post("/client-summary", summaryHandler.Summary)
	r.Post("/client-summary/download", summaryHandler.Download)
	r.Post("/employee-details/search", searchHandler.Search)
	r.Get("/employee-details/search-by-month", searchHandler.SearchByMonth)
	r.Get("/excel/download", exportHandler.Download)
	r.Get("/shift-summary", shiftSummaryHandler.Summary)
	r.Get("/clients", clientHandler.List)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop the consumer
	cancel()

	if warm != nil {
		warm.Stop()
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
