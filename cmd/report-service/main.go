package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attendly/attendly-backend/internal/attendance/events"
	"github.com/attendly/attendly-backend/internal/attendance/handler"
	"github.com/attendly/attendly-backend/internal/attendance/repository"
	"github.com/attendly/attendly-backend/internal/attendance/service"
	"github.com/attendly/attendly-backend/internal/attendance/settings"
	"github.com/attendly/attendly-backend/pkg/config"
	"github.com/attendly/attendly-backend/pkg/database"
	"github.com/attendly/attendly-backend/pkg/httputil"
	"github.com/attendly/attendly-backend/pkg/i18n"
	"github.com/attendly/attendly-backend/pkg/logger"
	"github.com/attendly/attendly-backend/pkg/messaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("report-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("report-service", cfg.Server.Environment).AtLevel(cfg.Server.LogLevel)
	log.Info().Str("driver", cfg.Database.Driver).Msg("starting Report Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ when configured
	var rmq *messaging.RabbitMQ
	publisher := events.NewAttendanceEventPublisher(nil, log)
	if cfg.RabbitMQ.Enabled() {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		publisher, err = events.NewRabbitEventPublisher(rmq, cfg.RabbitMQ.Exchange, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
	} else {
		log.Warn().Msg("rabbitmq url not set, domain events disabled")
	}

	// Load report settings
	store, err := settings.NewStore(cfg.Reports.SettingsPath, publisher, log.WithComponent("settings"))
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Reports.SettingsPath).Msg("failed to load report settings")
	}
	defer store.Close()

	if cfg.Reports.WatchSettings {
		if err := store.Watch(); err != nil {
			log.Error().Err(err).Msg("settings watcher disabled")
		}
	}

	// Initialize repositories
	attendanceRepo := repository.NewAttendanceRepository(db)
	exceptionRepo := repository.NewExceptionRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// Initialize services
	attendanceService := service.NewAttendanceService(attendanceRepo, store, publisher, cfg.Reports, log)
	exceptionService := service.NewExceptionService(exceptionRepo, publisher, cfg.Reports, log)
	employeeService := service.NewEmployeeService(employeeRepo, publisher, cfg.Reports, log)
	dashboardService := service.NewDashboardService(dashboardRepo, cfg.Reports, log)

	// Initialize handlers
	handlers := &handler.Handlers{
		Reports:    handler.NewReportHandler(attendanceService, dashboardService, log),
		Exceptions: handler.NewExceptionHandler(exceptionService, log),
		Employees:  handler.NewEmployeeHandler(employeeService, log),
		Settings:   handler.NewSettingsHandler(store, log),
	}

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(i18n.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":   "healthy",
			"service":  "report-service",
			"database": db.Health(r.Context()),
		}
		if rmq != nil {
			status["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, status)
	})

	// API routes
	handlers.Mount(r)

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

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
