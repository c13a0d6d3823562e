package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/revenueguard/analyzer/internal/adapter/llmclassifier"
	"github.com/revenueguard/analyzer/internal/adapter/pdfextractor"
	"github.com/revenueguard/analyzer/internal/config"
	"github.com/revenueguard/analyzer/internal/handler"
	"github.com/revenueguard/analyzer/internal/middleware"
	"github.com/revenueguard/analyzer/internal/orchestrator"
	"github.com/revenueguard/analyzer/internal/repository/postgres"
	"github.com/revenueguard/analyzer/internal/repository/storage"
)

func main() {
	startedAt := time.Now()

	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	if err := postgres.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}

	// Initialize the Report Store repositories
	sessionRepo := postgres.NewSessionRepository(pool)
	fileRepo := postgres.NewFileRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)

	// Object storage is optional: submissions still get classified and
	// reported on even when no bucket is configured, they just aren't
	// archived.
	var objectRepo storage.ObjectRepository
	if cfg.Storage.Endpoint != "" || cfg.Storage.AccessKeyID != "" {
		s3Repo, err := storage.NewS3ObjectRepository(context.Background(), cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		objectRepo = s3Repo
	} else {
		log.Warn().Msg("Object storage not configured; uploaded artifacts will not be archived")
	}

	// The PDF extractor transport: a local binary takes precedence over a
	// remote HTTP service when both are configured.
	var extractor pdfextractor.PDFExtractor
	switch {
	case cfg.PDFExtractor.Path != "":
		extractor = pdfextractor.NewSubprocessExtractor(cfg.PDFExtractor.Path)
	case cfg.PDFExtractor.URL != "":
		extractor = pdfextractor.NewHTTPExtractor(cfg.PDFExtractor.URL)
	default:
		log.Fatal().Msg("One of PDF_EXTRACTOR_PATH or PDF_EXTRACTOR_URL must be configured")
	}

	// The LLM classifier adapter is optional: with no API key, ambiguous
	// transactions simply remain agent-missing and the openai-status is
	// reported as failed.
	var llm *llmclassifier.Classifier
	if cfg.LLM.APIKey != "" {
		llm = llmclassifier.New(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLMTimeout(), rate.NewLimiter(rate.Limit(2), 4), cfg.LLM.MaxRetries)
	} else {
		log.Warn().Msg("LLM_API_KEY not set; ambiguous transactions will not be agent-reviewed")
	}

	orch := orchestrator.New(sessionRepo, fileRepo, messageRepo, objectRepo, extractor, llm, cfg.LLMTimeout())

	// Initialize handlers
	analysisHandler := handler.NewAnalysisHandler(orch, cfg.MaxFileSize)
	reportsHandler := handler.NewReportsHandler(orch, sessionRepo, messageRepo)
	healthHandler := handler.NewHealthHandler(startedAt)
	submissionLimiter := middleware.NewRateLimiterWithConfig(20, 5)
	defer submissionLimiter.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Cap non-multipart request bodies; the multipart analysis endpoint
	// enforces its own per-file limit during the form read.
	e.Use(echomiddleware.BodyLimit("10M"))

	// Register API routes
	handler.RegisterRoutes(e, analysisHandler, reportsHandler, healthHandler, submissionLimiter)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
