package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/revenueguard/analyzer/internal/middleware"
)

// RegisterRoutes sets up all API routes.
func RegisterRoutes(e *echo.Echo, analysisHandler *AnalysisHandler, reportsHandler *ReportsHandler, healthHandler *HealthHandler, submissionLimiter *middleware.RateLimiter) {
	e.GET("/health", healthHandler.Health)
	e.GET("/ping", healthHandler.Ping)

	api := e.Group("/api")
	api.Use(noStoreMiddleware)

	api.POST("/analysis", analysisHandler.SubmitAnalysis, middleware.RateLimitMiddleware(submissionLimiter))

	reports := api.Group("/reports")
	reports.GET("", reportsHandler.ListReports)
	reports.GET("/:sessionId", reportsHandler.GetReport)
	reports.GET("/:sessionId/messages", reportsHandler.GetMessages)
	reports.DELETE("/:sessionId", reportsHandler.DeleteReport)

	e.GET("/openapi.json", ServeOpenAPI3Spec)
}

// noStoreMiddleware marks every /api/* response as non-cacheable: reports
// and analysis status change underneath the same URL as the pipeline runs.
func noStoreMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return next(c)
	}
}
