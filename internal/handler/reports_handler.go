package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/revenueguard/analyzer/internal/domain"
	"github.com/revenueguard/analyzer/internal/orchestrator"
)

// ReportsHandler handles read and delete access to session reports.
type ReportsHandler struct {
	orchestrator *orchestrator.Orchestrator
	sessions     domain.SessionRepository
	messages     domain.MessageRepository
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(o *orchestrator.Orchestrator, sessions domain.SessionRepository, messages domain.MessageRepository) *ReportsHandler {
	return &ReportsHandler{orchestrator: o, sessions: sessions, messages: messages}
}

const recentReportsLimit = 100

// ListReports handles GET /api/reports
//
// @Summary List recent analysis sessions
// @Description Returns the most recent sessions, reconciling any left stuck in generating by a crashed process
// @Tags reports
// @Produce json
// @Success 200 {array} domain.Session
// @Router /reports [get]
func (h *ReportsHandler) ListReports(c echo.Context) error {
	sessions, err := h.sessions.ListRecent(recentReportsLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list recent sessions")
		return NewInternalError(c, "Failed to list reports")
	}

	h.orchestrator.RefreshAll(sessions)

	return c.JSON(http.StatusOK, sessions)
}

// GetReport handles GET /api/reports/:sessionId
//
// @Summary Get one analysis session's report
// @Tags reports
// @Produce json
// @Param sessionId path string true "Session id"
// @Success 200 {object} domain.Session
// @Failure 404 {object} ProblemDetails
// @Router /reports/{sessionId} [get]
func (h *ReportsHandler) GetReport(c echo.Context) error {
	sessionID := c.Param("sessionId")

	h.orchestrator.Refresh(sessionID)

	session, err := h.sessions.GetBySession(sessionID)
	if err != nil {
		if err == domain.ErrSessionNotFound {
			return NewReportNotFoundError(c, "No report found for session "+sessionID)
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session")
		return NewInternalError(c, "Failed to load report")
	}

	return c.JSON(http.StatusOK, session)
}

// GetMessages handles GET /api/reports/:sessionId/messages
//
// @Summary Get a session's classification conversation history
// @Tags reports
// @Produce json
// @Param sessionId path string true "Session id"
// @Success 200 {array} domain.Message
// @Failure 404 {object} ProblemDetails
// @Router /reports/{sessionId}/messages [get]
func (h *ReportsHandler) GetMessages(c echo.Context) error {
	sessionID := c.Param("sessionId")

	if _, err := h.sessions.GetBySession(sessionID); err != nil {
		if err == domain.ErrSessionNotFound {
			return NewReportNotFoundError(c, "No report found for session "+sessionID)
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session")
		return NewInternalError(c, "Failed to load report")
	}

	msgs, err := h.messages.ListBySession(sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to list messages")
		return NewInternalError(c, "Failed to load messages")
	}

	return c.JSON(http.StatusOK, msgs)
}

// DeleteReport handles DELETE /api/reports/:sessionId
//
// @Summary Delete a session and its owned files/messages
// @Tags reports
// @Produce json
// @Param sessionId path string true "Session id"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /reports/{sessionId} [delete]
func (h *ReportsHandler) DeleteReport(c echo.Context) error {
	sessionID := c.Param("sessionId")

	if err := h.sessions.CascadeDelete(sessionID); err != nil {
		if err == domain.ErrSessionNotFound {
			return NewReportNotFoundError(c, "No report found for session "+sessionID)
		}
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to delete session")
		return NewInternalError(c, "Failed to delete report")
	}

	h.orchestrator.Forget(sessionID)

	return c.NoContent(http.StatusNoContent)
}
