package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/revenueguard/analyzer/internal/domain"
	"github.com/revenueguard/analyzer/internal/orchestrator"
	"github.com/revenueguard/analyzer/internal/testutil"
)

func newReportsHandler() (*ReportsHandler, *testutil.MockSessionRepository, *testutil.MockMessageRepository) {
	sessions := testutil.NewMockSessionRepository()
	files := testutil.NewMockFileRepository()
	messages := testutil.NewMockMessageRepository()
	o := orchestrator.New(sessions, files, messages, nil, &testutil.MockPDFExtractor{}, nil, 30*time.Second)
	return NewReportsHandler(o, sessions, messages), sessions, messages
}

func TestGetReport_NotFound(t *testing.T) {
	e := echo.New()
	h, _, _ := newReportsHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/reports/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues("missing")

	if err := h.GetReport(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeReportNotFound {
		t.Errorf("expected %s, got %s", ErrorTypeReportNotFound, problem.Type)
	}
}

func TestGetReport_Found(t *testing.T) {
	e := echo.New()
	h, sessions, _ := newReportsHandler()

	require := sessions.Create(&domain.Session{
		ID:        "s1",
		Status:    domain.SessionStatusCompleted,
		CreatedAt: time.Now(),
	})
	if require != nil {
		t.Fatalf("failed to seed session: %v", require)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports/s1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues("s1")

	if err := h.GetReport(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestListReports_ReconcilesStaleGeneratingSessions(t *testing.T) {
	e := echo.New()
	h, sessions, _ := newReportsHandler()

	if err := sessions.Create(&domain.Session{
		ID:        "stuck",
		Status:    domain.SessionStatusGenerating,
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListReports(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	session, err := sessions.GetBySession("stuck")
	if err != nil {
		t.Fatalf("expected session to still exist, got %v", err)
	}
	if session.Status != domain.SessionStatusFailed {
		t.Errorf("expected reconciliation to mark the orphaned session failed, got %s", session.Status)
	}
}

func TestDeleteReport_RemovesSession(t *testing.T) {
	e := echo.New()
	h, sessions, _ := newReportsHandler()

	if err := sessions.Create(&domain.Session{
		ID:        "to-delete",
		Status:    domain.SessionStatusCompleted,
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/reports/to-delete", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues("to-delete")

	if err := h.DeleteReport(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", rec.Code)
	}

	if _, err := sessions.GetBySession("to-delete"); err != domain.ErrSessionNotFound {
		t.Errorf("expected session to be gone, got err=%v", err)
	}
}

func TestGetMessages_NotFoundForUnknownSession(t *testing.T) {
	e := echo.New()
	h, _, _ := newReportsHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/reports/missing/messages", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("sessionId")
	c.SetParamValues("missing")

	if err := h.GetMessages(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}
