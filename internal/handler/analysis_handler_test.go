package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/revenueguard/analyzer/internal/adapter/pdfextractor"
	"github.com/revenueguard/analyzer/internal/orchestrator"
	"github.com/revenueguard/analyzer/internal/testutil"
)

// blockingExtractor never returns until released, used to keep a
// submission's background task claimed for the duration of a test.
type blockingExtractor struct {
	release chan struct{}
}

func (b *blockingExtractor) Extract(ctx context.Context, files []pdfextractor.File) ([]pdfextractor.Result, error) {
	<-b.release
	return nil, nil
}

func newMultipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field %s: %v", name, err)
		}
	}
	for name, data := range files {
		fw, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("failed to create form file %s: %v", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("failed to write form file %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/analysis", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestSubmitAnalysis_RejectsMissingFiles(t *testing.T) {
	e := echo.New()
	sessions := testutil.NewMockSessionRepository()
	files := testutil.NewMockFileRepository()
	messages := testutil.NewMockMessageRepository()
	o := orchestrator.New(sessions, files, messages, nil, &testutil.MockPDFExtractor{}, nil, 30*time.Second)
	h := NewAnalysisHandler(o, 50*1024*1024)

	req := newMultipartRequest(t, map[string]string{"comment": "hello"}, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SubmitAnalysis(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if problem.Type != ErrorTypeFilesRequired {
		t.Errorf("expected %s, got %s", ErrorTypeFilesRequired, problem.Type)
	}
}

func TestSubmitAnalysis_RejectsOversizedFile(t *testing.T) {
	e := echo.New()
	sessions := testutil.NewMockSessionRepository()
	files := testutil.NewMockFileRepository()
	messages := testutil.NewMockMessageRepository()
	o := orchestrator.New(sessions, files, messages, nil, &testutil.MockPDFExtractor{}, nil, 30*time.Second)
	h := NewAnalysisHandler(o, 4)

	req := newMultipartRequest(t, nil, map[string][]byte{"statement.pdf": []byte("%PDF-over-limit")})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SubmitAnalysis(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", rec.Code)
	}
}

func TestSubmitAnalysis_AcceptsValidSubmission(t *testing.T) {
	e := echo.New()
	sessions := testutil.NewMockSessionRepository()
	files := testutil.NewMockFileRepository()
	messages := testutil.NewMockMessageRepository()
	o := orchestrator.New(sessions, files, messages, nil, &testutil.MockPDFExtractor{}, nil, 30*time.Second)
	h := NewAnalysisHandler(o, 50*1024*1024)

	req := newMultipartRequest(t, map[string]string{"comment": "Q1 statements"}, map[string][]byte{"statement.pdf": []byte("%PDF")})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.SubmitAnalysis(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected status 202, got %d", rec.Code)
	}

	var resp SubmitAnalysisResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("expected a non-empty session id")
	}
}

func TestSubmitAnalysis_DuplicateSessionInProgress(t *testing.T) {
	e := echo.New()
	sessions := testutil.NewMockSessionRepository()
	files := testutil.NewMockFileRepository()
	messages := testutil.NewMockMessageRepository()
	extractor := &blockingExtractor{release: make(chan struct{})}
	defer close(extractor.release)
	o := orchestrator.New(sessions, files, messages, nil, extractor, nil, 30*time.Second)
	h := NewAnalysisHandler(o, 50*1024*1024)

	req := newMultipartRequest(t, map[string]string{"sessionId": "dup"}, map[string][]byte{"statement.pdf": []byte("%PDF")})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h.SubmitAnalysis(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected first submission to succeed, got %d", rec.Code)
	}

	req2 := newMultipartRequest(t, map[string]string{"sessionId": "dup"}, map[string][]byte{"statement.pdf": []byte("%PDF")})
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	if err := h.SubmitAnalysis(c2); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rec2.Code != http.StatusConflict {
		t.Errorf("expected status 409 on duplicate submission, got %d", rec2.Code)
	}
}
