// Package orchestrator implements the per-session state machine that drives
// a submission through ingest, classification, aggregation, and finalize,
// exactly as one background task per submission with guaranteed cleanup of
// the dedup claim on every exit path, including panics.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/revenueguard/analyzer/internal/adapter/llmclassifier"
	"github.com/revenueguard/analyzer/internal/adapter/pdfextractor"
	"github.com/revenueguard/analyzer/internal/aggregate"
	"github.com/revenueguard/analyzer/internal/domain"
	"github.com/revenueguard/analyzer/internal/repository/storage"
)

// SubmittedFile is one multipart file handed to Submit, prior to any
// category or storage decision.
type SubmittedFile struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

// SubmissionRequest carries everything needed to begin a new session.
type SubmissionRequest struct {
	SessionID string
	Comment   string
	Metadata  map[string]string
	Files     []SubmittedFile
}

// Orchestrator owns the Ingest -> Classify -> Aggregate -> Finalize pipeline
// for every submitted session.
type Orchestrator struct {
	registry     *Registry
	sessions     domain.SessionRepository
	files        domain.FileRepository
	messages     domain.MessageRepository
	objects      storage.ObjectRepository
	pdfExtractor pdfextractor.PDFExtractor
	llm          *llmclassifier.Classifier
	limiter      *rate.Limiter
	llmTimeout   time.Duration
	logger       zerolog.Logger
}

// New constructs an Orchestrator. objects may be nil (storage disabled);
// llm may be nil (no ambiguous items will ever be resolvable, everything
// falls back to agent-missing).
func New(
	sessions domain.SessionRepository,
	files domain.FileRepository,
	messages domain.MessageRepository,
	objects storage.ObjectRepository,
	extractor pdfextractor.PDFExtractor,
	llm *llmclassifier.Classifier,
	llmTimeout time.Duration,
) *Orchestrator {
	return &Orchestrator{
		registry:     NewRegistry(messages),
		sessions:     sessions,
		files:        files,
		messages:     messages,
		objects:      objects,
		pdfExtractor: extractor,
		llm:          llm,
		limiter:      rate.NewLimiter(rate.Limit(2), 4),
		llmTimeout:   llmTimeout,
		logger:       log.With().Str("component", "orchestrator").Logger(),
	}
}

// Submit claims a session id (generating one if absent), persists the
// initial `generating` row, and launches exactly one background goroutine
// to run the pipeline. Returns domain.ErrSessionInProgress if the id is
// already claimed, domain.ErrFilesRequired if Files is empty.
func (o *Orchestrator) Submit(ctx context.Context, req SubmissionRequest) (string, error) {
	if len(req.Files) == 0 {
		return "", domain.ErrFilesRequired
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if !o.registry.Claim(sessionID) {
		return "", domain.ErrSessionInProgress
	}

	session := &domain.Session{
		ID:         sessionID,
		Comment:    req.Comment,
		Metadata:   req.Metadata,
		Status:     domain.SessionStatusGenerating,
		FilesCount: len(req.Files),
		CreatedAt:  time.Now().UTC(),
	}
	if err := o.sessions.Create(session); err != nil {
		o.registry.Release(sessionID)
		return "", fmt.Errorf("failed to persist session: %w", err)
	}

	go o.run(sessionID, req)

	return sessionID, nil
}

// run executes the full pipeline for one session. It always releases the
// dedup claim on exit, including on panic, and always leaves the session in
// a terminal status.
func (o *Orchestrator) run(sessionID string, req SubmissionRequest) {
	defer o.registry.Release(sessionID)
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().Str("session_id", sessionID).Interface("panic", r).Msg("pipeline panicked")
			o.fail(sessionID, fmt.Sprintf("internal error: %v", r), domain.OpenAIStatusSkipped)
		}
	}()

	ctx := context.Background()

	transactions, err := o.ingest(ctx, sessionID, req)
	if err != nil {
		// The PDF adapter failed before the LLM step was ever reached, so
		// the LLM was never invoked and openai-status must not read failed.
		o.fail(sessionID, err.Error(), domain.OpenAIStatusSkipped)
		return
	}

	transactions, openaiStatus := o.classify(ctx, sessionID, transactions)

	now := time.Now().UTC()
	structured := aggregate.Run(transactions, now)
	text := renderReportText(structured)

	completedAt := now
	status := domain.SessionStatusCompleted
	upsert := &domain.ReportUpsert{
		Status:       &status,
		OpenAIStatus: &openaiStatus,
		ReportText:   &text,
		ReportStructured: &domain.Report{
			SessionID:   sessionID,
			GeneratedAt: now,
			Structured:  structured,
			Text:        text,
		},
		CompletedAt: &completedAt,
	}

	if err := o.sessions.UpsertReport(sessionID, upsert); err != nil {
		o.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to commit final report")
		o.fail(sessionID, "failed to commit final report: "+err.Error(), openaiStatus)
	}
}

// IsRunning reports whether sessionID currently has a background task
// claimed.
func (o *Orchestrator) IsRunning(sessionID string) bool {
	return o.registry.IsRunning(sessionID)
}

// Forget releases any in-process claim held for sessionID. Used when a
// session row is deleted out from under a (hopefully already-finished)
// background task, so a later resubmission under the same id is never
// wrongly rejected as in-progress.
func (o *Orchestrator) Forget(sessionID string) {
	o.registry.Release(sessionID)
}

// fail commits a terminal failed status with the error message as report
// text. openaiStatus lets the caller record whether the LLM adapter was
// ever reached: only a classify-stage failure should report
// domain.OpenAIStatusFailed. Best-effort: a failure here is logged, not
// retried.
func (o *Orchestrator) fail(sessionID, reason string, openaiStatus domain.OpenAIStatus) {
	status := domain.SessionStatusFailed
	completedAt := time.Now().UTC()
	if err := o.sessions.UpsertReport(sessionID, &domain.ReportUpsert{
		Status:       &status,
		OpenAIStatus: &openaiStatus,
		ReportText:   &reason,
		CompletedAt:  &completedAt,
	}); err != nil {
		o.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to commit failed status")
	}
}
