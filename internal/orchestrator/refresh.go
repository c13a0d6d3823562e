package orchestrator

import (
	"fmt"
	"time"

	"github.com/revenueguard/analyzer/internal/domain"
)

// Refresh reconciles a session whose terminal state may not have been
// observed: the teacher's source polls an async LLM response id, but this
// adapter's Anthropic call is synchronous within the background task, so
// the only way a session gets stuck in `generating` is a crash or restart
// that drops the in-process claim without writing a terminal status.
// Refresh is idempotent and cheap for any already-terminal session.
func (o *Orchestrator) Refresh(sessionID string) {
	session, err := o.sessions.GetBySession(sessionID)
	if err != nil {
		return
	}
	if session.Status != domain.SessionStatusGenerating {
		return
	}
	if o.registry.IsRunning(sessionID) {
		return
	}

	status := domain.SessionStatusFailed
	openaiStatus := domain.OpenAIStatusFailed
	reason := fmt.Sprintf("session %s was left in generating status with no active task (process restart or crash)", sessionID)
	completedAt := time.Now().UTC()
	_ = o.sessions.UpsertReport(sessionID, &domain.ReportUpsert{
		Status:       &status,
		OpenAIStatus: &openaiStatus,
		ReportText:   &reason,
		CompletedAt:  &completedAt,
	})
}

// RefreshAll calls Refresh for every session in sessions still in
// `generating` and reloads each of those in place, so the slice reflects
// the reconciled rows; used by listRecent before returning results.
func (o *Orchestrator) RefreshAll(sessions []*domain.Session) {
	for _, s := range sessions {
		if s.Status == domain.SessionStatusGenerating {
			o.Refresh(s.ID)
			if fresh, err := o.sessions.GetBySession(s.ID); err == nil {
				*s = *fresh
			}
		}
	}
}
