package domain

import "time"

// SessionStatus is the lifecycle state of a submission.
type SessionStatus string

const (
	SessionStatusGenerating SessionStatus = "generating"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusFailed     SessionStatus = "failed"
)

// OpenAIStatus tracks the LLM classifier call outcome, orthogonal to SessionStatus.
type OpenAIStatus string

const (
	OpenAIStatusSkipped   OpenAIStatus = "skipped"
	OpenAIStatusCompleted OpenAIStatus = "completed"
	OpenAIStatusPartial   OpenAIStatus = "partial"
	OpenAIStatusFailed    OpenAIStatus = "failed"
)

// Session is the durable record of one submission.
type Session struct {
	ID              string            `json:"sessionId"`
	Comment         string            `json:"comment,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Status          SessionStatus     `json:"status"`
	OpenAIStatus    OpenAIStatus      `json:"openaiStatus,omitempty"`
	FilesCount      int               `json:"filesCount"`
	FilesData       []FileSummary     `json:"filesData,omitempty"`
	ReportText      string            `json:"reportText,omitempty"`
	ReportStructured *Report          `json:"reportStructured,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	CompletedAt     *time.Time        `json:"completedAt,omitempty"`
}

// FileSummary is the canonical shape stored in Session.FilesData: ingest,
// the only path that writes it, populates exactly these fields.
type FileSummary struct {
	Name           string `json:"name"`
	Size           int64  `json:"size"`
	MimeType       string `json:"mimeType"`
	Category       string `json:"category"`
	ExternalFileID string `json:"externalFileId,omitempty"`
}

// SessionRepository persists Session rows and their owned Files/Messages.
type SessionRepository interface {
	Create(s *Session) error
	UpsertReport(sessionID string, payload *ReportUpsert) error
	GetBySession(sessionID string) (*Session, error)
	ListRecent(limit int) ([]*Session, error)
	CascadeDelete(sessionID string) error
}

// ReportUpsert carries the fields a pipeline stage may update on a session
// row. Nil fields are left untouched (COALESCE semantics) by the store.
type ReportUpsert struct {
	Status           *SessionStatus
	OpenAIStatus     *OpenAIStatus
	FilesCount       *int
	FilesData        []FileSummary
	ReportText       *string
	ReportStructured *Report
	CompletedAt      *time.Time
}
