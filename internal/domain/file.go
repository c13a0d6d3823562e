package domain

import "time"

// FileCategory classifies an uploaded artifact by name/mime per §4.1.
type FileCategory string

const (
	FileCategoryStatements         FileCategory = "statements"
	FileCategoryTaxes              FileCategory = "taxes"
	FileCategoryFinancial          FileCategory = "financial"
	FileCategoryConvertedStatement FileCategory = "converted-statement"
	FileCategoryUncategorized      FileCategory = "uncategorized"
)

// File is a single uploaded artifact bound to a session.
type File struct {
	ID             int64        `json:"id"`
	SessionID      string       `json:"sessionId"`
	ExternalFileID string       `json:"externalFileId,omitempty"`
	OriginalName   string       `json:"originalName"`
	Size           int64        `json:"size"`
	MimeType       string       `json:"mimeType"`
	Category       FileCategory `json:"category"`
	UploadedAt     time.Time    `json:"uploadedAt"`
}

// FileRepository persists Files scoped to a session.
type FileRepository interface {
	Create(f *File) error
	ListBySession(sessionID string) ([]*File, error)
}
