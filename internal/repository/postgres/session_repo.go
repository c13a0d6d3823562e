package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revenueguard/analyzer/internal/domain"
)

// SessionRepository implements domain.SessionRepository using PostgreSQL.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Create inserts a new session in the `generating` status.
func (r *SessionRepository) Create(s *domain.Session) error {
	ctx := context.Background()

	metadata, err := json.Marshal(s.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	filesData, err := json.Marshal(s.FilesData)
	if err != nil {
		return fmt.Errorf("failed to encode files data: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO sessions (id, comment, metadata, status, files_count, files_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, s.ID, s.Comment, metadata, string(s.Status), s.FilesCount, filesData, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// UpsertReport idempotently writes partial or final report progress for a
// session, COALESCEing every nullable column against the existing row so a
// partial update never clobbers previously written fields.
func (r *SessionRepository) UpsertReport(sessionID string, u *domain.ReportUpsert) error {
	ctx := context.Background()

	var filesData, reportStructured []byte
	var err error
	if u.FilesData != nil {
		filesData, err = json.Marshal(u.FilesData)
		if err != nil {
			return fmt.Errorf("failed to encode files data: %w", err)
		}
	}
	if u.ReportStructured != nil {
		reportStructured, err = json.Marshal(u.ReportStructured)
		if err != nil {
			return fmt.Errorf("failed to encode report structured: %w", err)
		}
	}

	var status, openaiStatus *string
	if u.Status != nil {
		v := string(*u.Status)
		status = &v
	}
	if u.OpenAIStatus != nil {
		v := string(*u.OpenAIStatus)
		openaiStatus = &v
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO sessions (id, status, openai_status, files_count, files_data, report_text, report_structured, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status            = COALESCE(EXCLUDED.status, sessions.status),
			openai_status     = COALESCE(EXCLUDED.openai_status, sessions.openai_status),
			files_count       = COALESCE(EXCLUDED.files_count, sessions.files_count),
			files_data        = COALESCE(EXCLUDED.files_data, sessions.files_data),
			report_text       = COALESCE(EXCLUDED.report_text, sessions.report_text),
			report_structured = COALESCE(EXCLUDED.report_structured, sessions.report_structured),
			completed_at      = COALESCE(EXCLUDED.completed_at, sessions.completed_at)
	`, sessionID, status, openaiStatus, u.FilesCount, nullableJSON(filesData), u.ReportText, nullableJSON(reportStructured), u.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}
	return nil
}

// GetBySession returns the full session row, or domain.ErrSessionNotFound.
func (r *SessionRepository) GetBySession(sessionID string) (*domain.Session, error) {
	ctx := context.Background()

	row := r.pool.QueryRow(ctx, `
		SELECT id, comment, metadata, status, openai_status, files_count, files_data,
		       report_text, report_structured, created_at, completed_at
		FROM sessions WHERE id = $1
	`, sessionID)

	s, err := scanSession(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// ListRecent returns the limit most recent sessions, newest first.
func (r *SessionRepository) ListRecent(limit int) ([]*domain.Session, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, comment, metadata, status, openai_status, files_count, files_data,
		       report_text, report_structured, created_at, completed_at
		FROM sessions ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// CascadeDelete removes a session and (via FK ON DELETE CASCADE) its files
// and messages. Returns domain.ErrSessionNotFound if absent.
func (r *SessionRepository) CascadeDelete(sessionID string) error {
	ctx := context.Background()

	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var metadata, filesData, reportStructured []byte
	var status string
	var openaiStatus, reportText *string
	var completedAt *time.Time

	if err := row.Scan(
		&s.ID, &s.Comment, &metadata, &status, &openaiStatus, &s.FilesCount, &filesData,
		&reportText, &reportStructured, &s.CreatedAt, &completedAt,
	); err != nil {
		return nil, err
	}
	s.Status = domain.SessionStatus(status)

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &s.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
	}
	if len(filesData) > 0 {
		if err := json.Unmarshal(filesData, &s.FilesData); err != nil {
			return nil, fmt.Errorf("failed to decode files data: %w", err)
		}
	}
	if len(reportStructured) > 0 {
		var rep domain.Report
		if err := json.Unmarshal(reportStructured, &rep); err != nil {
			return nil, fmt.Errorf("failed to decode report structured: %w", err)
		}
		s.ReportStructured = &rep
	}
	if openaiStatus != nil {
		s.OpenAIStatus = domain.OpenAIStatus(*openaiStatus)
	}
	if reportText != nil {
		s.ReportText = *reportText
	}
	s.CompletedAt = completedAt

	return &s, nil
}

// nullableJSON turns an empty byte slice into a typed nil so COALESCE sees
// SQL NULL instead of an empty, truthy JSON value.
func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
