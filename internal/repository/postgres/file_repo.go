package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revenueguard/analyzer/internal/domain"
)

// FileRepository implements domain.FileRepository using PostgreSQL.
type FileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository creates a new FileRepository.
func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

// Create inserts a new file record bound to its session.
func (r *FileRepository) Create(f *domain.File) error {
	ctx := context.Background()

	err := r.pool.QueryRow(ctx, `
		INSERT INTO session_files (session_id, external_file_id, original_name, size, mime_type, category, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, f.SessionID, f.ExternalFileID, f.OriginalName, f.Size, f.MimeType, string(f.Category), f.UploadedAt).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

// ListBySession returns every file uploaded for a session, in upload order.
func (r *FileRepository) ListBySession(sessionID string) ([]*domain.File, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, external_file_id, original_name, size, mime_type, category, uploaded_at
		FROM session_files WHERE session_id = $1 ORDER BY uploaded_at ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []*domain.File
	for rows.Next() {
		var f domain.File
		var category string
		var externalFileID *string
		if err := rows.Scan(&f.ID, &f.SessionID, &externalFileID, &f.OriginalName, &f.Size, &f.MimeType, &category, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		f.Category = domain.FileCategory(category)
		if externalFileID != nil {
			f.ExternalFileID = *externalFileID
		}
		files = append(files, &f)
	}
	return files, rows.Err()
}
