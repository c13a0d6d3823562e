package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/revenueguard/analyzer/internal/domain"
)

// MessageRepository implements domain.MessageRepository using PostgreSQL.
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Append persists the next message in a session's causal order, allocating
// the order value inside the same transaction so concurrent appends for one
// session (there should be at most one writer, but the guarantee costs
// nothing) never collide.
func (r *MessageRepository) Append(sessionID string, role domain.MessageRole, content string) (*domain.Message, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent appends for the same session before computing the
	// next order value (Postgres disallows FOR UPDATE over an aggregate).
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, sessionID); err != nil {
		return nil, fmt.Errorf("failed to acquire session lock: %w", err)
	}

	var nextOrder int
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(message_order), 0) + 1 FROM session_messages WHERE session_id = $1
	`, sessionID).Scan(&nextOrder); err != nil {
		return nil, fmt.Errorf("failed to allocate message order: %w", err)
	}

	var m domain.Message
	m.SessionID = sessionID
	m.Role = role
	m.Content = content
	m.Order = nextOrder

	if err := tx.QueryRow(ctx, `
		INSERT INTO session_messages (session_id, role, content, message_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, sessionID, string(role), content, nextOrder).Scan(&m.ID, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit message: %w", err)
	}

	return &m, nil
}

// ListBySession returns every message for a session, ordered by message-order.
func (r *MessageRepository) ListBySession(sessionID string) ([]*domain.Message, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, role, content, message_order, created_at
		FROM session_messages WHERE session_id = $1 ORDER BY message_order ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		var role string
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &m.Order, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = domain.MessageRole(role)
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}
