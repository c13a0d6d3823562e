package domain

import "time"

// MessageRole distinguishes user prompts from assistant replies.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is a durable conversational entry within a session.
type Message struct {
	ID        int64       `json:"id"`
	SessionID string      `json:"sessionId"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Order     int         `json:"order"`
	CreatedAt time.Time   `json:"createdAt"`
}

// MessageRepository persists Messages, allocating a dense, unique order per session.
type MessageRepository interface {
	Append(sessionID string, role MessageRole, content string) (*Message, error)
	ListBySession(sessionID string) ([]*Message, error)
}
