// Package testutil provides in-memory mock repositories for tests that
// exercise the orchestrator and handlers without a database.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/revenueguard/analyzer/internal/adapter/pdfextractor"
	"github.com/revenueguard/analyzer/internal/domain"
)

// MockSessionRepository is an in-memory implementation of domain.SessionRepository.
type MockSessionRepository struct {
	mu       sync.Mutex
	Sessions map[string]*domain.Session
}

// NewMockSessionRepository creates a new MockSessionRepository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{Sessions: make(map[string]*domain.Session)}
}

func (m *MockSessionRepository) Create(s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Sessions[s.ID]; exists {
		return domain.ErrAlreadyExists
	}
	cp := *s
	m.Sessions[s.ID] = &cp
	return nil
}

func (m *MockSessionRepository) UpsertReport(sessionID string, u *domain.ReportUpsert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.Sessions[sessionID]
	if !ok {
		s = &domain.Session{ID: sessionID, CreatedAt: time.Now()}
		m.Sessions[sessionID] = s
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.OpenAIStatus != nil {
		s.OpenAIStatus = *u.OpenAIStatus
	}
	if u.FilesCount != nil {
		s.FilesCount = *u.FilesCount
	}
	if u.FilesData != nil {
		s.FilesData = u.FilesData
	}
	if u.ReportText != nil {
		s.ReportText = *u.ReportText
	}
	if u.ReportStructured != nil {
		s.ReportStructured = u.ReportStructured
	}
	if u.CompletedAt != nil {
		s.CompletedAt = u.CompletedAt
	}
	return nil
}

func (m *MockSessionRepository) GetBySession(sessionID string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sessions[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSessionRepository) ListRecent(limit int) ([]*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*domain.Session, 0, len(m.Sessions))
	for _, s := range m.Sessions {
		cp := *s
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockSessionRepository) CascadeDelete(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Sessions[sessionID]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(m.Sessions, sessionID)
	return nil
}

// MockFileRepository is an in-memory implementation of domain.FileRepository.
type MockFileRepository struct {
	mu      sync.Mutex
	nextID  int64
	ByID    map[int64]*domain.File
	BySession map[string][]*domain.File
}

// NewMockFileRepository creates a new MockFileRepository.
func NewMockFileRepository() *MockFileRepository {
	return &MockFileRepository{
		ByID:      make(map[int64]*domain.File),
		BySession: make(map[string][]*domain.File),
	}
}

func (m *MockFileRepository) Create(f *domain.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	f.ID = m.nextID
	cp := *f
	m.ByID[f.ID] = &cp
	m.BySession[f.SessionID] = append(m.BySession[f.SessionID], &cp)
	return nil
}

func (m *MockFileRepository) ListBySession(sessionID string) ([]*domain.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BySession[sessionID], nil
}

// MockMessageRepository is an in-memory implementation of domain.MessageRepository.
type MockMessageRepository struct {
	mu        sync.Mutex
	nextID    int64
	BySession map[string][]*domain.Message
}

// NewMockMessageRepository creates a new MockMessageRepository.
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{BySession: make(map[string][]*domain.Message)}
}

func (m *MockMessageRepository) Append(sessionID string, role domain.MessageRole, content string) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	msg := &domain.Message{
		ID:        m.nextID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Order:     len(m.BySession[sessionID]) + 1,
		CreatedAt: time.Now(),
	}
	m.BySession[sessionID] = append(m.BySession[sessionID], msg)
	return msg, nil
}

func (m *MockMessageRepository) ListBySession(sessionID string) ([]*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.BySession[sessionID], nil
}

// MockPDFExtractor is a canned implementation of pdfextractor.PDFExtractor.
type MockPDFExtractor struct {
	Results []pdfextractor.Result
	Err     error
}

func (m *MockPDFExtractor) Extract(ctx context.Context, files []pdfextractor.File) ([]pdfextractor.Result, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}
