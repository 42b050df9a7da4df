package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prajwal-kadam12/reqgen/internal/db/models"
)

// MemoryStore is an in-memory implementation of the store interfaces. It
// backs the test suites and local runs without a database.
type MemoryStore struct {
	mu            sync.RWMutex
	users         map[string]models.User
	documents     map[string]models.Document
	settings      *models.Settings
	notifications map[string]models.Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[string]models.User),
		documents:     make(map[string]models.Document),
		notifications: make(map[string]models.Notification),
	}
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *MemoryStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Email] = *user
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

type memoryDocumentStore struct {
	parent *MemoryStore
}

func (s *MemoryStore) Documents() DocumentStore {
	return &memoryDocumentStore{parent: s}
}

func (m *memoryDocumentStore) Create(_ context.Context, doc *models.Document) error {
	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	m.parent.documents[doc.ID] = *doc
	return nil
}

func (m *memoryDocumentStore) Get(_ context.Context, id string) (*models.Document, error) {
	m.parent.mu.RLock()
	defer m.parent.mu.RUnlock()
	doc, ok := m.parent.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (m *memoryDocumentStore) List(_ context.Context) ([]models.Document, error) {
	m.parent.mu.RLock()
	defer m.parent.mu.RUnlock()
	docs := make([]models.Document, 0, len(m.parent.documents))
	for _, d := range m.parent.documents {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (m *memoryDocumentStore) Update(_ context.Context, id string, fields map[string]any) (*models.Document, error) {
	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()
	doc, ok := m.parent.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	for column, value := range fields {
		switch column {
		case "name":
			doc.Name, _ = value.(string)
		case "type":
			if v, ok := value.(string); ok {
				doc.Type = models.DocumentType(v)
			}
		case "content":
			doc.Content, _ = value.(string)
		case "status":
			if v, ok := value.(string); ok {
				doc.Status = models.DocumentStatus(v)
			}
		case "client_message":
			doc.ClientMessage, _ = value.(string)
		}
	}
	doc.UpdatedAt = time.Now()
	m.parent.documents[id] = doc
	return &doc, nil
}

func (m *memoryDocumentStore) Delete(_ context.Context, id string) error {
	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()
	if _, ok := m.parent.documents[id]; !ok {
		return ErrNotFound
	}
	delete(m.parent.documents, id)
	return nil
}

type memorySettingsStore struct {
	parent *MemoryStore
}

func (s *MemoryStore) Settings() SettingsStore {
	return &memorySettingsStore{parent: s}
}

func (m *memorySettingsStore) Get(_ context.Context) (*models.Settings, error) {
	m.parent.mu.RLock()
	defer m.parent.mu.RUnlock()
	if m.parent.settings == nil {
		return models.DefaultSettings(), nil
	}
	settings := *m.parent.settings
	return &settings, nil
}

func (m *memorySettingsStore) Put(_ context.Context, settings *models.Settings) error {
	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()
	settings.ID = 1
	settings.UpdatedAt = time.Now()
	copied := *settings
	m.parent.settings = &copied
	return nil
}

type memoryNotificationStore struct {
	parent *MemoryStore
}

func (s *MemoryStore) Notifications() NotificationStore {
	return &memoryNotificationStore{parent: s}
}

func (m *memoryNotificationStore) Create(_ context.Context, n *models.Notification) error {
	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()
	n.CreatedAt = time.Now()
	m.parent.notifications[n.ID] = *n
	return nil
}

func (m *memoryNotificationStore) ListForRole(_ context.Context, role models.UserRole) ([]models.Notification, error) {
	m.parent.mu.RLock()
	defer m.parent.mu.RUnlock()
	visible := make([]models.Notification, 0, len(m.parent.notifications))
	for _, n := range m.parent.notifications {
		if n.VisibleTo(role) {
			visible = append(visible, n)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible, nil
}

func (m *memoryNotificationStore) MarkRead(_ context.Context, id, email string) (*models.Notification, error) {
	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()
	n, ok := m.parent.notifications[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !n.IsReadBy(email) {
		n.ReadBy = append(n.ReadBy, email)
		m.parent.notifications[id] = n
	}
	return &n, nil
}
