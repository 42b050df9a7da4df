package store

import (
	"context"
	"errors"

	"github.com/prajwal-kadam12/reqgen/internal/db/models"
)

// ErrNotFound is returned when the identified record does not exist. Route
// handlers map it to a 404.
var ErrNotFound = errors.New("record not found")

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Count(ctx context.Context) (int64, error)
}

type DocumentStore interface {
	Create(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context) ([]models.Document, error)
	// Update applies the given column/value pairs to the document and
	// returns the updated record. Callers are responsible for narrowing
	// the field set before handing it over.
	Update(ctx context.Context, id string, fields map[string]any) (*models.Document, error)
	Delete(ctx context.Context, id string) error
}

type SettingsStore interface {
	Get(ctx context.Context) (*models.Settings, error)
	Put(ctx context.Context, settings *models.Settings) error
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForRole(ctx context.Context, role models.UserRole) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, email string) (*models.Notification, error)
}
