package store

import (
	"context"
	"errors"

	"github.com/prajwal-kadam12/reqgen/internal/db/models"
	"gorm.io/gorm"
)

// GormStore implements every store interface against the postgres database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

type gormDocumentStore struct {
	db *gorm.DB
}

func (s *GormStore) Documents() DocumentStore {
	return &gormDocumentStore{db: s.db}
}

func (s *gormDocumentStore) Create(ctx context.Context, doc *models.Document) error {
	return s.db.WithContext(ctx).Create(doc).Error
}

func (s *gormDocumentStore) Get(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (s *gormDocumentStore) List(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (s *gormDocumentStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Document, error) {
	var doc models.Document
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&doc).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

func (s *gormDocumentStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormSettingsStore struct {
	db *gorm.DB
}

func (s *GormStore) Settings() SettingsStore {
	return &gormSettingsStore{db: s.db}
}

func (s *gormSettingsStore) Get(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := s.db.WithContext(ctx).First(&settings, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *gormSettingsStore) Put(ctx context.Context, settings *models.Settings) error {
	settings.ID = 1
	return s.db.WithContext(ctx).Save(settings).Error
}

type gormNotificationStore struct {
	db *gorm.DB
}

func (s *GormStore) Notifications() NotificationStore {
	return &gormNotificationStore{db: s.db}
}

func (s *gormNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *gormNotificationStore) ListForRole(ctx context.Context, role models.UserRole) ([]models.Notification, error) {
	var all []models.Notification
	err := s.db.WithContext(ctx).
		Where("target_role = ? OR target_role = ?", models.TargetAll, string(role)).
		Order("created_at DESC").
		Find(&all).Error
	if err != nil {
		return nil, err
	}
	visible := make([]models.Notification, 0, len(all))
	for _, n := range all {
		if n.VisibleTo(role) {
			visible = append(visible, n)
		}
	}
	return visible, nil
}

func (s *gormNotificationStore) MarkRead(ctx context.Context, id, email string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if !n.IsReadBy(email) {
		n.ReadBy = append(n.ReadBy, email)
		if err := s.db.WithContext(ctx).Save(&n).Error; err != nil {
			return nil, err
		}
	}
	return &n, nil
}
