package models

import (
	"time"
)

type DocumentStatus string

const (
	StatusDraft        DocumentStatus = "draft"
	StatusPending      DocumentStatus = "pending"
	StatusApproved     DocumentStatus = "approved"
	StatusNeedsChanges DocumentStatus = "needs_changes"
)

// ClientAllowedStatuses are the only status values a client-role update may
// set. Admin and analyst updates are not restricted.
var ClientAllowedStatuses = map[DocumentStatus]bool{
	StatusPending:      true,
	StatusApproved:     true,
	StatusNeedsChanges: true,
}

type DocumentType string

const (
	TypeBRD     DocumentType = "brd"
	TypePO      DocumentType = "po"
	TypeGeneral DocumentType = "general"
)

type Document struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	Type          DocumentType   `gorm:"not null;default:'general'" json:"type"`
	Content       string         `json:"content"`
	Status        DocumentStatus `gorm:"not null;default:'pending'" json:"status"`
	ClientMessage string         `json:"clientMessage"`
	CreatedBy     UserRole       `json:"createdBy"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
