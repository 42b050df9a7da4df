package models

import (
	"time"
)

// TargetAll marks a notification addressed to the admin and analyst
// dashboards. It is the only target emitted by client status transitions.
const TargetAll = "all"

type Notification struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Message      string    `json:"message"`
	TargetRole   string    `gorm:"not null;default:'all'" json:"targetRole"`
	DocumentID   string    `gorm:"index" json:"documentId"`
	DocumentName string    `json:"documentName"`
	CreatorRole  UserRole  `json:"creatorRole"`
	ReadBy       []string  `gorm:"serializer:json" json:"readBy"`
	CreatedAt    time.Time `json:"createdAt"`
}

// VisibleTo reports whether the notification should appear on the dashboard
// of the given role. "all" resolves to admin and analyst.
func (n *Notification) VisibleTo(role UserRole) bool {
	if n.TargetRole == TargetAll {
		return role == RoleAdmin || role == RoleAnalyst
	}
	return n.TargetRole == string(role)
}

// IsReadBy reports whether the given user already marked the notification
// as read.
func (n *Notification) IsReadBy(email string) bool {
	for _, e := range n.ReadBy {
		if e == email {
			return true
		}
	}
	return false
}
