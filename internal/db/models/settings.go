package models

import (
	"time"
)

// Settings is a singleton row (id is always 1). Every role may read it;
// only admin may write it.
type Settings struct {
	ID                 uint      `gorm:"primaryKey" json:"-"`
	CompanyName        string    `json:"companyName"`
	NotificationEmail  string    `json:"notificationEmail"`
	EmailNotifications bool      `json:"emailNotifications"`
	DefaultLanguage    string    `json:"defaultLanguage"`
	AutoApproveDays    int       `json:"autoApproveDays"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func DefaultSettings() *Settings {
	return &Settings{
		ID:                 1,
		CompanyName:        "ReqGen",
		EmailNotifications: true,
		DefaultLanguage:    "hi",
		AutoApproveDays:    0,
	}
}
