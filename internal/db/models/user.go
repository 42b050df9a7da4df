package models

import (
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleAnalyst UserRole = "analyst"
	RoleClient  UserRole = "client"
)

// User is a login identity. The table is seeded on startup and is
// read-only afterwards; there is no self-service registration.
type User struct {
	gorm.Model
	Email        string   `gorm:"unique;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"not null;default:'client'" json:"role"`
	Name         string   `json:"name"`
}
