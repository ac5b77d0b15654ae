// Package models contains data models for the auth platform.
package models

import (
	"time"

	"github.com/danielgaio/openbricks/pkg/identity"
)

// DefaultRole is assigned to every account at registration.
const DefaultRole = identity.RoleUser

// User represents a registered account. The password hash is server-side
// only and never serialized.
type User struct {
	ID           int64         `json:"id" gorm:"primaryKey"`
	Email        string        `json:"email" gorm:"uniqueIndex;not null"`
	Name         string        `json:"name"`
	PasswordHash string        `json:"-" gorm:"not null"`
	Role         identity.Role `json:"role" gorm:"not null;default:user"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// Identity returns the identity claims embedded in tokens for this user.
func (u *User) Identity() identity.Identity {
	return identity.Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}
