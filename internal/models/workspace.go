// Package models contains data models for the auth platform.
package models

import "time"

// Workspace is a user-owned container for notebooks and jobs.
type Workspace struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"owner_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for the Workspace model.
func (Workspace) TableName() string {
	return "workspaces"
}

// DataTable is a catalog entry. Public tables are visible to anonymous
// callers; private tables only to their owner and admins.
type DataTable struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Location  string    `json:"location"`
	IsPublic  bool      `json:"is_public" gorm:"not null;default:false"`
	OwnerID   int64     `json:"owner_id" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for the DataTable model.
func (DataTable) TableName() string {
	return "data_tables"
}
