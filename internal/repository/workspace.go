package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgaio/openbricks/internal/models"
	"gorm.io/gorm"
)

// WorkspaceRepository defines data operations for workspaces.
type WorkspaceRepository interface {
	Create(ctx context.Context, ws *models.Workspace) error
	FindByID(ctx context.Context, id int64) (*models.Workspace, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Workspace, error)
	ListAll(ctx context.Context) ([]models.Workspace, error)
	Delete(ctx context.Context, id int64) error
}

type workspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a Postgres-backed WorkspaceRepository.
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &workspaceRepository{db: db}
}

func (r *workspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	if err := r.db.WithContext(ctx).Create(ws).Error; err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

func (r *workspaceRepository) FindByID(ctx context.Context, id int64) (*models.Workspace, error) {
	var ws models.Workspace
	err := r.db.WithContext(ctx).First(&ws, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find workspace %d: %w", id, err)
	}
	return &ws, nil
}

func (r *workspaceRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Workspace, error) {
	var out []models.Workspace
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces for owner %d: %w", ownerID, err)
	}
	return out, nil
}

func (r *workspaceRepository) ListAll(ctx context.Context) ([]models.Workspace, error) {
	var out []models.Workspace
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return out, nil
}

func (r *workspaceRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Workspace{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete workspace %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TableRepository defines data operations for the data catalog.
type TableRepository interface {
	ListPublic(ctx context.Context) ([]models.DataTable, error)
	ListVisible(ctx context.Context, ownerID int64) ([]models.DataTable, error)
	ListAll(ctx context.Context) ([]models.DataTable, error)
}

type tableRepository struct {
	db *gorm.DB
}

// NewTableRepository creates a Postgres-backed TableRepository.
func NewTableRepository(db *gorm.DB) TableRepository {
	return &tableRepository{db: db}
}

func (r *tableRepository) ListPublic(ctx context.Context) ([]models.DataTable, error) {
	var out []models.DataTable
	err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list public tables: %w", err)
	}
	return out, nil
}

func (r *tableRepository) ListVisible(ctx context.Context, ownerID int64) ([]models.DataTable, error) {
	var out []models.DataTable
	err := r.db.WithContext(ctx).
		Where("is_public = ? OR owner_id = ?", true, ownerID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tables for owner %d: %w", ownerID, err)
	}
	return out, nil
}

func (r *tableRepository) ListAll(ctx context.Context) ([]models.DataTable, error) {
	var out []models.DataTable
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return out, nil
}
