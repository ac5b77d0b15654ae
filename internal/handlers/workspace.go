package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielgaio/openbricks/internal/middleware"
	"github.com/danielgaio/openbricks/internal/models"
	"github.com/danielgaio/openbricks/internal/repository"
	"github.com/danielgaio/openbricks/pkg/respond"
	"github.com/gin-gonic/gin"
)

// WorkspaceHandler handles workspace and data catalog requests for the
// platform API service.
type WorkspaceHandler struct {
	workspaces repository.WorkspaceRepository
	tables     repository.TableRepository
}

// NewWorkspaceHandler creates a new WorkspaceHandler instance.
func NewWorkspaceHandler(workspaces repository.WorkspaceRepository, tables repository.TableRepository) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, tables: tables}
}

// CreateWorkspaceRequest represents the workspace creation payload.
type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List returns the caller's workspaces; admins see every workspace.
func (h *WorkspaceHandler) List(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var (
		out []models.Workspace
		err error
	)
	if ident.IsAdmin() {
		out, err = h.workspaces.ListAll(c.Request.Context())
	} else {
		out, err = h.workspaces.ListByOwner(c.Request.Context(), ident.ID)
	}
	if err != nil {
		respond.LogAndError(c, http.StatusInternalServerError, err, "Failed to fetch workspaces")
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": out})
}

// Create makes a new workspace owned by the caller.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		respond.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		respond.Error(c, http.StatusBadRequest, "Name is required")
		return
	}

	ws := &models.Workspace{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ident.ID,
	}
	if err := h.workspaces.Create(c.Request.Context(), ws); err != nil {
		respond.LogAndError(c, http.StatusInternalServerError, err, "Failed to create workspace")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workspace": ws})
}

// Get returns one workspace. Route guarded by RequireOwnership.
func (h *WorkspaceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid workspace id")
		return
	}

	ws, err := h.workspaces.FindByID(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "Workspace not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspace": ws})
}

// Delete removes one workspace. Route guarded by RequireOwnership.
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "Invalid workspace id")
		return
	}

	if err := h.workspaces.Delete(c.Request.Context(), id); err != nil {
		respond.Error(c, http.StatusNotFound, "Workspace not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workspace deleted"})
}

// WorkspaceOwner resolves the owner of the workspace addressed by the :id
// parameter, for use with RequireOwnership.
func (h *WorkspaceHandler) WorkspaceOwner(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, repository.ErrNotFound
	}
	ws, err := h.workspaces.FindByID(c.Request.Context(), id)
	if err != nil {
		return 0, err
	}
	return ws.OwnerID, nil
}

// ListTables returns catalog entries. Anonymous callers see public tables,
// authenticated users additionally see their own, admins see everything.
// Runs behind OptionalAuthenticate, so a missing or unverifiable identity
// degrades to the anonymous view instead of failing.
func (h *WorkspaceHandler) ListTables(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		out []models.DataTable
		err error
	)
	ident, ok := middleware.CurrentIdentity(c)
	switch {
	case !ok:
		out, err = h.tables.ListPublic(ctx)
	case ident.IsAdmin():
		out, err = h.tables.ListAll(ctx)
	default:
		out, err = h.tables.ListVisible(ctx, ident.ID)
	}
	if err != nil {
		respond.LogAndError(c, http.StatusInternalServerError, err, "Failed to fetch tables")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tables": out})
}
