package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rkSlalom/ae-infinity-api/internal/service"
)

// CollaboratorHandler exposes the sharing and invitation endpoints.
type CollaboratorHandler struct {
	collabService *service.CollaborationService
}

func NewCollaboratorHandler(collabService *service.CollaborationService) *CollaboratorHandler {
	return &CollaboratorHandler{collabService: collabService}
}

type ShareRequest struct {
	Email  string    `json:"email" binding:"required,email"`
	RoleID uuid.UUID `json:"roleId" binding:"required"`
}

// Share handles POST /api/lists/:listId/share.
func (h *CollaboratorHandler) Share(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: email and roleId are required")
		return
	}

	collab, err := h.collabService.Invite(c.Request.Context(), userID, listID, req.Email, req.RoleID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, collab)
}

// Index handles GET /api/lists/:listId/collaborators.
func (h *CollaboratorHandler) Index(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	collabs, err := h.collabService.Collaborators(c.Request.Context(), userID, listID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"collaborators": collabs})
}

// Remove handles DELETE /api/lists/:listId/collaborators/:userId.
func (h *CollaboratorHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	collaboratorID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	if err := h.collabService.Remove(c.Request.Context(), userID, listID, collaboratorID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type ChangeRoleRequest struct {
	RoleID uuid.UUID `json:"roleId" binding:"required"`
}

// ChangeRole handles PUT /api/lists/:listId/collaborators/:userId/role.
func (h *CollaboratorHandler) ChangeRole(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	collaboratorID, ok := pathUUID(c, "userId")
	if !ok {
		return
	}
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: roleId is required")
		return
	}

	if err := h.collabService.ChangeRole(c.Request.Context(), userID, listID, collaboratorID, req.RoleID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Leave handles POST /api/lists/:listId/leave.
func (h *CollaboratorHandler) Leave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	if err := h.collabService.Leave(c.Request.Context(), userID, listID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Invitations handles GET /api/invitations.
func (h *CollaboratorHandler) Invitations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	invitations, err := h.collabService.Invitations(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"invitations": invitations})
}

// Accept handles POST /api/invitations/:invitationId/accept.
func (h *CollaboratorHandler) Accept(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	invitationID, ok := pathUUID(c, "invitationId")
	if !ok {
		return
	}
	if err := h.collabService.Accept(c.Request.Context(), userID, invitationID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Decline handles POST /api/invitations/:invitationId/decline.
func (h *CollaboratorHandler) Decline(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	invitationID, ok := pathUUID(c, "invitationId")
	if !ok {
		return
	}
	if err := h.collabService.Decline(c.Request.Context(), userID, invitationID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Roles handles GET /api/roles.
type RolesHandler struct {
	roleService *service.RoleService
}

func NewRolesHandler(roleService *service.RoleService) *RolesHandler {
	return &RolesHandler{roleService: roleService}
}

func (h *RolesHandler) Index(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	roles, err := h.roleService.Roles(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"roles": roles})
}
