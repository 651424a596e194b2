package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rkSlalom/ae-infinity-api/internal/service"
)

// ListHandler exposes the list CRUD and activity endpoints.
type ListHandler struct {
	listService     *service.ListService
	activityService *service.ActivityService
}

func NewListHandler(listService *service.ListService, activityService *service.ActivityService) *ListHandler {
	return &ListHandler{listService: listService, activityService: activityService}
}

type ListRequest struct {
	Name        string `json:"name" binding:"required,max=191"`
	Description string `json:"description" binding:"max=500"`
}

// Create handles POST /api/lists.
func (h *ListHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req ListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}

	list, err := h.listService.Create(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, list)
}

// Index handles GET /api/lists.
func (h *ListHandler) Index(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lists, err := h.listService.Lists(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"lists": lists})
}

// Show handles GET /api/lists/:listId.
func (h *ListHandler) Show(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	list, err := h.listService.Get(c.Request.Context(), userID, listID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, list)
}

// Update handles PUT /api/lists/:listId.
func (h *ListHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	var req ListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}

	list, err := h.listService.Update(c.Request.Context(), userID, listID, req.Name, req.Description)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, list)
}

type ArchiveRequest struct {
	IsArchived *bool `json:"isArchived" binding:"required"`
}

// Archive handles PUT /api/lists/:listId/archive.
func (h *ListHandler) Archive(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	var req ArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: isArchived is required")
		return
	}

	list, err := h.listService.SetArchived(c.Request.Context(), userID, listID, *req.IsArchived)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, list)
}

// Delete handles DELETE /api/lists/:listId.
func (h *ListHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	if err := h.listService.Delete(c.Request.Context(), userID, listID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Activity handles GET /api/lists/:listId/activity.
func (h *ListHandler) Activity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	entries, err := h.activityService.Feed(c.Request.Context(), userID, listID, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"activity": entries})
}
