package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rkSlalom/ae-infinity-api/internal/repository"
	"github.com/rkSlalom/ae-infinity-api/internal/service"
)

// ItemHandler exposes the item endpoints under /api/lists/:listId/items.
type ItemHandler struct {
	itemService *service.ItemService
}

func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create handles POST /api/lists/:listId/items.
func (h *ItemHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	var req service.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), userID, listID, req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, item)
}

// Index handles GET /api/lists/:listId/items.
func (h *ItemHandler) Index(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	items, err := h.itemService.Items(c.Request.Context(), userID, listID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"items": items})
}

// Show handles GET /api/lists/:listId/items/:itemId.
func (h *ItemHandler) Show(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	item, err := h.itemService.Get(c.Request.Context(), userID, listID, itemID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, item)
}

// Update handles PUT /api/lists/:listId/items/:itemId.
func (h *ItemHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	var req service.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), userID, listID, itemID, req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, item)
}

// Delete handles DELETE /api/lists/:listId/items/:itemId.
func (h *ItemHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	if err := h.itemService.Delete(c.Request.Context(), userID, listID, itemID); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type PurchaseRequest struct {
	IsPurchased *bool `json:"isPurchased" binding:"required"`
}

// Purchase handles PUT /api/lists/:listId/items/:itemId/purchase.
func (h *ItemHandler) Purchase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	itemID, ok := pathUUID(c, "itemId")
	if !ok {
		return
	}
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: isPurchased is required")
		return
	}

	item, err := h.itemService.SetPurchased(c.Request.Context(), userID, listID, itemID, *req.IsPurchased)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, item)
}

type ReorderRequest struct {
	Items []repository.ItemPosition `json:"items" binding:"required"`
}

// Reorder handles PUT /api/lists/:listId/items/reorder.
func (h *ItemHandler) Reorder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	listID, ok := pathUUID(c, "listId")
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: items array is required")
		return
	}

	if err := h.itemService.Reorder(c.Request.Context(), userID, listID, req.Items); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
