package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// currentUserID pulls the authenticated user id the auth middleware stored on
// the context. A missing or mistyped value aborts the request.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logrus.Warn("Handler: user id not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return uuid.Nil, false
	}
	userID, ok := userIDAny.(uuid.UUID)
	if !ok {
		logrus.Error("Handler: user id in context is not a uuid.UUID")
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error processing user ID")
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses one path parameter as a UUID, writing a 400 on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
