package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rkSlalom/ae-infinity-api/internal/service"
)

// HandleServiceError maps business errors onto HTTP status codes. Anything
// unmapped is logged and hidden behind a generic 500.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrListNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrRoleNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrInvitationNotFound),
		errors.Is(err, service.ErrCollaboratorNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrNoAccess),
		errors.Is(err, service.ErrNotListOwner),
		errors.Is(err, service.ErrNotInvitee):
		ErrorResponse(c, http.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrInvitationResolved),
		errors.Is(err, service.ErrAlreadyCollaborator),
		errors.Is(err, service.ErrInvitationPending),
		errors.Is(err, service.ErrSelfInvite),
		errors.Is(err, service.ErrOwnerCannotLeave),
		errors.Is(err, service.ErrCannotRemoveOwner),
		errors.Is(err, service.ErrCannotChangeOwnerRole),
		errors.Is(err, service.ErrAlreadyPurchased),
		errors.Is(err, service.ErrNotPurchased):
		ErrorResponse(c, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrRegistrationFailed):
		ErrorResponse(c, http.StatusBadRequest, err.Error())

	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
