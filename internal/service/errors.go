package service

import "errors"

// Business errors surfaced to the handler layer, which maps them onto the
// HTTP taxonomy: not-found, forbidden, unauthorized, validation/conflict.
var (
	// Not found.
	ErrListNotFound         = errors.New("list not found")
	ErrItemNotFound         = errors.New("item not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrCollaboratorNotFound = errors.New("collaborator not found on this list")

	// Forbidden.
	ErrNoAccess     = errors.New("you do not have access to this list")
	ErrNotListOwner = errors.New("only the list owner may perform this action")
	ErrNotInvitee   = errors.New("you can only respond to your own invitations")

	// Validation / conflict.
	ErrInvitationResolved   = errors.New("this invitation has already been responded to")
	ErrAlreadyCollaborator  = errors.New("this user is already a collaborator on this list")
	ErrInvitationPending    = errors.New("this user already has a pending invitation to this list")
	ErrSelfInvite           = errors.New("the owner cannot be invited to their own list")
	ErrOwnerCannotLeave     = errors.New("the list owner cannot leave; transfer ownership or delete the list")
	ErrCannotRemoveOwner    = errors.New("the list owner cannot be removed")
	ErrCannotChangeOwnerRole = errors.New("the owner's role cannot be changed")
	ErrAlreadyPurchased     = errors.New("item is already marked purchased")
	ErrNotPurchased         = errors.New("item is not marked purchased")

	// Authentication.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")

	ErrInternalServer = errors.New("internal server error")
)
