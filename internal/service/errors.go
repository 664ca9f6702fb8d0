package service

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so transports can pick a status code without
// inspecting messages.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindInvalidToken
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidState
)

var kindStatus = map[Kind]int{
	KindValidation:      http.StatusBadRequest,
	KindUnauthenticated: http.StatusUnauthorized,
	KindInvalidToken:    http.StatusForbidden,
	KindUnauthorized:    http.StatusUnauthorized,
	KindForbidden:       http.StatusForbidden,
	KindNotFound:        http.StatusNotFound,
	KindConflict:        http.StatusConflict,
	KindInvalidState:    http.StatusBadRequest,
}

// Error is a failure that is safe to show to the client as is.
type Error struct {
	Kind    Kind
	Message string
	// Status overrides the kind's default HTTP status when non-zero.
	Status int
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ValidationError reports malformed or missing input.
func ValidationError(message string) *Error {
	return newError(KindValidation, message)
}

var (
	ErrNoToken            = newError(KindUnauthenticated, "access denied, no token provided")
	ErrTokenInvalid       = newError(KindInvalidToken, "invalid or expired token")
	ErrUserNotFound       = newError(KindNotFound, "user not found")
	ErrAdminOnly          = newError(KindForbidden, "access denied, admin only")
	ErrAdminRegistration  = newError(KindForbidden, "cannot register with admin role")
	ErrEmailTaken         = &Error{Kind: KindConflict, Message: "email already exists", Status: http.StatusBadRequest}
	ErrInvalidCredentials = newError(KindUnauthorized, "invalid email or password")

	ErrAdminCannotJoin = newError(KindForbidden, "admins cannot join tours")
	ErrTourNotFound    = newError(KindNotFound, "tour not found")
	ErrTourEnded       = newError(KindInvalidState, "cannot join a past/ended tour")
	ErrAlreadyJoined   = &Error{Kind: KindConflict, Message: "already joined", Status: http.StatusBadRequest}
	ErrTourDateInPast  = newError(KindInvalidState, "tour date must be in the future")

	ErrSpotNotFound     = newError(KindNotFound, "tourist spot not found")
	ErrReviewNotOwned   = newError(KindForbidden, "review not found or not owned by you")
	ErrFavoriteExists   = newError(KindConflict, "spot is already in favorites")
	ErrFavoriteNotFound = newError(KindNotFound, "favorite not found")
	ErrLocationNotOwned = newError(KindForbidden, "you can only update your own location")
)

// AsError unwraps err into a client-safe *Error when it is one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
