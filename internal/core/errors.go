package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeRoomNotFound    = "room_not_found"
	ErrCodeRoomExists      = "room_exists"
	ErrCodeValidation      = "validation_failed"
	ErrCodeInactiveSession = "inactive_session"
	ErrCodeBadRequest      = "bad_request"
)

var (
	// ErrRoomNotFound is returned by registry operations on a code that is not active.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned when creating a room under a code already in use.
	ErrRoomExists = errors.New("room already exists")
	// ErrInactiveSession means the session is not bound to a live room.
	ErrInactiveSession = errors.New("no active room")
)

// ValidationError reports bad or missing user input at room entry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// CoreError is the coded form of a domain error as reported to clients.
type CoreError struct {
	Code    string
	Message string
}

// AsCoreError maps a domain error to its coded form.
func AsCoreError(err error) *CoreError {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return &CoreError{Code: ErrCodeValidation, Message: ve.Reason}
	case errors.Is(err, ErrRoomNotFound):
		return &CoreError{Code: ErrCodeRoomNotFound, Message: err.Error()}
	case errors.Is(err, ErrRoomExists):
		return &CoreError{Code: ErrCodeRoomExists, Message: err.Error()}
	case errors.Is(err, ErrInactiveSession):
		return &CoreError{Code: ErrCodeInactiveSession, Message: err.Error()}
	default:
		return &CoreError{Code: ErrCodeBadRequest, Message: err.Error()}
	}
}
