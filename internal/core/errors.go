package core

import "errors"

// Error codes for protocol errors reported back to the sender.
const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotInRoom   = "not_in_room"
	ErrCodeRateLimited = "rate_limited"
)

var (
	ErrNotInRoom  = errors.New("not in room")
	ErrBadRequest = errors.New("bad request")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
