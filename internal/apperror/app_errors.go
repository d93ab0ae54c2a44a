package apperror

import "errors"

// Errors raised by event producers. The reducer itself never fails.
var (
	ErrInvalidCoordinate = errors.New("coordinate is outside the board")
	ErrUnknownEvent      = errors.New("unknown event type")
	ErrUnknownAction     = errors.New("unknown action")
	ErrMissingPayload    = errors.New("payload is required")
)
