package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest    = errors.New("bad request")
	ErrLimitExceeded = errors.New("limit exceeds the configured maximum")
	ErrBodyTooLarge  = errors.New("request body too large")
)
