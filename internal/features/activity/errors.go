package activity

import "errors"

var (
	ErrVideoNotFound  = errors.New("video not found")
	ErrNotVideoOwner  = errors.New("video belongs to another user")
	ErrInvalidChunk   = errors.New("watched seconds chunk is required")
	ErrInvalidTotal   = errors.New("watched seconds total must not be negative")
	ErrInvalidYear    = errors.New("year must be a four digit number")
	ErrStorageFailure = errors.New("storage failure")
)
