// Package apperrors defines sentinel errors shared across the engine.
// Handlers map these to HTTP status codes with errors.Is; services and
// clients wrap them with context using fmt.Errorf and %w.
package apperrors

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("inspection is not active")
	ErrIndexOutOfRange   = errors.New("room index out of range")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoReferenceImages = errors.New("room has no reference images")
	ErrUploadFailed      = errors.New("image upload failed")
	ErrProvider          = errors.New("vision provider error")
	ErrEmptyResult       = errors.New("vision provider returned no result")
	ErrPersistFailed     = errors.New("failed to persist document")
)
