package model

import "errors"

// Failure taxonomy shared by every layer. Wrap with context and test with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrProtectedEntity = errors.New("protected entity")
	ErrPersistence     = errors.New("persistence failure")
	ErrValidation      = errors.New("validation failure")
)
