package notifications

import "errors"

// Notification errors.
var (
	ErrQueueFull     = errors.New("notification queue is full")
	ErrWorkerStopped = errors.New("notification worker stopped")
	ErrNoRecipient   = errors.New("notification has no recipient address")
)
