package notifications

import "time"

// deliveryStatus is the outcome of one delivery attempt.
type deliveryStatus string

// Delivery statuses.
const (
	statusSent    deliveryStatus = "sent"
	statusRetry   deliveryStatus = "retry"
	statusFailed  deliveryStatus = "failed"
	statusDropped deliveryStatus = "dropped"
)

// job is a rendered message waiting in the worker queue.
type job struct {
	Message    Message
	Attempts   int
	EnqueuedAt time.Time
	LastError  error
}
