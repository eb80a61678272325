package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// WorkerConfig contains worker configuration.
type WorkerConfig struct {
	NumWorkers        int
	QueueSize         int
	MaxAttempts       int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
	// RateLimit caps sends per second across all workers. Zero means no limit.
	RateLimit float64
}

// DefaultWorkerConfig returns default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		NumWorkers:        2,
		QueueSize:         256,
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        1 * time.Minute,
		BackoffMultiplier: 2.0,
		RateLimit:         5,
	}
}

// Worker delivers messages in the background. It implements Emitter.
type Worker struct {
	config  WorkerConfig
	sender  Sender
	limiter *rate.Limiter

	jobs    chan job
	mu      sync.RWMutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWorker creates a new notification worker.
func NewWorker(config WorkerConfig, sender Sender) *Worker {
	defaults := DefaultWorkerConfig()
	if config.NumWorkers < 1 {
		config.NumWorkers = defaults.NumWorkers
	}
	if config.QueueSize < 1 {
		config.QueueSize = defaults.QueueSize
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BackoffMultiplier < 1 {
		config.BackoffMultiplier = 1
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	return &Worker{
		config:  config,
		sender:  sender,
		limiter: rate.NewLimiter(limit, 1),
		jobs:    make(chan job, config.QueueSize),
		cancel:  func() {},
	}
}

// Emit queues msg without waiting for delivery. It fails with ErrQueueFull
// when the queue is at capacity and ErrWorkerStopped after Stop.
func (w *Worker) Emit(ctx context.Context, msg Message) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		return ErrWorkerStopped
	}

	select {
	case w.jobs <- job{Message: msg, EnqueuedAt: time.Now()}:
		recordQueueDepth(len(w.jobs))
		return nil
	default:
		recordNotificationSent(msg.Kind, statusDropped)
		return ErrQueueFull
	}
}

// Start launches worker goroutines. Cancelling ctx aborts in-flight sends.
func (w *Worker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	slog.Info("starting notification worker",
		"workers", w.config.NumWorkers,
		"queue_size", w.config.QueueSize,
		"max_attempts", w.config.MaxAttempts,
	)

	for i := 0; i < w.config.NumWorkers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i)
	}
}

// Stop refuses new messages and waits for queued ones to be delivered. If
// ctx ends first the remaining work is abandoned and ctx.Err() returned.
func (w *Worker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.jobs)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.cancel()
		slog.Info("notification worker stopped")
		return nil
	case <-ctx.Done():
		pending := len(w.jobs)
		w.cancel()
		<-done
		slog.Warn("notification worker stopped before queue drained", "pending", pending)
		return ctx.Err()
	}
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for j := range w.jobs {
		recordQueueDepth(len(w.jobs))
		w.process(ctx, workerID, j)
	}
}

// process delivers j, retrying retryable failures with backoff until
// MaxAttempts is reached.
func (w *Worker) process(ctx context.Context, workerID int, j job) {
	for {
		if ctx.Err() != nil {
			w.fail(workerID, j, ctx.Err())
			return
		}

		err := w.attempt(ctx, &j)
		if err == nil {
			return
		}

		if !isRetryable(err) || j.Attempts >= w.config.MaxAttempts {
			w.fail(workerID, j, err)
			return
		}

		backoff := w.calculateBackoff(j.Attempts)
		recordNotificationSent(j.Message.Kind, statusRetry)
		slog.Info("notification scheduled for retry",
			"worker", workerID,
			"kind", j.Message.Kind,
			"attempt", j.Attempts,
			"backoff", backoff,
			"error", err,
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (w *Worker) attempt(ctx context.Context, j *job) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return NewNonRetryableError(err)
	}

	j.Attempts++
	start := time.Now()
	err := w.sender.Send(ctx, j.Message)
	if err != nil {
		j.LastError = err
		return err
	}

	recordNotificationSent(j.Message.Kind, statusSent)
	recordNotificationDuration(j.Message.Kind, time.Since(start))
	slog.Debug("notification sent",
		"kind", j.Message.Kind,
		"attempts", j.Attempts,
		"queued_for", start.Sub(j.EnqueuedAt),
	)
	return nil
}

func (w *Worker) fail(workerID int, j job, err error) {
	recordNotificationSent(j.Message.Kind, statusFailed)
	slog.Error("notification delivery failed",
		"worker", workerID,
		"kind", j.Message.Kind,
		"attempts", j.Attempts,
		"max_attempts", w.config.MaxAttempts,
		"error", err,
	)
}

// calculateBackoff returns the wait before retrying after the given attempt.
func (w *Worker) calculateBackoff(attempt int) time.Duration {
	backoff := float64(w.config.InitialBackoff)
	for i := 1; i < attempt; i++ {
		backoff *= w.config.BackoffMultiplier
	}

	if backoff > float64(w.config.MaxBackoff) {
		backoff = float64(w.config.MaxBackoff)
	}

	return time.Duration(backoff)
}

// isRetryable checks if an error is retryable. Errors that do not say are
// retried.
func isRetryable(err error) bool {
	var r interface{ IsRetryable() bool }
	if errors.As(err, &r) {
		return r.IsRetryable()
	}
	return true
}

// RetryableError wraps an error and marks it as retryable or not.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

// IsRetryable returns whether the error is retryable.
func (e *RetryableError) IsRetryable() bool {
	return e.Retryable
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a retryable error.
func NewRetryableError(err error) *RetryableError {
	return &RetryableError{Err: err, Retryable: true}
}

// NewNonRetryableError creates a non-retryable error.
func NewNonRetryableError(err error) *RetryableError {
	return &RetryableError{Err: err, Retryable: false}
}
