package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSender fails with errs in order, then succeeds.
type scriptedSender struct {
	mu    sync.Mutex
	errs  []error
	calls int
	sent  []Message
}

func (s *scriptedSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *scriptedSender) snapshot() (int, []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, append([]Message(nil), s.sent...)
}

// blockingSender blocks until release is closed.
type blockingSender struct {
	release chan struct{}
}

func (s *blockingSender) Send(ctx context.Context, _ Message) error {
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func fastConfig() WorkerConfig {
	return WorkerConfig{
		NumWorkers:        1,
		QueueSize:         8,
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func stopWorker(t *testing.T, w *Worker) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))
}

func TestWorker_CalculateBackoff(t *testing.T) {
	worker := &Worker{config: WorkerConfig{
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        5 * time.Minute,
		BackoffMultiplier: 2.0,
	}}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 1 * time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 16 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt %d", tt.attempt), func(t *testing.T) {
			assert.Equal(t, tt.expected, worker.calculateBackoff(tt.attempt))
		})
	}
}

func TestWorker_CalculateBackoff_MaxBackoff(t *testing.T) {
	worker := &Worker{config: WorkerConfig{
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}}

	assert.Equal(t, 10*time.Second, worker.calculateBackoff(10))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, isRetryable(errors.New("unknown")))
	assert.True(t, isRetryable(NewRetryableError(errors.New("timeout"))))
	assert.False(t, isRetryable(NewNonRetryableError(errors.New("bad address"))))
	assert.False(t, isRetryable(fmt.Errorf("wrapped: %w", NewNonRetryableError(errors.New("bad")))))
}

func TestRetryableError_Unwrap(t *testing.T) {
	err := NewRetryableError(ErrNoRecipient)
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Equal(t, ErrNoRecipient.Error(), err.Error())
}

func TestWorker_DeliversQueuedMessages(t *testing.T) {
	sender := &scriptedSender{}
	w := NewWorker(fastConfig(), sender)
	w.Start(context.Background())

	for i := 0; i < 3; i++ {
		require.NoError(t, w.Emit(context.Background(), Message{Kind: KindAccountApproved, To: fmt.Sprintf("u%d@example.com", i)}))
	}
	stopWorker(t, w)

	_, sent := sender.snapshot()
	assert.Len(t, sent, 3)
}

func TestWorker_RetriesRetryableErrors(t *testing.T) {
	sender := &scriptedSender{errs: []error{
		NewRetryableError(errors.New("421 try later")),
		NewRetryableError(errors.New("451 local error")),
	}}
	w := NewWorker(fastConfig(), sender)
	w.Start(context.Background())

	require.NoError(t, w.Emit(context.Background(), Message{Kind: KindProfileUpdated, To: "a@example.com"}))
	stopWorker(t, w)

	calls, sent := sender.snapshot()
	assert.Equal(t, 3, calls)
	assert.Len(t, sent, 1)
}

func TestWorker_GivesUpAfterMaxAttempts(t *testing.T) {
	failure := NewRetryableError(errors.New("421 try later"))
	sender := &scriptedSender{errs: []error{failure, failure, failure, failure}}
	w := NewWorker(fastConfig(), sender)
	w.Start(context.Background())

	require.NoError(t, w.Emit(context.Background(), Message{Kind: KindProfileUpdated, To: "a@example.com"}))
	stopWorker(t, w)

	calls, sent := sender.snapshot()
	assert.Equal(t, 3, calls)
	assert.Empty(t, sent)
}

func TestWorker_DoesNotRetryPermanentErrors(t *testing.T) {
	sender := &scriptedSender{errs: []error{NewNonRetryableError(errors.New("550 no such user"))}}
	w := NewWorker(fastConfig(), sender)
	w.Start(context.Background())

	require.NoError(t, w.Emit(context.Background(), Message{Kind: KindAccountDeleted, To: "a@example.com"}))
	stopWorker(t, w)

	calls, sent := sender.snapshot()
	assert.Equal(t, 1, calls)
	assert.Empty(t, sent)
}

func TestWorker_QueueFull(t *testing.T) {
	cfg := fastConfig()
	cfg.QueueSize = 1
	w := NewWorker(cfg, &scriptedSender{})

	// Not started, so nothing drains the queue.
	require.NoError(t, w.Emit(context.Background(), Message{Kind: KindAccountApproved}))
	assert.ErrorIs(t, w.Emit(context.Background(), Message{Kind: KindAccountApproved}), ErrQueueFull)
}

func TestWorker_EmitAfterStop(t *testing.T) {
	w := NewWorker(fastConfig(), &scriptedSender{})
	w.Start(context.Background())
	stopWorker(t, w)

	assert.ErrorIs(t, w.Emit(context.Background(), Message{}), ErrWorkerStopped)
	// Stopping twice is harmless.
	stopWorker(t, w)
}

func TestWorker_StopDeadlineAbandonsWork(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{})}
	defer close(sender.release)

	w := NewWorker(fastConfig(), sender)
	w.Start(context.Background())
	require.NoError(t, w.Emit(context.Background(), Message{Kind: KindAccountApproved}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Stop(ctx), context.DeadlineExceeded)
}
