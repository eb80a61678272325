//go:build integration

package email

import (
	"context"
	"testing"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/notifications"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSender_DeliversToMailpit(t *testing.T) {
	ctx := context.Background()

	mailpit, err := testutil.NewMailpitContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mailpit.Terminate(ctx) })

	inbox := mailpit.NewClient()
	require.NoError(t, inbox.DeleteAll())

	sender, err := NewSender(Config{
		SMTPHost:        mailpit.SMTPHost,
		SMTPPort:        mailpit.SMTPPort,
		FromAddress:     "Lecture Rating <noreply@rating.example.com>",
		InsecureSkipTLS: true,
	})
	require.NoError(t, err)

	renderer, err := notifications.NewRenderer()
	require.NoError(t, err)

	worker := notifications.NewWorker(notifications.WorkerConfig{NumWorkers: 1, QueueSize: 4, MaxAttempts: 2}, sender)
	worker.Start(ctx)

	notifier := notifications.NewNotifier(renderer, worker, "Lecture Rating Application", "")
	lecturer := &domain.User{
		ID:       "l-1",
		Username: "turing",
		Role:     domain.RoleLecturer,
		Email:    "turing@example.com",
		Name:     "Alan",
	}
	require.NoError(t, notifier.NotifyFeedbackReceived(ctx, lecturer, &domain.Feedback{
		Course:     "Computability",
		Department: "Maths",
		Rating:     9,
	}))

	stopCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	require.NoError(t, worker.Stop(stopCtx))

	messages, err := inbox.WaitForMessages(1, 10*time.Second)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	msg := messages[0]
	assert.Equal(t, "New Feedback Received", msg.Subject)
	require.Len(t, msg.To, 1)
	assert.Equal(t, "turing@example.com", msg.To[0].Address)
	assert.Equal(t, "noreply@rating.example.com", msg.From.Address)

	body, err := inbox.Body(msg.ID)
	require.NoError(t, err)
	assert.Contains(t, body.Text, "You have received new feedback for your course: Computability.")
	assert.Contains(t, body.HTML, "<strong>Computability</strong>")
}
