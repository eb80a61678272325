package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
)

// Emitter accepts rendered messages for delivery. Emit must not block on
// the transport.
type Emitter interface {
	Emit(ctx context.Context, msg Message) error
}

// Notifier turns identity and feedback state changes into messages. It
// satisfies identity.AccountNotifier and feedback.Notifier.
type Notifier struct {
	renderer *Renderer
	emitter  Emitter
	appName  string
	baseURL  string
	now      func() time.Time
}

// NewNotifier creates a new Notifier.
func NewNotifier(renderer *Renderer, emitter Emitter, appName, baseURL string) *Notifier {
	return &Notifier{
		renderer: renderer,
		emitter:  emitter,
		appName:  appName,
		baseURL:  baseURL,
		now:      time.Now,
	}
}

// NotifyFeedbackReceived tells a lecturer about new feedback.
func (n *Notifier) NotifyFeedbackReceived(ctx context.Context, lecturer *domain.User, fb *domain.Feedback) error {
	payload := n.payload(KindFeedbackReceived, lecturer)
	payload.Feedback = newFeedbackData(fb)
	return n.send(ctx, payload)
}

// NotifyAccountRegistered sends the welcome message.
func (n *Notifier) NotifyAccountRegistered(ctx context.Context, user *domain.User) error {
	return n.send(ctx, n.payload(KindAccountRegistered, user))
}

// NotifyAccountApproved tells the user they can log in.
func (n *Notifier) NotifyAccountApproved(ctx context.Context, user *domain.User) error {
	return n.send(ctx, n.payload(KindAccountApproved, user))
}

// NotifyProfileUpdated confirms a profile change.
func (n *Notifier) NotifyProfileUpdated(ctx context.Context, user *domain.User) error {
	return n.send(ctx, n.payload(KindProfileUpdated, user))
}

// NotifyAccountDeleted confirms the account removal. user is the record as
// it was before deletion.
func (n *Notifier) NotifyAccountDeleted(ctx context.Context, user *domain.User) error {
	return n.send(ctx, n.payload(KindAccountDeleted, user))
}

func (n *Notifier) payload(kind Kind, user *domain.User) Payload {
	p := newPayload(kind, user)
	p.AppName = n.appName
	p.BaseURL = n.baseURL
	p.GeneratedAt = n.now()
	return p
}

func (n *Notifier) send(ctx context.Context, payload Payload) error {
	if payload.Recipient.Email == "" {
		return fmt.Errorf("%s for %s: %w", payload.Kind, payload.Recipient.Username, ErrNoRecipient)
	}

	msg, err := n.renderer.Render(payload)
	if err != nil {
		return fmt.Errorf("render %s: %w", payload.Kind, err)
	}

	if err := n.emitter.Emit(ctx, msg); err != nil {
		return fmt.Errorf("emit %s: %w", payload.Kind, err)
	}
	return nil
}
