package notifications

import (
	"time"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/domain"
)

// Kind identifies the state change a notification describes.
type Kind string

// Notification kinds.
const (
	KindFeedbackReceived  Kind = "feedback_received"
	KindAccountRegistered Kind = "account_registered"
	KindAccountApproved   Kind = "account_approved"
	KindProfileUpdated    Kind = "profile_updated"
	KindAccountDeleted    Kind = "account_deleted"
)

// Kinds lists every notification kind.
var Kinds = []Kind{
	KindFeedbackReceived,
	KindAccountRegistered,
	KindAccountApproved,
	KindProfileUpdated,
	KindAccountDeleted,
}

// Payload contains data for rendering a notification.
type Payload struct {
	Kind        Kind
	AppName     string
	BaseURL     string
	Recipient   RecipientData
	Feedback    *FeedbackData
	GeneratedAt time.Time
}

// RecipientData describes the account the notification is addressed to.
type RecipientData struct {
	Username string
	Email    string
	Name     string
	Surname  string
	Role     string
}

// FeedbackData describes a feedback record for FeedbackReceived.
type FeedbackData struct {
	Course     string
	Department string
	Rating     int
	MaxRating  int
	Text       string
}

func newPayload(kind Kind, user *domain.User) Payload {
	return Payload{
		Kind: kind,
		Recipient: RecipientData{
			Username: user.Username,
			Email:    user.Email,
			Name:     user.Name,
			Surname:  user.Surname,
			Role:     string(user.Role),
		},
		GeneratedAt: time.Now(),
	}
}

func newFeedbackData(fb *domain.Feedback) *FeedbackData {
	return &FeedbackData{
		Course:     fb.Course,
		Department: fb.Department,
		Rating:     fb.Rating,
		MaxRating:  domain.MaxRating,
		Text:       fb.Feedback,
	}
}

// Message is a rendered notification addressed to one recipient.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Text    string
	HTML    string
}
