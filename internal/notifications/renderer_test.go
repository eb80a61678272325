package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecipient() RecipientData {
	return RecipientData{
		Username: "jdoe",
		Email:    "jdoe@example.com",
		Name:     "jane",
		Surname:  "Doe",
		Role:     "lecturer",
	}
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Len(t, r.text, len(Kinds))
	assert.Len(t, r.html, len(Kinds))
}

func TestRenderer_RenderFeedbackReceived(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	msg, err := r.Render(Payload{
		Kind:      KindFeedbackReceived,
		AppName:   "Lecture Rating Application",
		BaseURL:   "https://rating.example.com",
		Recipient: testRecipient(),
		Feedback: &FeedbackData{
			Course:     "Algorithms",
			Department: "CS",
			Rating:     8,
			MaxRating:  10,
			Text:       "great",
		},
		GeneratedAt: time.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, KindFeedbackReceived, msg.Kind)
	assert.Equal(t, "jdoe@example.com", msg.To)
	assert.Equal(t, "New Feedback Received", msg.Subject)

	assert.Contains(t, msg.Text, "Hello Jane,")
	assert.Contains(t, msg.Text, "You have received new feedback for your course: Algorithms.")
	assert.Contains(t, msg.Text, "Rating: 8/10")
	assert.Contains(t, msg.Text, "https://rating.example.com/feedback")

	assert.Contains(t, msg.HTML, "<strong>Algorithms</strong>")
	assert.Contains(t, msg.HTML, `href="https://rating.example.com/feedback"`)
}

func TestRenderer_RenderFeedbackReceived_RequiresFeedback(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render(Payload{Kind: KindFeedbackReceived, Recipient: testRecipient()})
	assert.Error(t, err)
}

func TestRenderer_RenderAccountKinds(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	tests := []struct {
		kind    Kind
		subject string
		text    string
	}{
		{KindAccountRegistered, "Welcome to the Lecture Rating Application!", "Thank you for registering with us!"},
		{KindAccountApproved, "Account Approved", "Your account has been approved by the admin. You can now log in to the application."},
		{KindProfileUpdated, "Profile Updated", "Your profile has been updated."},
		{KindAccountDeleted, "Account Deleted", "Your account has been successfully deleted."},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			msg, err := r.Render(Payload{
				Kind:      tt.kind,
				AppName:   "Lecture Rating Application",
				Recipient: testRecipient(),
			})
			require.NoError(t, err)

			assert.Equal(t, tt.subject, msg.Subject)
			assert.Contains(t, msg.Text, tt.text)
			assert.Contains(t, msg.HTML, tt.text)
			assert.Contains(t, msg.Text, "Lecture Rating Application")
		})
	}
}

func TestRenderer_RegisteredMentionsApproval(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	student := testRecipient()
	student.Role = "student"
	msg, err := r.Render(Payload{Kind: KindAccountRegistered, Recipient: student})
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Your Student account is awaiting approval")

	admin := testRecipient()
	admin.Role = "admin"
	msg, err = r.Render(Payload{Kind: KindAccountRegistered, Recipient: admin})
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "you can log in now")
	assert.NotContains(t, msg.Text, "awaiting approval")
}

func TestRenderer_EscapesHTML(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	msg, err := r.Render(Payload{
		Kind:      KindFeedbackReceived,
		Recipient: testRecipient(),
		Feedback: &FeedbackData{
			Course:     `<script>alert("x")</script>`,
			Department: "CS",
			Rating:     5,
			MaxRating:  10,
		},
	})
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Text, `<script>alert("x")</script>`)
}

func TestRenderer_UnknownKind(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	_, err = r.Render(Payload{Kind: "unknown", Recipient: testRecipient()})
	assert.Error(t, err)
}

func TestGreetName(t *testing.T) {
	assert.Equal(t, "Jane", greetName(RecipientData{Username: "jdoe", Name: "jane"}))
	assert.Equal(t, "Mary Ann", greetName(RecipientData{Username: "ma", Name: "mary ann"}))
	assert.Equal(t, "jdoe", greetName(RecipientData{Username: "jdoe", Name: "  "}))
}
