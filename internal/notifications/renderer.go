package notifications

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// subjects holds the subject line per kind. %s is replaced by the app name.
var subjects = map[Kind]string{
	KindFeedbackReceived:  "New Feedback Received",
	KindAccountRegistered: "Welcome to the %s!",
	KindAccountApproved:   "Account Approved",
	KindProfileUpdated:    "Profile Updated",
	KindAccountDeleted:    "Account Deleted",
}

// Renderer renders notifications from embedded templates. Every kind has a
// plain text and an HTML body.
type Renderer struct {
	text   map[Kind]*texttemplate.Template
	html   map[Kind]*htmltemplate.Template
	policy *bluemonday.Policy
}

// NewRenderer creates a new renderer and parses all templates.
func NewRenderer() (*Renderer, error) {
	funcs := map[string]any{
		"title":     titleCase,
		"upper":     strings.ToUpper,
		"greetName": greetName,
	}

	r := &Renderer{
		text:   make(map[Kind]*texttemplate.Template, len(Kinds)),
		html:   make(map[Kind]*htmltemplate.Template, len(Kinds)),
		policy: bluemonday.UGCPolicy(),
	}

	for _, kind := range Kinds {
		textSrc, err := templatesFS.ReadFile(fmt.Sprintf("templates/%s.txt.tmpl", kind))
		if err != nil {
			return nil, fmt.Errorf("read text template %s: %w", kind, err)
		}
		textTmpl, err := texttemplate.New(string(kind)).Funcs(funcs).Option("missingkey=error").Parse(string(textSrc))
		if err != nil {
			return nil, fmt.Errorf("parse text template %s: %w", kind, err)
		}

		htmlSrc, err := templatesFS.ReadFile(fmt.Sprintf("templates/%s.html.tmpl", kind))
		if err != nil {
			return nil, fmt.Errorf("read html template %s: %w", kind, err)
		}
		htmlTmpl, err := htmltemplate.New(string(kind)).Funcs(funcs).Option("missingkey=error").Parse(string(htmlSrc))
		if err != nil {
			return nil, fmt.Errorf("parse html template %s: %w", kind, err)
		}

		r.text[kind] = textTmpl
		r.html[kind] = htmlTmpl
	}

	return r, nil
}

// Render renders payload into a message addressed to the payload recipient.
func (r *Renderer) Render(payload Payload) (Message, error) {
	textTmpl, ok := r.text[payload.Kind]
	if !ok {
		return Message{}, fmt.Errorf("template not found: %s", payload.Kind)
	}
	if payload.Kind == KindFeedbackReceived && payload.Feedback == nil {
		return Message{}, fmt.Errorf("render %s: feedback data is required", payload.Kind)
	}

	var text bytes.Buffer
	if err := textTmpl.Execute(&text, payload); err != nil {
		return Message{}, fmt.Errorf("execute text template %s: %w", payload.Kind, err)
	}

	var html bytes.Buffer
	if err := r.html[payload.Kind].Execute(&html, payload); err != nil {
		return Message{}, fmt.Errorf("execute html template %s: %w", payload.Kind, err)
	}

	return Message{
		Kind:    payload.Kind,
		To:      payload.Recipient.Email,
		Subject: renderSubject(payload),
		Text:    strings.TrimSpace(text.String()) + "\n",
		HTML:    strings.TrimSpace(r.policy.Sanitize(html.String())),
	}, nil
}

func renderSubject(payload Payload) string {
	subject, ok := subjects[payload.Kind]
	if !ok {
		return "Notification"
	}
	if strings.Contains(subject, "%s") {
		return fmt.Sprintf(subject, payload.AppName)
	}
	return subject
}

// Template functions

var titleCaser = cases.Title(language.English)

func titleCase(s string) string {
	return titleCaser.String(s)
}

// greetName is the recipient's given name, falling back to the username.
func greetName(r RecipientData) string {
	if name := strings.TrimSpace(r.Name); name != "" {
		return titleCase(name)
	}
	return r.Username
}
