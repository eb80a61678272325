package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mailpitImage = "ghcr.io/axllent/mailpit:latest"
	mailpitSMTP  = "1025/tcp"
	mailpitAPI   = "8025/tcp"
)

// MailpitContainer is a disposable SMTP catcher with a REST API for reading
// what it received.
type MailpitContainer struct {
	testcontainers.Container
	SMTPHost string
	SMTPPort int
	APIHost  string
	APIPort  int
}

// NewMailpitContainer starts Mailpit and waits for both of its ports.
func NewMailpitContainer(ctx context.Context) (*MailpitContainer, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mailpitImage,
			ExposedPorts: []string{mailpitSMTP, mailpitAPI},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(mailpitSMTP),
				wait.ForHTTP("/api/v1/info").WithPort(mailpitAPI),
			).WithDeadline(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start mailpit container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("mailpit host: %w", err)
	}
	smtpPort, err := container.MappedPort(ctx, mailpitSMTP)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("mailpit smtp port: %w", err)
	}
	apiPort, err := container.MappedPort(ctx, mailpitAPI)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("mailpit api port: %w", err)
	}

	return &MailpitContainer{
		Container: container,
		SMTPHost:  host,
		SMTPPort:  smtpPort.Int(),
		APIHost:   host,
		APIPort:   apiPort.Int(),
	}, nil
}

// MailpitClient reads the inbox of a Mailpit container over its REST API.
type MailpitClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the container's API port.
func (c *MailpitContainer) NewClient() *MailpitClient {
	return &MailpitClient{
		baseURL:    fmt.Sprintf("http://%s:%d", c.APIHost, c.APIPort),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// MailpitMessage is an inbox entry.
type MailpitMessage struct {
	ID      string           `json:"ID"`
	From    MailpitAddress   `json:"From"`
	To      []MailpitAddress `json:"To"`
	Subject string           `json:"Subject"`
	Snippet string           `json:"Snippet"`
}

// MailpitAddress is an email address with display name.
type MailpitAddress struct {
	Address string `json:"Address"`
	Name    string `json:"Name"`
}

// MailpitBody holds the decoded bodies of one message.
type MailpitBody struct {
	Text string `json:"Text"`
	HTML string `json:"HTML"`
}

// Messages returns all messages in the inbox, newest first.
func (c *MailpitClient) Messages() ([]MailpitMessage, error) {
	var result struct {
		Messages []MailpitMessage `json:"messages"`
	}
	if err := c.getJSON("/api/v1/messages", &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// Body returns the text and HTML bodies of message id.
func (c *MailpitClient) Body(id string) (*MailpitBody, error) {
	var body MailpitBody
	if err := c.getJSON("/api/v1/message/"+id, &body); err != nil {
		return nil, err
	}
	return &body, nil
}

// DeleteAll clears the inbox.
func (c *MailpitClient) DeleteAll() error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/api/v1/messages", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete messages: status %d", resp.StatusCode)
	}
	return nil
}

// WaitForMessages polls until at least count messages arrived or timeout
// passes.
func (c *MailpitClient) WaitForMessages(count int, timeout time.Duration) ([]MailpitMessage, error) {
	deadline := time.Now().Add(timeout)
	var (
		messages []MailpitMessage
		lastErr  error
	)

	for time.Now().Before(deadline) {
		messages, lastErr = c.Messages()
		if lastErr == nil && len(messages) >= count {
			return messages, nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	if lastErr != nil {
		return messages, fmt.Errorf("timeout waiting for %d messages: %w", count, lastErr)
	}
	return messages, fmt.Errorf("timeout waiting for %d messages, got %d", count, len(messages))
}

func (c *MailpitClient) getJSON(path string, out any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("get %s: status %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
