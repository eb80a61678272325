package app

import (
	"context"
	"fmt"

	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/config"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/notifications"
	"github.com/VHULONDOROCKY29/lecture-rating-backend-main/internal/notifications/email"
)

// startNotifications starts the delivery workers and returns the notifier
// services report to. It returns nil when notifications are disabled.
func (a *App) startNotifications(ctx context.Context) (*notifications.Notifier, error) {
	cfg := a.config.Notifications
	a.logger.Info("notifications",
		"enabled", cfg.Enabled,
		"email", cfg.Email.Enabled,
		"workers", cfg.Worker.NumWorkers,
	)
	if !cfg.Enabled {
		return nil, nil
	}

	sender, err := a.newSender(cfg.Email)
	if err != nil {
		return nil, err
	}

	renderer, err := notifications.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load notification templates: %w", err)
	}

	w := cfg.Worker
	a.worker = notifications.NewWorker(notifications.WorkerConfig{
		NumWorkers:        w.NumWorkers,
		QueueSize:         w.QueueSize,
		MaxAttempts:       w.MaxAttempts,
		InitialBackoff:    w.InitialBackoff,
		MaxBackoff:        w.MaxBackoff,
		BackoffMultiplier: w.BackoffMultiplier,
		RateLimit:         w.RateLimit,
	}, sender)
	a.worker.Start(ctx)

	return notifications.NewNotifier(renderer, a.worker, cfg.AppName, cfg.BaseURL), nil
}

// newSender returns the SMTP sender, or a sender that only logs when email
// is switched off.
func (a *App) newSender(cfg config.EmailConfig) (notifications.Sender, error) {
	if !cfg.Enabled {
		a.logger.Warn("email delivery disabled, notifications are logged only")
		return notifications.NewLogSender(a.logger), nil
	}

	sender, err := email.NewSender(email.Config{
		SMTPHost:        cfg.SMTPHost,
		SMTPPort:        cfg.SMTPPort,
		SMTPUser:        cfg.SMTPUser,
		SMTPPassword:    cfg.SMTPPassword,
		FromAddress:     cfg.FromAddress,
		InsecureSkipTLS: cfg.InsecureSkipTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("create email sender: %w", err)
	}
	return sender, nil
}
