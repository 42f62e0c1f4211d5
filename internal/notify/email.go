// Package notify sends transactional emails to users.
package notify

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/georgiana-ojoc/UserManagementAPI/internal/config"
)

// Notifier sends account-related notifications.
type Notifier interface {
	SendWelcome(to, firstName string) error
}

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendWelcome sends a welcome email to a freshly registered user.
func (s *Sender) SendWelcome(to, firstName string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Welcome to User Management"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your account has been created successfully.\n"+
			"You can now log in with your email address.\n"+
			"\nBest regards,\nUser Management", firstName,
	)
	e.Text = []byte(body)

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// NoOpSender discards notifications. It is used when SMTP is not configured.
type NoOpSender struct{}

// SendWelcome does nothing.
func (NoOpSender) SendWelcome(to, firstName string) error { return nil }
