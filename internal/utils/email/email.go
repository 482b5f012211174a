package email

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/task-service/internal/config"
	"github.com/Dan9191/task-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

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

// SendWelcome sends a welcome email after registration
func (s *Sender) SendWelcome(to, username string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Welcome to Task Service"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your account has been created.\n"+
			"You can now create and track your tasks.\n",
		username,
	)
	body += "\nBest regards,\nTask Service"
	e.Text = []byte(body)

	return s.send(e)
}

// SendTaskDigest sends a digest of tasks that are still in process
func (s *Sender) SendTaskDigest(to, username string, open []models.Task) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("You have %d open tasks", len(open))

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"The following tasks are still in process:\n\n",
		username,
	)
	for _, task := range open {
		if task.Name != "" {
			body += fmt.Sprintf("  - %s: %s\n", task.Name, task.Description)
		} else {
			body += fmt.Sprintf("  - %s\n", task.Description)
		}
	}
	body += "\nBest regards,\nTask Service"
	e.Text = []byte(body)

	return s.send(e)
}

func (s *Sender) send(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %v: %v", e.To, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %v: %s", e.To, e.Subject)
	return nil
}
