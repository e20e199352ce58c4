package notifier

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"internscout/internal/config"
	"internscout/internal/model"
	"internscout/internal/report"
)

var _ model.Notifier = (*EmailNotifier)(nil)

// EmailNotifier sends the role-grouped HTML report over SMTP. Credentials
// come from the config, which normally expands them from a .env file.
type EmailNotifier struct {
	cfg    config.EmailConfig
	logger *slog.Logger
	send   func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
	now    func() time.Time
}

// NewEmailNotifier returns a notifier delivering reports via SMTP.
func NewEmailNotifier(cfg config.EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
		now:    time.Now,
	}
}

// Notify renders the result and emails it. Empty results are skipped: no
// listings, no mail.
func (n *EmailNotifier) Notify(result model.RunResult) error {
	total := result.Total()
	if total == 0 {
		n.logger.Info("no new listings, skipping email")
		return nil
	}

	msg, err := n.buildMessage(result)
	if err != nil {
		return err
	}

	port := n.cfg.SMTPPort
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, port)
	auth := smtp.PlainAuth("", n.cfg.From, n.cfg.Password, n.cfg.SMTPHost)

	if err := n.send(addr, auth, n.cfg.From, []string{n.cfg.To}, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	n.logger.Info("email sent", "to", n.cfg.To, "listings", total)
	return nil
}

func (n *EmailNotifier) buildMessage(result model.RunResult) ([]byte, error) {
	now := n.now()
	body, err := report.RenderHTML(result, now)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("internscout: %d new listings — %s",
		result.Total(), now.Format("Jan 2, 2006"))

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n",
		n.cfg.From, n.cfg.To, subject)
	return []byte(headers + body), nil
}
