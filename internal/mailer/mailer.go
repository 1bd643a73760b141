package mailer

import (
	"fmt"
	"net/smtp"

	"trainhub/training-app/internal/config"

	"github.com/sirupsen/logrus"
)

// Mailer sends plain-text mail over SMTP. Report mails carry a link to a
// persisted report rather than the report data itself; templating beyond
// that is deliberately out of scope.
type Mailer struct {
	cfg config.MailConfig
	log *logrus.Entry

	// send is swappable in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer creates a new SMTP mailer.
func NewMailer(cfg config.MailConfig) *Mailer {
	return &Mailer{
		cfg:  cfg,
		log:  logrus.WithField("component", "mailer"),
		send: smtp.SendMail,
	}
}

// SendReportLink mails a progress-report link to a client.
func (m *Mailer) SendReportLink(toEmail, toName, reportURL string) error {
	subject := "Your monthly training report"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour training progress report is ready:\r\n\r\n%s\r\n\r\nKeep it up!\r\n",
		toName, reportURL,
	)
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.cfg.From, toEmail, subject, body,
	))

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{toEmail}, msg); err != nil {
		m.log.WithError(err).WithField("to", toEmail).Error("failed to send report mail")
		return err
	}
	m.log.WithField("to", toEmail).Info("report mail sent")
	return nil
}
