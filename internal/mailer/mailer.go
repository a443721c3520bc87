package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/madatlas/madatlas-be/internal/config"
	"github.com/madatlas/madatlas-be/internal/models"
)

// Mailer sends operator notifications over SMTP. All credentials come from
// configuration; nothing is embedded in the binary.
type Mailer struct {
	host      string
	port      int
	user      string
	password  string
	sender    string
	recipient string
}

// New creates a Mailer from the application configuration.
func New(cfg *config.Config) *Mailer {
	return &Mailer{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		user:      cfg.SMTPUser,
		password:  cfg.SMTPPassword,
		sender:    cfg.EmailSender,
		recipient: cfg.ContactEmail,
	}
}

// Enabled reports whether the mailer has enough configuration to send.
func (m *Mailer) Enabled() bool {
	return m.host != "" && m.recipient != ""
}

// SendContactNotification emails the operator about a new contact message.
func (m *Mailer) SendContactNotification(msg models.ContactMessage) error {
	subject := fmt.Sprintf("[%s] %s", msg.Category, msg.Subject)
	body := fmt.Sprintf(`A new message was received through the contact form:

Name    : %s
Email   : %s
Category: %s
Subject : %s

Message:
%s
`, msg.Name, msg.Email, msg.Category, msg.Subject, msg.Message)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.sender)
	fmt.Fprintf(&b, "To: %s\r\n", m.recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.New().String(), m.host)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.Email)
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	if err := smtp.SendMail(addr, auth, m.sender, []string{m.recipient}, []byte(b.String())); err != nil {
		return fmt.Errorf("failed to send contact notification: %w", err)
	}
	return nil
}
