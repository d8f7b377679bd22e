// Package mail sends documents to recipients over SMTP. Organizations bring
// their own relay credentials; a system-wide relay is the fallback.
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/infrastructure/config"
)

// Message is one outbound email with an optional PDF attachment
type Message struct {
	To             string
	Subject        string
	Body           string // plain text
	AttachmentName string
	Attachment     []byte // PDF bytes; nil for no attachment
}

// Mailer delivers messages through an organization's relay
type Mailer interface {
	// Send delivers msg using the organization's SMTP settings, falling back
	// to the system relay when the organization has none configured
	Send(ctx context.Context, smtpSettings identity.SMTPSettings, msg Message) error
}

// SMTPMailer implements Mailer over net/smtp with PLAIN auth
type SMTPMailer struct {
	fallback config.MailConfig
}

// NewSMTPMailer creates a mailer with the system relay as fallback
func NewSMTPMailer(fallback config.MailConfig) *SMTPMailer {
	return &SMTPMailer{fallback: fallback}
}

// Ensure SMTPMailer implements Mailer
var _ Mailer = (*SMTPMailer)(nil)

// Send delivers the message. The context deadline bounds the SMTP dial and
// conversation via a goroutine race; net/smtp has no context support itself.
func (m *SMTPMailer) Send(ctx context.Context, smtpSettings identity.SMTPSettings, msg Message) error {
	settings := smtpSettings
	if !settings.IsConfigured() {
		settings = identity.SMTPSettings{
			Host:        m.fallback.Host,
			Port:        m.fallback.Port,
			Username:    m.fallback.Username,
			Password:    m.fallback.Password,
			FromAddress: m.fallback.FromAddress,
			FromName:    m.fallback.FromName,
		}
	}
	if !settings.IsConfigured() {
		return fmt.Errorf("no SMTP relay configured")
	}
	if msg.To == "" {
		return fmt.Errorf("recipient is required")
	}

	payload := buildMessage(settings, msg)
	addr := fmt.Sprintf("%s:%d", settings.Host, settings.Port)

	var auth smtp.Auth
	if settings.Username != "" {
		auth = smtp.PlainAuth("", settings.Username, settings.Password, settings.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, settings.FromAddress, []string{msg.To}, payload)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// buildMessage renders an RFC 5322 message, multipart when an attachment is
// present
func buildMessage(settings identity.SMTPSettings, msg Message) []byte {
	var b strings.Builder

	from := settings.FromAddress
	if settings.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", settings.FromName), settings.FromAddress)
	}

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachment) == 0 {
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.Body)
		return []byte(b.String())
	}

	const boundary = "invois-mail-boundary"
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	fmt.Fprintf(&b, "Content-Type: application/pdf; name=%q\r\n", msg.AttachmentName)
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n", msg.AttachmentName)
	b.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString(msg.Attachment)
	// 76-char lines per RFC 2045
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}
