package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/infrastructure/config"
)

func TestBuildMessage_PlainText(t *testing.T) {
	settings := identity.SMTPSettings{
		Host:        "smtp.example.com",
		Port:        587,
		FromAddress: "billing@example.com",
		FromName:    "PT Contoh",
	}
	msg := Message{
		To:      "budi@example.com",
		Subject: "Faktur INV-2025-0001",
		Body:    "Terlampir faktur Anda.",
	}

	raw := string(buildMessage(settings, msg))

	assert.Contains(t, raw, "To: budi@example.com")
	assert.Contains(t, raw, "billing@example.com")
	assert.Contains(t, raw, "Terlampir faktur Anda.")
	assert.Contains(t, raw, "Content-Type: text/plain")
	assert.NotContains(t, raw, "multipart/mixed")
}

func TestBuildMessage_WithAttachment(t *testing.T) {
	settings := identity.SMTPSettings{
		Host:        "smtp.example.com",
		Port:        587,
		FromAddress: "billing@example.com",
	}
	msg := Message{
		To:             "budi@example.com",
		Subject:        "Faktur INV-2025-0001",
		Body:           "Terlampir faktur Anda.",
		AttachmentName: "INV-2025-0001.pdf",
		Attachment:     []byte("%PDF-1.4 fake"),
	}

	raw := string(buildMessage(settings, msg))

	assert.Contains(t, raw, "multipart/mixed")
	assert.Contains(t, raw, `Content-Type: application/pdf; name="INV-2025-0001.pdf"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
	assert.Contains(t, raw, `filename="INV-2025-0001.pdf"`)
}

func TestBuildMessage_Base64LineLength(t *testing.T) {
	settings := identity.SMTPSettings{
		Host:        "smtp.example.com",
		Port:        587,
		FromAddress: "billing@example.com",
	}
	msg := Message{
		To:             "budi@example.com",
		Subject:        "x",
		AttachmentName: "doc.pdf",
		Attachment:     make([]byte, 1000),
	}

	raw := string(buildMessage(settings, msg))

	inAttachment := false
	for _, line := range strings.Split(raw, "\r\n") {
		if strings.HasPrefix(line, "Content-Transfer-Encoding") {
			inAttachment = true
			continue
		}
		if inAttachment && strings.HasPrefix(line, "--") {
			break
		}
		if inAttachment {
			assert.LessOrEqual(t, len(line), 76)
		}
	}
}

func TestSMTPMailer_NoRelayConfigured(t *testing.T) {
	mailer := NewSMTPMailer(config.MailConfig{})

	err := mailer.Send(context.Background(), identity.SMTPSettings{}, Message{To: "a@b.com"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no SMTP relay")
}

func TestMemoryMailer_Records(t *testing.T) {
	mailer := NewMemoryMailer()

	err := mailer.Send(context.Background(), identity.SMTPSettings{Host: "h", Port: 25, FromAddress: "f@x.com"}, Message{To: "budi@example.com", Subject: "s"})

	assert.NoError(t, err)
	sent := mailer.Sent()
	assert.Len(t, sent, 1)
	assert.Equal(t, "budi@example.com", sent[0].Message.To)
}
