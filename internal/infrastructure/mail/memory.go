package mail

import (
	"context"
	"sync"

	"github.com/invois/backend/internal/domain/identity"
)

// Ensure MemoryMailer implements Mailer
var _ Mailer = (*MemoryMailer)(nil)

// MemoryMailer records sends instead of delivering them. For tests and
// development.
type MemoryMailer struct {
	mu   sync.Mutex
	sent []RecordedMessage

	// FailWith makes every Send return this error when non-nil
	FailWith error
}

// RecordedMessage is one captured send
type RecordedMessage struct {
	Settings identity.SMTPSettings
	Message  Message
}

// NewMemoryMailer creates an empty recording mailer
func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

// Send records the message
func (m *MemoryMailer) Send(ctx context.Context, smtpSettings identity.SMTPSettings, msg Message) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, RecordedMessage{Settings: smtpSettings, Message: msg})
	return nil
}

// Sent returns a copy of the captured sends
func (m *MemoryMailer) Sent() []RecordedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedMessage, len(m.sent))
	copy(out, m.sent)
	return out
}
