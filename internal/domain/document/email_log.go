package document

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/numbering"
	"github.com/invois/backend/internal/domain/shared"
)

// EmailStatus is the delivery outcome of one send attempt
type EmailStatus string

const (
	EmailSent   EmailStatus = "sent"
	EmailFailed EmailStatus = "failed"
)

// EmailLog records one attempt to email a document to a recipient
type EmailLog struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID         `gorm:"type:uuid;not null;index"`
	DocumentID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	DocumentType   numbering.DocType `gorm:"type:varchar(30);not null"`
	DocumentNumber string            `gorm:"type:varchar(50);not null"`
	Recipient      string            `gorm:"type:varchar(255);not null"`
	Subject        string            `gorm:"type:varchar(500)"`
	Status         EmailStatus       `gorm:"type:varchar(20);not null"`
	Error          string            `gorm:"type:text"`
	SentBy         uuid.UUID         `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
}

// TableName returns the table name for GORM
func (EmailLog) TableName() string {
	return "email_logs"
}

// NewEmailLog records a successful send
func NewEmailLog(organizationID, documentID uuid.UUID, docType numbering.DocType, number, recipient, subject string, sentBy uuid.UUID) *EmailLog {
	return &EmailLog{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		DocumentID:     documentID,
		DocumentType:   docType,
		DocumentNumber: number,
		Recipient:      recipient,
		Subject:        subject,
		Status:         EmailSent,
		SentBy:         sentBy,
		CreatedAt:      time.Now(),
	}
}

// NewFailedEmailLog records a send attempt that the relay rejected
func NewFailedEmailLog(organizationID, documentID uuid.UUID, docType numbering.DocType, number, recipient, subject string, sentBy uuid.UUID, sendErr error) *EmailLog {
	log := NewEmailLog(organizationID, documentID, docType, number, recipient, subject, sentBy)
	log.Status = EmailFailed
	if sendErr != nil {
		log.Error = sendErr.Error()
	}
	return log
}

// EmailLogRepository handles persistence of email send history
type EmailLogRepository interface {
	Save(ctx context.Context, log *EmailLog) error
	FindByDocument(ctx context.Context, organizationID, documentID uuid.UUID) ([]EmailLog, error)
	List(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (*shared.Paginated[EmailLog], error)
}
