package identity

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/shared"
)

// Default validity window for an invitation
const invitationTTL = 7 * 24 * time.Hour

// Invitation invites an email address into an organization with a role.
// Accepting an invitation replaces the invitee's existing membership, which
// is how the one-organization-per-user invariant is maintained.
type Invitation struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Email          string     `gorm:"type:varchar(200);not null;index"`
	Role           Role       `gorm:"type:varchar(20);not null"`
	Token          string     `gorm:"type:varchar(64);not null;uniqueIndex"`
	InvitedBy      uuid.UUID  `gorm:"type:uuid;not null"`
	ExpiresAt      time.Time  `gorm:"not null"`
	AcceptedAt     *time.Time
	CreatedAt      time.Time
}

// TableName returns the table name for GORM
func (Invitation) TableName() string {
	return "organization_invitations"
}

// NewInvitation creates a pending invitation with a random token
func NewInvitation(organizationID, invitedBy uuid.UUID, email string, role Role) (*Invitation, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if err := validateUserEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() || role == RoleOwner {
		return nil, shared.NewDomainError("INVALID_ROLE", "Undangan hanya untuk peran admin atau member")
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, shared.NewDomainError("TOKEN_ERROR", "Gagal membuat token undangan")
	}

	return &Invitation{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Role:           role,
		Token:          hex.EncodeToString(buf),
		InvitedBy:      invitedBy,
		ExpiresAt:      time.Now().Add(invitationTTL),
		CreatedAt:      time.Now(),
	}, nil
}

// IsExpired returns true when the invitation can no longer be accepted
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsAccepted returns true when the invitation has been used
func (i *Invitation) IsAccepted() bool {
	return i.AcceptedAt != nil
}

// Accept marks the invitation as used. Fails if expired or already accepted.
func (i *Invitation) Accept() error {
	if i.IsAccepted() {
		return shared.NewDomainError("ALREADY_ACCEPTED", "Undangan sudah digunakan")
	}
	if i.IsExpired() {
		return shared.NewDomainError("INVITATION_EXPIRED", "Undangan sudah kedaluwarsa")
	}
	now := time.Now()
	i.AcceptedAt = &now
	return nil
}
