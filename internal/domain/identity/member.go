package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/shared"
)

// Role is the membership role within an organization
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsAtLeastAdmin returns true for owner and admin
func (r Role) IsAtLeastAdmin() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Member links a user to an organization with a role.
// Invariant: a user belongs to at most one organization at a time; invitation
// acceptance replaces any prior membership in the same transaction.
type Member struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Role           Role      `gorm:"type:varchar(20);not null"`
	JoinedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Member) TableName() string {
	return "organization_members"
}

// NewMember creates a membership record
func NewMember(organizationID, userID uuid.UUID, role Role) (*Member, error) {
	if organizationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Peran tidak dikenal")
	}

	return &Member{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now(),
	}, nil
}

// NewOwnerMember creates the founding membership for an organization creator
func NewOwnerMember(organizationID, userID uuid.UUID) (*Member, error) {
	return NewMember(organizationID, userID, RoleOwner)
}

// ChangeRole mutates the membership role. The owner role is immutable and no
// member can be promoted to owner; ownership does not transfer.
func (m *Member) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Peran tidak dikenal")
	}
	if m.Role == RoleOwner {
		return shared.NewDomainError("OWNER_IMMUTABLE", "Peran pemilik tidak dapat diubah")
	}
	if role == RoleOwner {
		return shared.NewDomainError("OWNER_IMMUTABLE", "Tidak dapat mempromosikan anggota menjadi pemilik")
	}
	m.Role = role
	return nil
}
