package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository handles persistence of User aggregates
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *User) error
}

// OrganizationRepository handles persistence of Organization aggregates
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	Save(ctx context.Context, org *Organization) error
}

// MemberRepository handles persistence of organization memberships
type MemberRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*Member, error)
	FindByOrgAndUser(ctx context.Context, organizationID, userID uuid.UUID) (*Member, error)
	FindAllForOrg(ctx context.Context, organizationID uuid.UUID) ([]Member, error)
	CountByOrg(ctx context.Context, organizationID uuid.UUID) (int64, error)
	Save(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Replace deletes any existing membership of the user and inserts the new
	// one in a single transaction. This is how the one-organization-per-user
	// invariant is enforced on invitation acceptance.
	Replace(ctx context.Context, member *Member) error
}

// InvitationRepository handles persistence of invitations
type InvitationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	FindPendingForOrg(ctx context.Context, organizationID uuid.UUID) ([]Invitation, error)
	Save(ctx context.Context, invitation *Invitation) error
	Delete(ctx context.Context, id uuid.UUID) error
}
