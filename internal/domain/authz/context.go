// Package authz centralizes every authorization decision in one policy
// function, instead of scattering role checks across handlers.
//
// The AuthContext is resolved once at the HTTP edge (JWT middleware plus a
// membership lookup) and passed explicitly through every service boundary;
// nothing deeper in the call stack re-derives it.
package authz

import (
	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/identity"
)

// AuthContext is the resolved identity of a request: who is calling, which
// organization they act for, and with what role.
type AuthContext struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           identity.Role
}

// NewAuthContext builds an AuthContext from a membership
func NewAuthContext(member *identity.Member) AuthContext {
	return AuthContext{
		UserID:         member.UserID,
		OrganizationID: member.OrganizationID,
		Role:           member.Role,
	}
}

// IsZero reports whether the context is unresolved
func (c AuthContext) IsZero() bool {
	return c.UserID == uuid.Nil
}
