package identity

import (
	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/shared"
)

// Event type constants
const (
	EventUserRegistered      = "identity.user.registered"
	EventOrganizationCreated = "identity.organization.created"
	EventMemberJoined        = "identity.member.joined"
	EventMemberRemoved       = "identity.member.removed"
)

// UserRegisteredEvent is raised when a new user account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserRegistered, "User", user.ID, uuid.Nil),
		Email:           user.Email,
	}
}

// OrganizationCreatedEvent is raised when an organization is created
type OrganizationCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewOrganizationCreatedEvent creates an OrganizationCreatedEvent
func NewOrganizationCreatedEvent(org *Organization) *OrganizationCreatedEvent {
	return &OrganizationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrganizationCreated, "Organization", org.ID, org.ID),
		Name:            org.Name,
	}
}
