package authz

import (
	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
)

// Action is something a caller wants to do to a resource
type Action string

const (
	ActionView          Action = "view"
	ActionCreate        Action = "create"
	ActionEdit          Action = "edit"
	ActionDelete        Action = "delete"
	ActionRestore       Action = "restore"
	ActionSend          Action = "send"
	ActionManageOrg     Action = "manage_org"
	ActionManageMembers Action = "manage_members"
)

// Resource describes the target of an action. For organization-level actions
// CreatedBy is left as uuid.Nil.
type Resource struct {
	OrganizationID uuid.UUID
	CreatedBy      uuid.UUID
}

// Decide is the single policy function: it returns nil when ctx may perform
// action on resource, or the domain error explaining the denial.
//
// Rules:
//   - a resource belonging to another organization is always CrossTenant;
//   - owner and admin may do anything within their organization;
//   - member may create, view, and mutate only documents they created;
//   - org and member management require owner or admin.
func Decide(action Action, resource Resource, ctx AuthContext) error {
	if ctx.IsZero() {
		return shared.ErrUnauthenticated
	}
	if resource.OrganizationID != uuid.Nil && resource.OrganizationID != ctx.OrganizationID {
		return shared.ErrCrossTenant
	}

	switch action {
	case ActionView, ActionCreate:
		return nil
	case ActionEdit, ActionDelete, ActionRestore, ActionSend:
		if ctx.Role.IsAtLeastAdmin() {
			return nil
		}
		if resource.CreatedBy == ctx.UserID {
			return nil
		}
		return shared.ErrForbidden
	case ActionManageOrg, ActionManageMembers:
		if ctx.Role.IsAtLeastAdmin() {
			return nil
		}
		return shared.ErrForbidden
	}

	return shared.ErrForbidden
}

// DecideMembershipChange gates role changes and removals of other members.
// The rules mirror Decide but depend on the target's role as well:
//   - the owner can never be modified or removed;
//   - an admin cannot touch another admin (or the owner);
//   - only the owner can demote or remove an admin;
//   - nobody may remove themself.
func DecideMembershipChange(ctx AuthContext, target *identity.Member) error {
	if err := Decide(ActionManageMembers, Resource{OrganizationID: target.OrganizationID}, ctx); err != nil {
		return err
	}
	if target.UserID == ctx.UserID {
		return shared.NewDomainError("SELF_REMOVAL", "Anda tidak dapat menghapus diri sendiri dari organisasi")
	}
	if target.Role == identity.RoleOwner {
		return shared.NewDomainError("OWNER_IMMUTABLE", "Pemilik organisasi tidak dapat diubah atau dihapus")
	}
	if target.Role == identity.RoleAdmin && ctx.Role != identity.RoleOwner {
		return shared.ErrForbidden
	}
	return nil
}
