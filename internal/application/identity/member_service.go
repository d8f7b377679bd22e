package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
)

// MemberService manages the organization's member roster
type MemberService struct {
	members identity.MemberRepository
	users   identity.UserRepository
	logger  *zap.Logger
}

// NewMemberService creates a new member service
func NewMemberService(
	members identity.MemberRepository,
	users identity.UserRepository,
	logger *zap.Logger,
) *MemberService {
	return &MemberService{
		members: members,
		users:   users,
		logger:  logger,
	}
}

// List returns every member of the caller's organization with their profile.
// Any member may view the roster.
func (s *MemberService) List(ctx context.Context, authCtx authz.AuthContext) ([]MemberInfo, error) {
	if err := authz.Decide(authz.ActionView, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	members, err := s.members.FindAllForOrg(ctx, authCtx.OrganizationID)
	if err != nil {
		s.logger.Error("Failed to list members", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat daftar anggota")
	}

	infos := make([]MemberInfo, 0, len(members))
	for _, member := range members {
		info := MemberInfo{
			UserID:   member.UserID,
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
		}
		if user, err := s.users.FindByID(ctx, member.UserID); err == nil {
			info.Name = user.Name
			info.Email = user.Email
		}
		infos = append(infos, info)
	}

	return infos, nil
}

// ChangeRole changes another member's role. The owner role never changes
// hands; admins cannot touch other admins.
func (s *MemberService) ChangeRole(ctx context.Context, authCtx authz.AuthContext, targetUserID uuid.UUID, role identity.Role) error {
	target, err := s.members.FindByOrgAndUser(ctx, authCtx.OrganizationID, targetUserID)
	if err != nil {
		return shared.ErrNotFound
	}
	if err := authz.DecideMembershipChange(authCtx, target); err != nil {
		return err
	}
	if err := target.ChangeRole(role); err != nil {
		return err
	}
	if err := s.members.Save(ctx, target); err != nil {
		s.logger.Error("Failed to save role change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal mengubah peran")
	}

	s.logger.Info("Member role changed",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("target_user_id", targetUserID.String()),
		zap.String("role", role.String()),
		zap.String("changed_by", authCtx.UserID.String()))

	return nil
}

// Remove removes a member from the organization. Their documents stay; only
// the membership row goes.
func (s *MemberService) Remove(ctx context.Context, authCtx authz.AuthContext, targetUserID uuid.UUID) error {
	target, err := s.members.FindByOrgAndUser(ctx, authCtx.OrganizationID, targetUserID)
	if err != nil {
		return shared.ErrNotFound
	}
	if err := authz.DecideMembershipChange(authCtx, target); err != nil {
		return err
	}
	if err := s.members.Delete(ctx, target.ID); err != nil {
		s.logger.Error("Failed to remove member", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal menghapus anggota")
	}

	s.logger.Info("Member removed",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("target_user_id", targetUserID.String()),
		zap.String("removed_by", authCtx.UserID.String()))

	return nil
}
