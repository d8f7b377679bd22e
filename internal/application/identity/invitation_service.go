package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/authz"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/infrastructure/mail"
)

// InvitationService manages inviting users into organizations.
// Accepting an invitation replaces the invitee's prior membership in one
// transaction, which is how the one-organization-per-user rule holds.
type InvitationService struct {
	invitations identity.InvitationRepository
	members     identity.MemberRepository
	users       identity.UserRepository
	orgs        identity.OrganizationRepository
	mailer      mail.Mailer
	appBaseURL  string
	logger      *zap.Logger
}

// NewInvitationService creates a new invitation service. appBaseURL is the
// frontend origin used to build the invitation link.
func NewInvitationService(
	invitations identity.InvitationRepository,
	members identity.MemberRepository,
	users identity.UserRepository,
	orgs identity.OrganizationRepository,
	mailer mail.Mailer,
	appBaseURL string,
	logger *zap.Logger,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		members:     members,
		users:       users,
		orgs:        orgs,
		mailer:      mailer,
		appBaseURL:  strings.TrimRight(appBaseURL, "/"),
		logger:      logger,
	}
}

// Invite creates a pending invitation and emails the link to the invitee.
// Owner or admin only; the email delivery is best-effort.
func (s *InvitationService) Invite(ctx context.Context, authCtx authz.AuthContext, input InviteInput) (*InvitationInfo, error) {
	if err := authz.Decide(authz.ActionManageMembers, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	if user, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		if member, err := s.members.FindByUser(ctx, user.ID); err == nil && member.OrganizationID == authCtx.OrganizationID {
			return nil, shared.NewDomainError("ALREADY_MEMBER", "Pengguna sudah menjadi anggota organisasi ini")
		}
	}

	invitation, err := identity.NewInvitation(authCtx.OrganizationID, authCtx.UserID, input.Email, input.Role)
	if err != nil {
		return nil, err
	}
	if err := s.invitations.Save(ctx, invitation); err != nil {
		s.logger.Error("Failed to save invitation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal membuat undangan")
	}

	s.sendInvitationMail(ctx, invitation)

	s.logger.Info("Invitation created",
		zap.String("organization_id", authCtx.OrganizationID.String()),
		zap.String("email", invitation.Email),
		zap.String("role", invitation.Role.String()))

	return invitationInfo(invitation), nil
}

// ListPending returns the organization's open invitations
func (s *InvitationService) ListPending(ctx context.Context, authCtx authz.AuthContext) ([]InvitationInfo, error) {
	if err := authz.Decide(authz.ActionManageMembers, authz.Resource{OrganizationID: authCtx.OrganizationID}, authCtx); err != nil {
		return nil, err
	}

	invitations, err := s.invitations.FindPendingForOrg(ctx, authCtx.OrganizationID)
	if err != nil {
		s.logger.Error("Failed to list invitations", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memuat undangan")
	}

	infos := make([]InvitationInfo, 0, len(invitations))
	for i := range invitations {
		infos = append(infos, *invitationInfo(&invitations[i]))
	}
	return infos, nil
}

// Revoke withdraws a pending invitation
func (s *InvitationService) Revoke(ctx context.Context, authCtx authz.AuthContext, invitationID uuid.UUID) error {
	invitation, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return shared.ErrNotFound
	}
	if err := authz.Decide(authz.ActionManageMembers, authz.Resource{OrganizationID: invitation.OrganizationID}, authCtx); err != nil {
		return err
	}
	if err := s.invitations.Delete(ctx, invitationID); err != nil {
		s.logger.Error("Failed to revoke invitation", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal membatalkan undangan")
	}
	return nil
}

// Accept redeems an invitation token for the signed-in user. Any existing
// membership is replaced atomically.
func (s *InvitationService) Accept(ctx context.Context, userID uuid.UUID, token string) (*MemberInfo, error) {
	invitation, err := s.invitations.FindByToken(ctx, token)
	if err != nil {
		return nil, shared.NewDomainError("INVITATION_NOT_FOUND", "Undangan tidak ditemukan")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !strings.EqualFold(user.Email, invitation.Email) {
		return nil, shared.NewDomainError("INVITATION_EMAIL_MISMATCH", "Undangan ini ditujukan untuk alamat email lain")
	}

	if err := invitation.Accept(); err != nil {
		return nil, err
	}

	member, err := identity.NewMember(invitation.OrganizationID, userID, invitation.Role)
	if err != nil {
		return nil, err
	}
	if err := s.members.Replace(ctx, member); err != nil {
		s.logger.Error("Failed to replace membership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menerima undangan")
	}
	if err := s.invitations.Save(ctx, invitation); err != nil {
		// Membership landed; the acceptance stamp is best-effort
		s.logger.Error("Failed to stamp invitation acceptance", zap.Error(err))
	}

	s.logger.Info("Invitation accepted",
		zap.String("organization_id", invitation.OrganizationID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", invitation.Role.String()))

	return &MemberInfo{
		UserID:   member.UserID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}, nil
}

func (s *InvitationService) sendInvitationMail(ctx context.Context, invitation *identity.Invitation) {
	org, err := s.orgs.FindByID(ctx, invitation.OrganizationID)
	if err != nil {
		s.logger.Error("Failed to load organization for invitation mail", zap.Error(err))
		return
	}

	link := fmt.Sprintf("%s/invitations/accept?token=%s", s.appBaseURL, invitation.Token)
	msg := mail.Message{
		To:      invitation.Email,
		Subject: fmt.Sprintf("Undangan bergabung ke %s", org.Name),
		Body: fmt.Sprintf(
			"Anda diundang untuk bergabung ke organisasi %s sebagai %s.\r\n\r\n"+
				"Buka tautan berikut untuk menerima undangan:\r\n%s\r\n\r\n"+
				"Undangan berlaku sampai %s.",
			org.Name, invitation.Role, link, invitation.ExpiresAt.Format("2 January 2006")),
	}

	if err := s.mailer.Send(ctx, org.SMTP, msg); err != nil {
		s.logger.Warn("Failed to send invitation mail",
			zap.String("email", invitation.Email),
			zap.Error(err))
	}
}

func invitationInfo(invitation *identity.Invitation) *InvitationInfo {
	return &InvitationInfo{
		ID:        invitation.ID,
		Email:     invitation.Email,
		Role:      invitation.Role,
		ExpiresAt: invitation.ExpiresAt,
		CreatedAt: invitation.CreatedAt,
	}
}
