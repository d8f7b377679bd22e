package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appidentity "github.com/invois/backend/internal/application/identity"
	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/interfaces/http/middleware"
)

// MemberHandler serves organization membership management
type MemberHandler struct {
	BaseHandler
	members     *appidentity.MemberService
	invitations *appidentity.InvitationService
}

// NewMemberHandler creates a member handler
func NewMemberHandler(members *appidentity.MemberService, invitations *appidentity.InvitationService, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{BaseHandler: NewBaseHandler(logger), members: members, invitations: invitations}
}

// List returns every member of the organization with their profile
func (h *MemberHandler) List(c *gin.Context) {
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	members, err := h.members.List(c.Request.Context(), authCtx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, members)
}

type changeRoleRequest struct {
	Role identity.Role `json:"role" binding:"required,oneof=admin member"`
}

// ChangeRole promotes or demotes a member. The owner role is immutable.
func (h *MemberHandler) ChangeRole(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Peran harus admin atau member")
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.members.ChangeRole(c.Request.Context(), authCtx, idReq.ID, req.Role); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Remove removes a member from the organization
func (h *MemberHandler) Remove(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.members.Remove(c.Request.Context(), authCtx, idReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type inviteRequest struct {
	Email string        `json:"email" binding:"required,email"`
	Role  identity.Role `json:"role" binding:"required,oneof=admin member"`
}

// Invite sends an invitation mail to join the organization
func (h *MemberHandler) Invite(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Email dan peran (admin atau member) wajib diisi")
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	invitation, err := h.invitations.Invite(c.Request.Context(), authCtx, appidentity.InviteInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invitation)
}

// ListInvitations returns the organization's pending invitations
func (h *MemberHandler) ListInvitations(c *gin.Context) {
	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	invitations, err := h.invitations.ListPending(c.Request.Context(), authCtx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invitations)
}

// RevokeInvitation withdraws a pending invitation
func (h *MemberHandler) RevokeInvitation(c *gin.Context) {
	idReq, ok := h.bindID(c)
	if !ok {
		return
	}

	authCtx, ok := h.authContext(c)
	if !ok {
		return
	}

	if err := h.invitations.Revoke(c.Request.Context(), authCtx, idReq.ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type acceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

// AcceptInvitation joins the caller to the inviting organization. Only needs
// a session, not an existing membership.
func (h *MemberHandler) AcceptInvitation(c *gin.Context) {
	var req acceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Token undangan wajib diisi")
		return
	}

	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	member, err := h.invitations.Accept(c.Request.Context(), userID, req.Token)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

func (h *MemberHandler) currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthenticated)
	}
	return userID, ok
}

// RegisterProtectedRoutes mounts invitation acceptance, which works without a
// membership
func (h *MemberHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/invitations/accept", h.AcceptInvitation)
}

// RegisterScopedRoutes mounts the membership management endpoints
func (h *MemberHandler) RegisterScopedRoutes(rg *gin.RouterGroup) {
	rg.GET("/members", h.List)
	rg.PUT("/members/:id/role", h.ChangeRole)
	rg.DELETE("/members/:id", h.Remove)
	rg.POST("/invitations", h.Invite)
	rg.GET("/invitations", h.ListInvitations)
	rg.DELETE("/invitations/:id", h.RevokeInvitation)
}
