package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appidentity "github.com/invois/backend/internal/application/identity"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves registration, login and session management
type AuthHandler struct {
	BaseHandler
	auth *appidentity.AuthService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(auth *appidentity.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{BaseHandler: NewBaseHandler(logger), auth: auth}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// Register creates a new account and signs it in
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Nama, email dan kata sandi (minimal 8 karakter) wajib diisi")
		return
	}

	result, err := h.auth.Register(c.Request.Context(), appidentity.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates with email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Email dan kata sandi wajib diisi")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), appidentity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type googleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleLogin authenticates with a Google ID token, provisioning an account
// on first sign-in
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Token Google wajib diisi")
		return
	}

	result, err := h.auth.GoogleLogin(c.Request.Context(), appidentity.GoogleLoginInput{IDToken: req.IDToken})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates the token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Refresh token wajib diisi")
		return
	}

	result, err := h.auth.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the current session's tokens
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	// Body is optional; without a refresh token only the access token is revoked
	_ = c.ShouldBindJSON(&req)

	claims, ok := middleware.GetClaims(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthenticated)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me returns the signed-in user's profile and organization context
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthenticated)
		return
	}

	info, err := h.auth.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

type updateProfileRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	AvatarFileID string `json:"avatar_file_id" binding:"omitempty,max=255"`
}

// UpdateProfile edits the caller's own profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Nama wajib diisi")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthenticated)
		return
	}

	info, err := h.auth.UpdateProfile(c.Request.Context(), userID, appidentity.UpdateProfileInput{
		Name:         req.Name,
		AvatarFileID: req.AvatarFileID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

// ChangePassword rotates the password and signs out every other session
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Kata sandi lama dan baru (minimal 8 karakter) wajib diisi")
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthenticated)
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), userID, appidentity.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterPublicRoutes mounts the unauthenticated auth endpoints
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/google", h.GoogleLogin)
	rg.POST("/auth/refresh", h.Refresh)
}

// RegisterProtectedRoutes mounts the session endpoints that need a valid token
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/me", h.Me)
	rg.PUT("/auth/me", h.UpdateProfile)
	rg.PUT("/auth/password", h.ChangePassword)
}
