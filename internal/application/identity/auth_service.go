package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/invois/backend/internal/domain/identity"
	"github.com/invois/backend/internal/domain/shared"
	"github.com/invois/backend/internal/infrastructure/auth"
)

// AuthService handles registration, sign-in and session lifecycle.
// Tokens identify the user only; organization context is resolved per request
// from the membership table, never baked into the token.
type AuthService struct {
	users     identity.UserRepository
	members   identity.MemberRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	google    auth.GoogleVerifier
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	users identity.UserRepository,
	members identity.MemberRepository,
	jwt *auth.JWTService,
	blacklist auth.TokenBlacklist,
	google auth.GoogleVerifier,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		members:   members,
		jwt:       jwt,
		blacklist: blacklist,
		google:    google,
		logger:    logger,
	}
}

// Register creates an account with a password credential and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Pendaftaran gagal, coba lagi")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email sudah terdaftar")
	}

	user, err := identity.NewUser(input.Email, input.Name, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save new user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Pendaftaran gagal, coba lagi")
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return s.issueSession(ctx, user)
}

// Login authenticates with email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		s.logger.Warn("Login for unknown email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Email atau kata sandi salah")
	}
	if !user.IsActive() {
		s.logger.Warn("Login for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Akun Anda telah dinonaktifkan")
	}
	if !user.CheckPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Email atau kata sandi salah")
	}

	user.RecordLogin(time.Now())
	if err := s.users.Save(ctx, user); err != nil {
		// Login still succeeds; only the timestamp is lost
		s.logger.Error("Failed to record login time", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issueSession(ctx, user)
}

// GoogleLogin verifies a Google ID token, provisioning or linking the account
// as needed, and signs the user in
func (s *AuthService) GoogleLogin(ctx context.Context, input GoogleLoginInput) (*AuthResult, error) {
	gid, err := s.google.Verify(ctx, input.IDToken)
	if err != nil {
		if errors.Is(err, auth.ErrGoogleTokenInvalid) {
			return nil, shared.NewDomainError("INVALID_GOOGLE_TOKEN", "Token Google tidak valid")
		}
		s.logger.Error("Google token verification failed", zap.Error(err))
		return nil, shared.ErrExternalService
	}

	user, err := s.users.FindByGoogleID(ctx, gid.GoogleID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to look up Google identity", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Login gagal, coba lagi")
		}
		user, err = s.findOrProvisionGoogleUser(ctx, gid)
		if err != nil {
			return nil, err
		}
	}

	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Akun Anda telah dinonaktifkan")
	}

	user.RecordLogin(time.Now())
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login time", zap.Error(err))
	}

	s.logger.Info("User logged in via Google", zap.String("user_id", user.ID.String()))
	return s.issueSession(ctx, user)
}

// findOrProvisionGoogleUser links the Google identity to an existing account
// with the same email, or creates a fresh account
func (s *AuthService) findOrProvisionGoogleUser(ctx context.Context, gid *auth.GoogleIdentity) (*identity.User, error) {
	user, err := s.users.FindByEmail(ctx, gid.Email)
	if err == nil {
		if linkErr := user.LinkGoogle(gid.GoogleID); linkErr != nil {
			return nil, linkErr
		}
		if saveErr := s.users.Save(ctx, user); saveErr != nil {
			s.logger.Error("Failed to link Google identity", zap.Error(saveErr))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Login gagal, coba lagi")
		}
		return user, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to look up email for Google login", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Login gagal, coba lagi")
	}

	name := gid.Name
	if name == "" {
		name = gid.Email
	}
	user, err = identity.NewGoogleUser(gid.Email, name, gid.GoogleID)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to provision Google user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Login gagal, coba lagi")
	}

	s.logger.Info("User provisioned via Google",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))
	return user, nil
}

// RefreshToken issues a fresh token pair from a valid, unrevoked refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Failed to check token revocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memperbarui sesi")
	}
	if revoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Sesi telah berakhir, silakan login kembali")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Token tidak valid")
	}

	userRevoked, err := s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Error("Failed to check user revocation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal memperbarui sesi")
	}
	if userRevoked {
		return nil, shared.NewDomainError("TOKEN_REVOKED", "Sesi telah berakhir, silakan login kembali")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Token tidak valid")
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Akun Anda telah dinonaktifkan")
	}

	pair, err := s.jwt.RefreshTokenPair(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	// The old refresh token is single-use
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke rotated refresh token", zap.Error(err))
	}

	return &TokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout revokes the current access token and, when provided, the refresh
// token, for their remaining lifetimes
func (s *AuthService) Logout(ctx context.Context, accessClaims *auth.Claims, refreshToken string) error {
	if accessClaims != nil {
		if err := s.blacklist.Revoke(ctx, accessClaims.ID, accessClaims.GetRemainingTTL()); err != nil {
			s.logger.Error("Failed to revoke access token", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Logout gagal")
		}
	}
	if refreshToken != "" {
		if claims, err := s.jwt.ValidateRefreshToken(refreshToken); err == nil {
			if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				s.logger.Error("Failed to revoke refresh token", zap.Error(err))
			}
		}
	}
	return nil
}

// GetCurrentUser returns the caller's profile with their membership, if any
func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	info := s.userInfo(ctx, user)
	return &info, nil
}

// UpdateProfile edits the caller's own name and avatar
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := user.SetName(input.Name); err != nil {
		return nil, err
	}
	user.SetAvatarFileID(input.AvatarFileID)

	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal menyimpan profil")
	}

	info := s.userInfo(ctx, user)
	return &info, nil
}

// ChangePassword rotates the caller's password and signs out all other
// sessions
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return shared.ErrNotFound
	}
	if !user.CheckPassword(input.CurrentPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Kata sandi saat ini salah")
	}
	if err := user.ChangePassword(input.NewPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("Failed to change password", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Gagal mengganti kata sandi")
	}

	ttl := s.jwt.GetRefreshTokenExpiration()
	if err := s.blacklist.RevokeAllForUser(ctx, userID.String(), ttl); err != nil {
		s.logger.Error("Failed to revoke sessions after password change", zap.Error(err))
	}

	return nil
}

func (s *AuthService) issueSession(ctx context.Context, user *identity.User) (*AuthResult, error) {
	pair, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Gagal membuat sesi")
	}

	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  s.userInfo(ctx, user),
	}, nil
}

func (s *AuthService) userInfo(ctx context.Context, user *identity.User) UserInfo {
	info := UserInfo{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		AvatarFileID: user.AvatarFileID,
		HasGoogle:    user.GoogleID != "",
	}

	member, err := s.members.FindByUser(ctx, user.ID)
	if err == nil {
		info.OrganizationID = &member.OrganizationID
		info.Role = &member.Role
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to resolve membership", zap.Error(err))
	}

	return info
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Sesi telah berakhir, silakan login kembali")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Sesi telah mencapai batas perpanjangan, silakan login kembali")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Token tidak valid")
	}
}
