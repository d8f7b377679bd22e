// Package identity holds the application services for accounts, organizations,
// membership and invitations.
package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/invois/backend/internal/domain/identity"
)

// RegisterInput registers a new account with a password credential
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput authenticates with email and password
type LoginInput struct {
	Email    string
	Password string
}

// GoogleLoginInput authenticates with a Google ID token
type GoogleLoginInput struct {
	IDToken string
}

// UserInfo is the profile shape returned to clients
type UserInfo struct {
	ID             uuid.UUID      `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	AvatarFileID   string         `json:"avatar_file_id,omitempty"`
	HasGoogle      bool           `json:"has_google"`
	OrganizationID *uuid.UUID     `json:"organization_id,omitempty"`
	Role           *identity.Role `json:"role,omitempty"`
}

// AuthResult carries the session tokens and the signed-in user's profile
type AuthResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// TokenResult carries a refreshed token pair
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UpdateProfileInput edits the caller's own profile
type UpdateProfileInput struct {
	Name         string
	AvatarFileID string
}

// ChangePasswordInput rotates the caller's password credential
type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

// UpdateOrganizationInput edits the organization profile
type UpdateOrganizationInput struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// SetPrefixesInput overrides document number prefixes; empty values fall back
// to the system defaults
type SetPrefixesInput struct {
	Invoice       string
	PurchaseOrder string
	Receipt       string
}

// SetSMTPInput stores the organization's outbound mail credentials
type SetSMTPInput struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SetBrandingInput stores the opaque storage keys of uploaded branding assets
type SetBrandingInput struct {
	LogoFileID      string
	SignatureFileID string
	StampFileID     string
}

// UploadURLResult is a presigned upload slot for a branding asset or avatar
type UploadURLResult struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// OrganizationResult is the organization profile plus resolved asset URLs
type OrganizationResult struct {
	Organization *identity.Organization `json:"organization"`
	LogoURL      string                 `json:"logo_url,omitempty"`
	SignatureURL string                 `json:"signature_url,omitempty"`
	StampURL     string                 `json:"stamp_url,omitempty"`
}

// MemberInfo is a membership row joined with the user profile
type MemberInfo struct {
	UserID   uuid.UUID     `json:"user_id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Role     identity.Role `json:"role"`
	JoinedAt time.Time     `json:"joined_at"`
}

// InviteInput invites an email address into the caller's organization
type InviteInput struct {
	Email string
	Role  identity.Role
}

// InvitationInfo is a pending invitation as shown to admins
type InvitationInfo struct {
	ID        uuid.UUID     `json:"id"`
	Email     string        `json:"email"`
	Role      identity.Role `json:"role"`
	ExpiresAt time.Time     `json:"expires_at"`
	CreatedAt time.Time     `json:"created_at"`
}
