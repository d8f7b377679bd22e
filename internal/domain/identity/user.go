package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/invois/backend/internal/domain/shared"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a person who can sign in. Users are global: organization
// membership is modelled separately so a user can move between organizations
// without losing their account.
type User struct {
	shared.BaseAggregateRoot
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(100)"`
	Name         string     `gorm:"type:varchar(200);not null"`
	AvatarFileID string     `gorm:"type:varchar(200)"` // object storage key, opaque
	GoogleID     string     `gorm:"type:varchar(100);index"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user with a password credential
func NewUser(email, name, password string) (*User, error) {
	if err := validateUserEmail(email); err != nil {
		return nil, err
	}
	if err := validateUserName(name); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Gagal memproses kata sandi")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      string(hash),
		Name:              strings.TrimSpace(name),
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// NewGoogleUser creates a user provisioned through Google OAuth.
// No password credential is stored; the external identity is the credential.
func NewGoogleUser(email, name, googleID string) (*User, error) {
	if err := validateUserEmail(email); err != nil {
		return nil, err
	}
	if err := validateUserName(name); err != nil {
		return nil, err
	}
	if googleID == "" {
		return nil, shared.NewDomainError("INVALID_GOOGLE_ID", "Google ID cannot be empty")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		Name:              strings.TrimSpace(name),
		GoogleID:          googleID,
		Status:            UserStatusActive,
	}

	user.AddDomainEvent(NewUserRegisteredEvent(user))

	return user, nil
}

// CheckPassword verifies the given password against the stored hash
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password credential
func (u *User) ChangePassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Gagal memproses kata sandi")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	u.IncrementVersion()
	return nil
}

// SetName sets the user's display name
func (u *User) SetName(name string) error {
	if err := validateUserName(name); err != nil {
		return err
	}
	u.Name = strings.TrimSpace(name)
	u.Touch()
	u.IncrementVersion()
	return nil
}

// SetAvatarFileID sets the opaque storage key of the profile image
func (u *User) SetAvatarFileID(fileID string) {
	u.AvatarFileID = fileID
	u.Touch()
	u.IncrementVersion()
}

// LinkGoogle attaches a Google identity to an existing account
func (u *User) LinkGoogle(googleID string) error {
	if googleID == "" {
		return shared.NewDomainError("INVALID_GOOGLE_ID", "Google ID cannot be empty")
	}
	u.GoogleID = googleID
	u.Touch()
	u.IncrementVersion()
	return nil
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
}

// IsActive returns true when the account can sign in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// Deactivate disables the account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.ErrInvalidState
	}
	u.Status = UserStatusDeactivated
	u.Touch()
	u.IncrementVersion()
	return nil
}

func validateUserEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email tidak boleh kosong")
	}
	if len(email) > 200 || !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Format email tidak valid")
	}
	return nil
}

func validateUserName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Nama tidak boleh kosong")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Nama tidak boleh melebihi 200 karakter")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Kata sandi minimal 8 karakter")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Kata sandi maksimal 72 karakter")
	}
	return nil
}
