package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates user with valid inputs", func(t *testing.T) {
		user, err := NewUser("Budi@Example.com", "Budi Santoso", "rahasia123")
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "budi@example.com", user.Email)
		assert.Equal(t, "Budi Santoso", user.Name)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.NotEmpty(t, user.PasswordHash)
		assert.NotEqual(t, "rahasia123", user.PasswordHash)
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		tests := []string{"", "not-an-email", "a@b", "@example.com"}
		for _, email := range tests {
			_, err := NewUser(email, "Budi", "rahasia123")
			assert.Error(t, err, "email %q should be rejected", email)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("budi@example.com", "Budi", "pendek")
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewUser("budi@example.com", "  ", "rahasia123")
		assert.Error(t, err)
	})
}

func TestNewGoogleUser(t *testing.T) {
	t.Run("creates user without password credential", func(t *testing.T) {
		user, err := NewGoogleUser("siti@example.com", "Siti", "google-sub-123")
		require.NoError(t, err)

		assert.Empty(t, user.PasswordHash)
		assert.Equal(t, "google-sub-123", user.GoogleID)
		assert.False(t, user.CheckPassword("anything"))
	})

	t.Run("requires google id", func(t *testing.T) {
		_, err := NewGoogleUser("siti@example.com", "Siti", "")
		assert.Error(t, err)
	})
}

func TestUser_CheckPassword(t *testing.T) {
	user, err := NewUser("budi@example.com", "Budi", "rahasia123")
	require.NoError(t, err)

	assert.True(t, user.CheckPassword("rahasia123"))
	assert.False(t, user.CheckPassword("salah"))
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("budi@example.com", "Budi", "rahasia123")
	require.NoError(t, err)

	require.NoError(t, user.ChangePassword("rahasiabaru"))
	assert.True(t, user.CheckPassword("rahasiabaru"))
	assert.False(t, user.CheckPassword("rahasia123"))

	assert.Error(t, user.ChangePassword("x"))
}

func TestUser_RecordLogin(t *testing.T) {
	user, err := NewUser("budi@example.com", "Budi", "rahasia123")
	require.NoError(t, err)
	require.Nil(t, user.LastLoginAt)

	now := time.Now()
	user.RecordLogin(now)
	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, now, *user.LastLoginAt)
}

func TestUser_Deactivate(t *testing.T) {
	user, err := NewUser("budi@example.com", "Budi", "rahasia123")
	require.NoError(t, err)

	require.NoError(t, user.Deactivate())
	assert.False(t, user.IsActive())
	assert.Error(t, user.Deactivate())
}
