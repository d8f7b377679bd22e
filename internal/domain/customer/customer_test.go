package customer

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()

	t.Run("valid customer", func(t *testing.T) {
		c, err := NewCustomer(orgID, userID, "  PT Sinar Abadi  ", "billing@sinarabadi.id", "+62811223344", "Jl. Sudirman 12, Jakarta", "")
		require.NoError(t, err)

		assert.Equal(t, "PT Sinar Abadi", c.Name)
		assert.Equal(t, orgID, c.OrganizationID)
		assert.Equal(t, userID, c.CreatedBy)
	})

	t.Run("email is optional", func(t *testing.T) {
		_, err := NewCustomer(orgID, userID, "Warung Bu Tini", "", "", "", "")
		assert.NoError(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCustomer(orgID, userID, "   ", "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		_, err := NewCustomer(orgID, userID, strings.Repeat("a", 201), "", "", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewCustomer(orgID, userID, "Budi", "bukan-email", "", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects nil organization", func(t *testing.T) {
		_, err := NewCustomer(uuid.Nil, userID, "Budi", "", "", "", "")
		assert.Error(t, err)
	})
}

func TestCustomer_Update(t *testing.T) {
	c, err := NewCustomer(uuid.New(), uuid.New(), "Budi", "budi@mail.id", "", "", "")
	require.NoError(t, err)

	require.NoError(t, c.Update("Budi Santoso", "budi.santoso@mail.id", "0811", "Bandung", "pelanggan lama"))
	assert.Equal(t, "Budi Santoso", c.Name)

	assert.Error(t, c.Update("", "", "", "", ""))
	assert.Equal(t, "Budi Santoso", c.Name, "failed update must not mutate")
}
