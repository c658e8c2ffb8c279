package identity

import (
	"testing"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func testActor() shared.Actor {
	return shared.NewActor(uuid.New(), uuid.New(), RoleCodeAdmin)
}

func TestNewUser(t *testing.T) {
	t.Run("hashes the password", func(t *testing.T) {
		u, err := NewUser(testActor(), "  Kemi.Ade ", "s3cretpass")
		require.NoError(t, err)

		assert.Equal(t, "kemi.ade", u.Username)
		assert.NotEqual(t, "s3cretpass", u.PasswordHash)
		assert.True(t, u.VerifyPassword("s3cretpass"))
		assert.False(t, u.VerifyPassword("wrong"))
		assert.True(t, u.IsActive())
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := NewUser(testActor(), "kemi", "short")
		assert.Error(t, err)
	})

	t.Run("rejects invalid usernames", func(t *testing.T) {
		_, err := NewUser(testActor(), "a", "s3cretpass")
		assert.Error(t, err)
	})
}

func TestUser_SetPassword(t *testing.T) {
	u, err := NewUser(testActor(), "kemi", "s3cretpass")
	require.NoError(t, err)
	oldHash := u.PasswordHash

	require.NoError(t, u.SetPassword("n3wpassword"))
	assert.NotEqual(t, oldHash, u.PasswordHash)
	assert.True(t, u.VerifyPassword("n3wpassword"))
	assert.Equal(t, 2, u.Version)
}

func TestUser_Roles(t *testing.T) {
	actor := testActor()
	u, err := NewUser(actor, "kemi", "s3cretpass")
	require.NoError(t, err)
	cashier, err := NewRole(actor, RoleCodeCashier, "Cashier")
	require.NoError(t, err)

	require.NoError(t, u.AssignRole(cashier))
	assert.Equal(t, []string{RoleCodeCashier}, u.RoleCodes())
	assert.Equal(t, []uuid.UUID{cashier.ID}, u.RoleIDs())
	assert.Error(t, u.AssignRole(cashier))
	assert.Error(t, u.AssignRole(nil))

	require.NoError(t, u.RemoveRole(cashier.ID))
	assert.Empty(t, u.RoleCodes())
	assert.Error(t, u.RemoveRole(cashier.ID))
}

func TestUser_Deactivate(t *testing.T) {
	u, err := NewUser(testActor(), "kemi", "s3cretpass")
	require.NoError(t, err)

	require.NoError(t, u.Deactivate())
	assert.False(t, u.IsActive())
	assert.Error(t, u.Deactivate())
}
