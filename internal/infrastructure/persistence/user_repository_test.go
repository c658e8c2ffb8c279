package persistence

import (
	"context"
	"testing"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository(t *testing.T) {
	db := setupTestDB(t)
	trail := newTestTrail()
	users := NewGormUserRepository(db, trail)
	roles := NewGormRoleRepository(db, trail)
	ctx := context.Background()

	admin := shared.NewActor(uuid.New(), uuid.New(), "admin")

	cashier, err := identity.NewRole(admin, "cashier", "Cashier")
	require.NoError(t, err)
	require.NoError(t, cashier.GrantPermission("sales_order:pay"))
	require.NoError(t, roles.Create(ctx, cashier, audit.NewMeta(admin)))

	user, err := identity.NewUser(admin, "Alice", "first-password")
	require.NoError(t, err)
	require.NoError(t, user.AssignRole(cashier))
	require.NoError(t, users.Create(ctx, user, audit.NewMeta(admin)))

	t.Run("roles round trip", func(t *testing.T) {
		found, err := users.FindByUsername(ctx, admin.TenantID, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, []string{"cashier"}, found.RoleCodes())

		role, err := roles.FindByCode(ctx, admin.TenantID, "cashier")
		require.NoError(t, err)
		assert.True(t, role.HasPermission("sales_order:pay"))

		byIDs, err := roles.FindByIDs(ctx, admin.TenantID, found.RoleIDs())
		require.NoError(t, err)
		require.Len(t, byIDs, 1)
		assert.Equal(t, cashier.ID, byIDs[0].ID)

		exists, err := users.ExistsByUsername(ctx, admin.TenantID, "alice")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("created entry redacts the password hash", func(t *testing.T) {
		entries, _, err := NewGormAuditLogRepository(db).FindByEntity(ctx, admin.TenantID, "user", user.ID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, audit.RedactedMarker, entries[0].NewValues["password_hash"])
		assert.Equal(t, "cashier", entries[0].NewValues["roles"])
	})

	t.Run("password change is redacted on both sides", func(t *testing.T) {
		loaded, err := users.FindByIDForTenant(ctx, admin.TenantID, user.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.SetPassword("second-password"))
		require.NoError(t, users.SaveWithLock(ctx, loaded, audit.NewMeta(admin)))

		entries, _, err := NewGormAuditLogRepository(db).FindByEntity(ctx, admin.TenantID, "user", user.ID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, entries, 2)
		latest := entries[0]
		assert.Equal(t, audit.RedactedMarker, latest.NewValues["password_hash"])
		assert.Equal(t, audit.RedactedMarker, latest.OldValues["password_hash"])

		reloaded, err := users.FindByIDForTenant(ctx, admin.TenantID, user.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.VerifyPassword("second-password"))
		assert.Equal(t, []string{"cashier"}, reloaded.RoleCodes())
	})

	t.Run("removing a role shows in the diff", func(t *testing.T) {
		loaded, err := users.FindByIDForTenant(ctx, admin.TenantID, user.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.RemoveRole(cashier.ID))
		require.NoError(t, users.SaveWithLock(ctx, loaded, audit.NewMeta(admin)))

		reloaded, err := users.FindByIDForTenant(ctx, admin.TenantID, user.ID)
		require.NoError(t, err)
		assert.Empty(t, reloaded.RoleCodes())

		entries, _, err := NewGormAuditLogRepository(db).FindByEntity(ctx, admin.TenantID, "user", user.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, "cashier", entries[0].OldValues["roles"])
		assert.Equal(t, "", entries[0].NewValues["roles"])
	})
}
