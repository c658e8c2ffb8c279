package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB, newTestTrail()), mock, mockDB
}

func newTestCustomer(t *testing.T, actor shared.Actor, code string, limit int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(actor, code, "Customer "+code, partner.CustomerTypeCredit)
	require.NoError(t, err)
	require.NoError(t, c.SetCreditLimit(decimal.NewFromInt(limit)))
	return c
}

func TestGormCustomerRepository_FindByIDForUpdate(t *testing.T) {
	t.Run("locks the row", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "tenant_id", "version", "code", "name", "customer_type", "status", "credit_limit", "credit_used"}).
			AddRow(customerID.String(), tenantID.String(), 3, "CUST001", "Test Customer", "credit", "active", "5000000", "2150000")

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE .*tenant_id = \$1 AND id = \$2.* FOR UPDATE`).
			WithArgs(tenantID, customerID, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByIDForUpdate(context.Background(), tenantID, customerID)

		require.NoError(t, err)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, 3, customer.PersistedVersion())
		assert.True(t, customer.CreditUsed.Equal(decimal.NewFromInt(2150000)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE .* FOR UPDATE`).
			WithArgs(tenantID, customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByIDForUpdate(context.Background(), tenantID, customerID)

		assert.Nil(t, customer)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_SaveWithLock_StaleVersion(t *testing.T) {
	repo, mock, mockDB := newMockCustomerRepository(t)
	defer mockDB.Close()

	actor := shared.NewActor(uuid.New(), uuid.New())
	customer := newTestCustomer(t, actor, "CUST001", 1000)
	customer.MarkPersisted()
	require.NoError(t, customer.SetCreditLimit(decimal.NewFromInt(2000)))

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE .*tenant_id = \$1 AND id = \$2`).
		WithArgs(customer.TenantID, customer.ID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "version", "credit_limit", "credit_used"}).
			AddRow(customer.ID.String(), customer.TenantID.String(), 4, "1000", "0"))
	mock.ExpectExec(`UPDATE "customers" SET .* WHERE .*version = .*`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SaveWithLock(context.Background(), customer, audit.NewMeta(actor))

	assert.ErrorIs(t, err, shared.ErrOptimisticLock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCustomerRepository(db, newTestTrail())
	ctx := context.Background()

	actor := shared.NewActor(uuid.New(), uuid.New())
	customer := newTestCustomer(t, actor, "cust001", 5000000)

	require.NoError(t, repo.Create(ctx, customer, audit.NewMeta(actor)))
	assert.Equal(t, customer.Version, customer.PersistedVersion())
	assert.Equal(t, int64(1), countAuditEntries(t, db, "customer", customer.ID))

	t.Run("finds by id and code", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, actor.TenantID, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, "CUST001", found.Code)
		assert.True(t, found.CreditLimit.Equal(decimal.NewFromInt(5000000)))

		byCode, err := repo.FindByCode(ctx, actor.TenantID, "cust001")
		require.NoError(t, err)
		assert.Equal(t, customer.ID, byCode.ID)

		exists, err := repo.ExistsByCode(ctx, actor.TenantID, "CUST001")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("other tenant cannot see the customer", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), customer.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate code fails", func(t *testing.T) {
		dup := newTestCustomer(t, actor, "CUST001", 0)
		err := repo.Create(ctx, dup, audit.NewMeta(actor))
		assert.Error(t, err)
		assert.Equal(t, int64(0), countAuditEntries(t, db, "customer", dup.ID))
	})

	t.Run("update records old and new credit usage", func(t *testing.T) {
		loaded, err := repo.FindByIDForUpdate(ctx, actor.TenantID, customer.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.RecordCreditSale(decimal.NewFromInt(2150000), uuid.New()))

		meta := audit.NewMeta(actor).WithReason("credit sale").WithReference("SO-2026-00001")
		require.NoError(t, repo.SaveWithLock(ctx, loaded, meta))

		entries, total, err := NewGormAuditLogRepository(db).FindByEntity(ctx, actor.TenantID, "customer", customer.ID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Equal(t, int64(2), total)

		latest := entries[0]
		assert.Equal(t, audit.ActionUpdated, latest.Action)
		assert.Equal(t, "credit sale", latest.Reason)
		assert.Equal(t, "SO-2026-00001", latest.Reference)
		assert.ElementsMatch(t, []string{"credit_used"}, latest.ChangedKeys())
		assert.Equal(t, "0", latest.OldValues["credit_used"])
		assert.Equal(t, "2150000", latest.NewValues["credit_used"])
		require.NotNil(t, latest.ActorID)
		assert.Equal(t, actor.UserID, *latest.ActorID)
	})

	t.Run("update touching only updated_at writes no entry", func(t *testing.T) {
		loaded, err := repo.FindByIDForTenant(ctx, actor.TenantID, customer.ID)
		require.NoError(t, err)
		before := countAuditEntries(t, db, "customer", customer.ID)

		loaded.UpdatedAt = time.Now().Add(time.Hour)
		require.NoError(t, repo.SaveWithLock(ctx, loaded, audit.NewMeta(actor)))
		loaded.UpdatedAt = time.Now().Add(2 * time.Hour)
		require.NoError(t, repo.SaveWithLock(ctx, loaded, audit.NewMeta(actor)))

		assert.Equal(t, before, countAuditEntries(t, db, "customer", customer.ID))
	})

	t.Run("stale copy is rejected", func(t *testing.T) {
		first, err := repo.FindByIDForTenant(ctx, actor.TenantID, customer.ID)
		require.NoError(t, err)
		second, err := repo.FindByIDForTenant(ctx, actor.TenantID, customer.ID)
		require.NoError(t, err)

		require.NoError(t, first.SetPaymentTerms(30))
		require.NoError(t, repo.SaveWithLock(ctx, first, audit.NewMeta(actor)))

		require.NoError(t, second.SetPaymentTerms(45))
		err = repo.SaveWithLock(ctx, second, audit.NewMeta(actor))
		assert.ErrorIs(t, err, shared.ErrOptimisticLock)

		stored, err := repo.FindByIDForTenant(ctx, actor.TenantID, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, 30, stored.PaymentTermsDays)
	})

	t.Run("several mutations in one save", func(t *testing.T) {
		loaded, err := repo.FindByIDForTenant(ctx, actor.TenantID, customer.ID)
		require.NoError(t, err)
		loaded.SetContact("0800", "buyer@example.com", "Kano")
		require.NoError(t, loaded.SetPaymentTerms(60))

		require.NoError(t, repo.SaveWithLock(ctx, loaded, audit.NewMeta(actor)))

		stored, err := repo.FindByIDForTenant(ctx, actor.TenantID, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, 60, stored.PaymentTermsDays)
		assert.Equal(t, "0800", stored.Phone)
		assert.Equal(t, loaded.Version, stored.Version)
	})

	t.Run("lists and counts with filters", func(t *testing.T) {
		other := newTestCustomer(t, actor, "CUST002", 0)
		require.NoError(t, repo.Create(ctx, other, audit.NewMeta(actor)))

		filter := shared.DefaultFilter()
		filter.OrderBy = "code"
		filter.OrderDir = "asc"
		list, err := repo.FindAllForTenant(ctx, actor.TenantID, filter)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "CUST001", list[0].Code)

		filter.Search = "002"
		count, err := repo.CountForTenant(ctx, actor.TenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("soft delete records last state", func(t *testing.T) {
		require.NoError(t, repo.DeleteForTenant(ctx, actor.TenantID, customer.ID, audit.NewMeta(actor).WithReason("duplicate")))

		_, err := repo.FindByIDForTenant(ctx, actor.TenantID, customer.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		entries, _, err := NewGormAuditLogRepository(db).FindByEntity(ctx, actor.TenantID, "customer", customer.ID, shared.DefaultFilter())
		require.NoError(t, err)
		deleted := entries[0]
		assert.Equal(t, audit.ActionDeleted, deleted.Action)
		assert.Nil(t, deleted.NewValues)
		assert.Equal(t, "CUST001", deleted.OldValues["code"])
		assert.Equal(t, "duplicate", deleted.Reason)

		err = repo.DeleteForTenant(ctx, actor.TenantID, customer.ID, audit.NewMeta(actor))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCustomerRepository_AuditFailureRollsBackWrite(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Exec("DROP TABLE audit_logs").Error)
	repo := NewGormCustomerRepository(db, newTestTrail())
	ctx := context.Background()

	actor := shared.NewActor(uuid.New(), uuid.New())
	customer := newTestCustomer(t, actor, "CUST001", 100)

	err := repo.Create(ctx, customer, audit.NewMeta(actor))
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Table("customers").Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 0, customer.PersistedVersion())
}
