package persistence

import (
	"testing"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var sqliteSchema = []string{
	`CREATE TABLE customers (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		created_by TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		customer_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		phone TEXT,
		email TEXT,
		address TEXT,
		credit_limit TEXT NOT NULL DEFAULT '0',
		credit_used TEXT NOT NULL DEFAULT '0',
		payment_terms_days INTEGER NOT NULL DEFAULT 0,
		block_reason TEXT,
		notes TEXT,
		UNIQUE (tenant_id, code)
	)`,
	`CREATE TABLE sales_orders (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		created_by TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		status TEXT NOT NULL DEFAULT 'booked',
		approved_by TEXT,
		approved_at DATETIME,
		fulfilled_at DATETIME,
		paid_at DATETIME,
		payment_collected_by TEXT,
		cancelled_at DATETIME,
		cancel_reason TEXT,
		order_number TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		customer_name TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		payment_type TEXT NOT NULL,
		remark TEXT
	)`,
	`CREATE TABLE purchase_orders (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		created_by TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		status TEXT NOT NULL DEFAULT 'booked',
		approved_by TEXT,
		approved_at DATETIME,
		fulfilled_at DATETIME,
		paid_at DATETIME,
		payment_collected_by TEXT,
		cancelled_at DATETIME,
		cancel_reason TEXT,
		order_number TEXT NOT NULL,
		supplier_id TEXT NOT NULL,
		supplier_name TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		payment_type TEXT NOT NULL,
		remark TEXT
	)`,
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		created_by TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		username TEXT NOT NULL,
		email TEXT,
		display_name TEXT,
		password_hash TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		password_changed_at DATETIME
	)`,
	`CREATE TABLE user_roles (
		user_id TEXT NOT NULL,
		role_id TEXT NOT NULL,
		tenant_id TEXT NOT NULL,
		role_code TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, role_id)
	)`,
	`CREATE TABLE roles (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		created_by TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		permissions TEXT
	)`,
	`CREATE TABLE approval_requests (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		created_by TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		document_kind TEXT NOT NULL,
		reference_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		reason TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		decided_by TEXT,
		decided_at DATETIME,
		decision_note TEXT,
		applied_by TEXT,
		applied_at DATETIME
	)`,
	`CREATE TABLE audit_logs (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		action TEXT NOT NULL,
		actor_id TEXT,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		old_values TEXT,
		new_values TEXT,
		reason TEXT,
		reference TEXT,
		ip_address TEXT,
		user_agent TEXT,
		created_at DATETIME NOT NULL
	)`,
}

// setupTestDB opens an in-memory SQLite database with the service schema.
// One connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range sqliteSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestTrail() *AuditTrail {
	return NewAuditTrail(audit.NewMirror())
}

// countAuditEntries counts entries for one entity
func countAuditEntries(t *testing.T, db *gorm.DB, entityType string, entityID any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Table("audit_logs").
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&count).Error)
	return count
}
