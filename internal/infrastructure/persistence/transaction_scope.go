package persistence

import (
	"context"

	apptrade "github.com/agbona24/firstgiwa-erp-sub006/internal/application/trade"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/approval"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Repositories handed to the callback share one transaction, so row locks
// taken by FindByIDForUpdate hold until the callback returns.
type GormTransactionScope struct {
	db    *gorm.DB
	trail *AuditTrail
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB, trail *AuditTrail) *GormTransactionScope {
	return &GormTransactionScope{db: db, trail: trail}
}

// Execute runs fn within a database transaction. An error from fn rolls
// back every write, audit entries included.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, trail: s.trail})
	})
}

type gormTransactionalRepositories struct {
	tx    *gorm.DB
	trail *AuditTrail
}

func (r *gormTransactionalRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx, r.trail)
}

func (r *gormTransactionalRepositories) SalesOrders() trade.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx, r.trail)
}

func (r *gormTransactionalRepositories) PurchaseOrders() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx, r.trail)
}

func (r *gormTransactionalRepositories) Approvals() approval.RequestRepository {
	return NewGormApprovalRequestRepository(r.tx, r.trail)
}

// Ensure GormTransactionScope implements TransactionScope
var _ apptrade.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ apptrade.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
