package trade

import (
	"context"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/approval"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
)

// TransactionScope provides transactional access to the order and credit repositories.
// Repository operations inside fn are committed or rolled back together,
// audit entries included.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to repositories sharing one transaction.
// A customer loaded with FindByIDForUpdate stays locked until Execute returns.
type TransactionalRepositories interface {
	Customers() partner.CustomerRepository
	SalesOrders() trade.SalesOrderRepository
	PurchaseOrders() trade.PurchaseOrderRepository
	Approvals() approval.RequestRepository
}

// NoOpTransactionScope runs fn against plain repositories without a transaction.
// Used by tests and tools that need no atomicity.
type NoOpTransactionScope struct {
	customers      partner.CustomerRepository
	salesOrders    trade.SalesOrderRepository
	purchaseOrders trade.PurchaseOrderRepository
	approvals      approval.RequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	customers partner.CustomerRepository,
	salesOrders trade.SalesOrderRepository,
	purchaseOrders trade.PurchaseOrderRepository,
	approvals approval.RequestRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		customers:      customers,
		salesOrders:    salesOrders,
		purchaseOrders: purchaseOrders,
		approvals:      approvals,
	}
}

// Execute runs fn directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) Customers() partner.CustomerRepository   { return s.customers }
func (s *NoOpTransactionScope) SalesOrders() trade.SalesOrderRepository { return s.salesOrders }
func (s *NoOpTransactionScope) PurchaseOrders() trade.PurchaseOrderRepository {
	return s.purchaseOrders
}
func (s *NoOpTransactionScope) Approvals() approval.RequestRepository { return s.approvals }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
