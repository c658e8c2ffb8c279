package approval

import (
	"context"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"github.com/google/uuid"
)

// DocumentCreators resolves who booked the document an approval request
// refers to. A nil creator means the kind has no booking user to separate
// from the approver.
type DocumentCreators interface {
	CreatorOf(ctx context.Context, tenantID uuid.UUID, kind policy.DocumentKind, referenceID uuid.UUID) (*uuid.UUID, error)
}

// OrderCreators looks up the booking officer of sales and purchase orders
type OrderCreators struct {
	sales     trade.SalesOrderRepository
	purchases trade.PurchaseOrderRepository
}

// NewOrderCreators creates an OrderCreators
func NewOrderCreators(sales trade.SalesOrderRepository, purchases trade.PurchaseOrderRepository) *OrderCreators {
	return &OrderCreators{sales: sales, purchases: purchases}
}

// CreatorOf implements DocumentCreators
func (c *OrderCreators) CreatorOf(ctx context.Context, tenantID uuid.UUID, kind policy.DocumentKind, referenceID uuid.UUID) (*uuid.UUID, error) {
	switch kind {
	case policy.DocumentSalesOrder:
		order, err := c.sales.FindByIDForTenant(ctx, tenantID, referenceID)
		if err != nil {
			return nil, err
		}
		return order.CreatedBy, nil
	case policy.DocumentPurchaseOrder:
		order, err := c.purchases.FindByIDForTenant(ctx, tenantID, referenceID)
		if err != nil {
			return nil, err
		}
		return order.CreatedBy, nil
	default:
		return nil, nil
	}
}
