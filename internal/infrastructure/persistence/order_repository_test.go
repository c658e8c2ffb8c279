package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormSalesOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSalesOrderRepository(db, newTestTrail())
	ctx := context.Background()

	booker := shared.NewActor(uuid.New(), uuid.New(), "booking_officer")
	approver := shared.NewActor(booker.TenantID, uuid.New(), "approver")
	customerID := uuid.New()
	year := time.Now().Year()

	t.Run("first order number of the year", func(t *testing.T) {
		number, err := repo.GenerateOrderNumber(ctx, booker.TenantID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("SO-%d-00001", year), number)
	})

	newOrder := func(paymentType trade.PaymentType, total int64) *trade.SalesOrder {
		number, err := repo.GenerateOrderNumber(ctx, booker.TenantID)
		require.NoError(t, err)
		order, err := trade.NewSalesOrder(booker, number, customerID, "Acme Mills", decimal.NewFromInt(total), paymentType)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, order, audit.NewMeta(booker)))
		return order
	}

	cashOrder := newOrder(trade.PaymentTypeCash, 100)
	firstCredit := newOrder(trade.PaymentTypeCredit, 2000)
	time.Sleep(5 * time.Millisecond)
	secondCredit := newOrder(trade.PaymentTypeCredit, 3000)

	t.Run("numbers increase", func(t *testing.T) {
		assert.Equal(t, fmt.Sprintf("SO-%d-00001", year), cashOrder.OrderNumber)
		assert.Equal(t, fmt.Sprintf("SO-%d-00003", year), secondCredit.OrderNumber)
	})

	t.Run("oldest open credit order", func(t *testing.T) {
		bookedAt, err := repo.OldestOpenCreditBookedAt(ctx, booker.TenantID, customerID)
		require.NoError(t, err)
		require.NotNil(t, bookedAt)
		assert.True(t, bookedAt.Equal(firstCredit.CreatedAt))

		none, err := repo.OldestOpenCreditBookedAt(ctx, booker.TenantID, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("approval is persisted and audited", func(t *testing.T) {
		loaded, err := repo.FindByIDForUpdate(ctx, booker.TenantID, firstCredit.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.Approve(approver.UserID))
		require.NoError(t, repo.SaveWithLock(ctx, loaded, audit.NewMeta(approver)))

		stored, err := repo.FindByIDForTenant(ctx, booker.TenantID, firstCredit.ID)
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusApproved, stored.Status)
		require.NotNil(t, stored.ApprovedBy)
		assert.Equal(t, approver.UserID, *stored.ApprovedBy)
		assert.True(t, stored.IsCreatedBy(booker.UserID))

		entries, _, err := NewGormAuditLogRepository(db).FindByEntity(ctx, booker.TenantID, "sales_order", firstCredit.ID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.ElementsMatch(t, []string{"status", "approved_by", "approved_at"}, entries[0].ChangedKeys())
		assert.Equal(t, "booked", entries[0].OldValues["status"])
		assert.Equal(t, "approved", entries[0].NewValues["status"])
	})

	t.Run("paid order no longer counts as open", func(t *testing.T) {
		loaded, err := repo.FindByIDForTenant(ctx, booker.TenantID, firstCredit.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.Fulfill())
		require.NoError(t, loaded.MarkPaid(uuid.New()))
		require.NoError(t, repo.SaveWithLock(ctx, loaded, audit.NewMeta(approver)))

		bookedAt, err := repo.OldestOpenCreditBookedAt(ctx, booker.TenantID, customerID)
		require.NoError(t, err)
		require.NotNil(t, bookedAt)
		assert.True(t, bookedAt.Equal(secondCredit.CreatedAt))
	})

	t.Run("filters by status and payment type", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["payment_type"] = "credit"
		count, err := repo.CountForTenant(ctx, booker.TenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		filter.Filters["status"] = "booked"
		orders, err := repo.FindAllForTenant(ctx, booker.TenantID, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, secondCredit.ID, orders[0].ID)
	})
}

func TestGormPurchaseOrderRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormPurchaseOrderRepository(db, newTestTrail())
	ctx := context.Background()

	actor := shared.NewActor(uuid.New(), uuid.New())

	number, err := repo.GenerateOrderNumber(ctx, actor.TenantID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%d-00001", time.Now().Year()), number)

	order, err := trade.NewPurchaseOrder(actor, number, uuid.New(), "Maize Farms", decimal.NewFromInt(750000), trade.PaymentTypeCredit)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order, audit.NewMeta(actor)))

	next, err := repo.GenerateOrderNumber(ctx, actor.TenantID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%d-00002", time.Now().Year()), next)

	otherTenant, err := repo.GenerateOrderNumber(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, number, otherTenant)

	loaded, err := repo.FindByIDForTenant(ctx, actor.TenantID, order.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.Cancel("supplier out of stock"))
	require.NoError(t, repo.SaveWithLock(ctx, loaded, audit.NewMeta(actor).WithReason("supplier out of stock")))

	stored, err := repo.FindByIDForTenant(ctx, actor.TenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusCancelled, stored.Status)
	assert.Equal(t, "supplier out of stock", stored.CancelReason)
	assert.Equal(t, int64(2), countAuditEntries(t, db, "purchase_order", order.ID))
}
