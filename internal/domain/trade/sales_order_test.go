package trade

import (
	"testing"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSalesOrder(t *testing.T, paymentType PaymentType) (*SalesOrder, shared.Actor) {
	t.Helper()
	actor := shared.NewActor(uuid.New(), uuid.New(), "booking_officer")
	order, err := NewSalesOrder(actor, "SO-20260301-0001", uuid.New(), "Ogun Mills", decimal.NewFromInt(250_000), paymentType)
	require.NoError(t, err)
	return order, actor
}

func TestNewSalesOrder(t *testing.T) {
	t.Run("books the order for the actor", func(t *testing.T) {
		order, actor := newTestSalesOrder(t, PaymentTypeCredit)

		assert.Equal(t, OrderStatusBooked, order.Status)
		assert.Equal(t, actor.TenantID, order.TenantID)
		assert.True(t, order.IsCreatedBy(actor.UserID))
		assert.True(t, order.RequiresCredit())
		assert.True(t, order.HoldsCredit())
		assert.Equal(t, 1, order.Version)
		require.Len(t, order.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeSalesOrderBooked, order.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		actor := shared.NewActor(uuid.New(), uuid.New())
		_, err := NewSalesOrder(actor, "", uuid.New(), "x", decimal.NewFromInt(1), PaymentTypeCash)
		assert.Error(t, err)
		_, err = NewSalesOrder(actor, "SO-1", uuid.Nil, "x", decimal.NewFromInt(1), PaymentTypeCash)
		assert.Error(t, err)
		_, err = NewSalesOrder(actor, "SO-1", uuid.New(), "x", decimal.Zero, PaymentTypeCash)
		assert.Error(t, err)
		_, err = NewSalesOrder(actor, "SO-1", uuid.New(), "x", decimal.NewFromInt(1), PaymentType("barter"))
		assert.Error(t, err)
	})
}

func TestSalesOrder_Lifecycle(t *testing.T) {
	t.Run("booked to approved to fulfilled to paid", func(t *testing.T) {
		order, _ := newTestSalesOrder(t, PaymentTypeCredit)
		approver := uuid.New()
		cashier := uuid.New()

		require.NoError(t, order.Approve(approver))
		assert.True(t, order.IsApproved())
		assert.Equal(t, approver, *order.ApprovedBy)

		require.NoError(t, order.Fulfill())
		assert.NotNil(t, order.FulfilledAt)
		assert.True(t, order.HoldsCredit())

		require.NoError(t, order.MarkPaid(cashier))
		assert.Equal(t, OrderStatusPaid, order.Status)
		assert.Equal(t, cashier, *order.PaymentCollectedBy)
		assert.False(t, order.HoldsCredit())
		assert.Equal(t, 4, order.Version)
	})

	t.Run("booked order can be fulfilled without approval", func(t *testing.T) {
		order, _ := newTestSalesOrder(t, PaymentTypeCash)
		require.NoError(t, order.Fulfill())
		assert.False(t, order.IsApproved())
	})

	t.Run("cannot pay before fulfilment", func(t *testing.T) {
		order, _ := newTestSalesOrder(t, PaymentTypeCash)
		err := order.MarkPaid(uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("cannot approve twice", func(t *testing.T) {
		order, _ := newTestSalesOrder(t, PaymentTypeCash)
		require.NoError(t, order.Approve(uuid.New()))
		assert.Error(t, order.Approve(uuid.New()))
	})

	t.Run("approver is required", func(t *testing.T) {
		order, _ := newTestSalesOrder(t, PaymentTypeCash)
		assert.Error(t, order.Approve(uuid.Nil))
	})

	t.Run("cancel needs a reason and an open order", func(t *testing.T) {
		order, _ := newTestSalesOrder(t, PaymentTypeCredit)
		assert.Error(t, order.Cancel(""))

		require.NoError(t, order.Cancel("customer withdrew"))
		assert.Equal(t, OrderStatusCancelled, order.Status)
		assert.Equal(t, "customer withdrew", order.CancelReason)
		assert.False(t, order.HoldsCredit())

		assert.Error(t, order.Cancel("again"))
	})

	t.Run("fulfilled order cannot be cancelled", func(t *testing.T) {
		order, _ := newTestSalesOrder(t, PaymentTypeCash)
		require.NoError(t, order.Fulfill())
		assert.Error(t, order.Cancel("late"))
	})
}

func TestSalesOrder_UpdateDetails(t *testing.T) {
	order, _ := newTestSalesOrder(t, PaymentTypeCredit)

	delta, err := order.UpdateDetails(decimal.NewFromInt(300_000), "add 20 bags")
	require.NoError(t, err)
	assert.True(t, delta.Equal(decimal.NewFromInt(50_000)))
	assert.Equal(t, "add 20 bags", order.Remark)

	delta, err = order.UpdateDetails(decimal.NewFromInt(100_000), "")
	require.NoError(t, err)
	assert.True(t, delta.Equal(decimal.NewFromInt(-200_000)))

	_, err = order.UpdateDetails(decimal.Zero, "")
	assert.Error(t, err)

	require.NoError(t, order.Approve(uuid.New()))
	_, err = order.UpdateDetails(decimal.NewFromInt(1), "")
	assert.Error(t, err)
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusBooked, OrderStatusApproved, true},
		{OrderStatusBooked, OrderStatusFulfilled, true},
		{OrderStatusBooked, OrderStatusPaid, false},
		{OrderStatusApproved, OrderStatusFulfilled, true},
		{OrderStatusApproved, OrderStatusBooked, false},
		{OrderStatusFulfilled, OrderStatusPaid, true},
		{OrderStatusFulfilled, OrderStatusCancelled, false},
		{OrderStatusPaid, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusBooked, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}
