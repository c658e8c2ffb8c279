package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalesOrderRepository implements trade.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db    *gorm.DB
	trail *AuditTrail
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB, trail *AuditTrail) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db, trail: trail}
}

// FindByIDForTenant finds a sales order by ID for a specific tenant
func (r *GormSalesOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := findForTenant(r.db.WithContext(ctx), &model, tenantID, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads an order with a row lock
func (r *GormSalesOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesOrder, error) {
	var model models.SalesOrderModel
	if err := findForUpdate(r.db.WithContext(ctx), &model, tenantID, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all sales orders for a tenant with filtering
func (r *GormSalesOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.SalesOrder, error) {
	query := applyOrderFilter(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).Where("tenant_id = ?", tenantID), filter, "customer_id")

	var orderModels []models.SalesOrderModel
	if err := applyOrderAndPage(query, filter, OrderSortFields, "created_at").Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]trade.SalesOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// CountForTenant counts sales orders for a tenant with optional filters
func (r *GormSalesOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := applyOrderFilter(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).Where("tenant_id = ?", tenantID), filter, "customer_id").
		Count(&count).Error
	return count, err
}

// OldestOpenCreditBookedAt returns the booking time of the customer's oldest
// credit order that is not yet paid or cancelled
func (r *GormSalesOrderRepository) OldestOpenCreditBookedAt(ctx context.Context, tenantID, customerID uuid.UUID) (*time.Time, error) {
	var model models.SalesOrderModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND customer_id = ? AND payment_type = ? AND status IN ?",
			tenantID, customerID, trade.PaymentTypeCredit,
			[]trade.OrderStatus{trade.OrderStatusBooked, trade.OrderStatusApproved, trade.OrderStatusFulfilled}).
		Order("created_at ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	bookedAt := model.CreatedAt
	return &bookedAt, nil
}

// GenerateOrderNumber generates the next order number for the tenant.
// Format: SO-YYYY-NNNNN (e.g., SO-2026-00001)
func (r *GormSalesOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextOrderNumber(r.db.WithContext(ctx).Model(&models.SalesOrderModel{}), tenantID, "SO", time.Now())
}

// Create inserts a new order and its audit entry
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder, meta audit.Meta) error {
	model := models.SalesOrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return mapUniqueViolation(err)
		}
		return r.trail.Created(ctx, tx, model, meta)
	})
	if err != nil {
		return err
	}
	order.MarkPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSalesOrderRepository) SaveWithLock(ctx context.Context, order *trade.SalesOrder, meta audit.Meta) error {
	ensureVersionBump(&order.TenantAggregateRoot)
	model := models.SalesOrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before models.SalesOrderModel
		if err := findForTenant(tx, &before, order.TenantID, order.ID); err != nil {
			return err
		}
		if err := updateVersioned(tx, model, order.TenantID, order.PersistedVersion()); err != nil {
			return err
		}
		return r.trail.Updated(ctx, tx, &before, model, meta)
	})
	if err != nil {
		return err
	}
	order.MarkPersisted()
	return nil
}

// applyOrderFilter applies the search and column filters shared by both order tables
func applyOrderFilter(query *gorm.DB, filter shared.Filter, partyColumn string) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_type":
			query = query.Where("payment_type = ?", value)
		case "party_id":
			query = query.Where(partyColumn+" = ?", value)
		}
	}
	return query
}

// nextOrderNumber finds the highest number issued this year under prefix and
// returns the one after it. Format: PREFIX-YYYY-NNNNN
func nextOrderNumber(query *gorm.DB, tenantID uuid.UUID, prefix string, now time.Time) (string, error) {
	yearPrefix := fmt.Sprintf("%s-%d-", prefix, now.Year())

	var numbers []string
	err := query.
		Where("tenant_id = ? AND order_number LIKE ?", tenantID, yearPrefix+"%").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil {
		return "", err
	}

	next := 1
	if len(numbers) > 0 {
		var num int
		if _, scanErr := fmt.Sscanf(strings.TrimPrefix(numbers[0], yearPrefix), "%d", &num); scanErr == nil {
			next = num + 1
		}
	}
	return fmt.Sprintf("%s%05d", yearPrefix, next), nil
}

// Ensure GormSalesOrderRepository implements trade.SalesOrderRepository
var _ trade.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
