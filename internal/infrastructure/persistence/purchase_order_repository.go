package persistence

import (
	"context"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements trade.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db    *gorm.DB
	trail *AuditTrail
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB, trail *AuditTrail) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db, trail: trail}
}

// FindByIDForTenant finds a purchase order by ID for a specific tenant
func (r *GormPurchaseOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := findForTenant(r.db.WithContext(ctx), &model, tenantID, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads an order with a row lock
func (r *GormPurchaseOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := findForUpdate(r.db.WithContext(ctx), &model, tenantID, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all purchase orders for a tenant with filtering
func (r *GormPurchaseOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	query := applyOrderFilter(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Where("tenant_id = ?", tenantID), filter, "supplier_id")

	var orderModels []models.PurchaseOrderModel
	if err := applyOrderAndPage(query, filter, OrderSortFields, "created_at").Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]trade.PurchaseOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// CountForTenant counts purchase orders for a tenant with optional filters
func (r *GormPurchaseOrderRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := applyOrderFilter(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Where("tenant_id = ?", tenantID), filter, "supplier_id").
		Count(&count).Error
	return count, err
}

// GenerateOrderNumber generates the next order number for the tenant.
// Format: PO-YYYY-NNNNN (e.g., PO-2026-00001)
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return nextOrderNumber(r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}), tenantID, "PO", time.Now())
}

// Create inserts a new order and its audit entry
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *trade.PurchaseOrder, meta audit.Meta) error {
	model := models.PurchaseOrderModelFromDomain(order)
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
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *trade.PurchaseOrder, meta audit.Meta) error {
	ensureVersionBump(&order.TenantAggregateRoot)
	model := models.PurchaseOrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before models.PurchaseOrderModel
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

// Ensure GormPurchaseOrderRepository implements trade.PurchaseOrderRepository
var _ trade.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
