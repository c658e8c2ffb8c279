package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db    *gorm.DB
	trail *AuditTrail
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB, trail *AuditTrail) *GormCustomerRepository {
	return &GormCustomerRepository{db: db, trail: trail}
}

// FindByIDForTenant finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := findForTenant(r.db.WithContext(ctx), &model, tenantID, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a customer with a row lock
func (r *GormCustomerRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := findForUpdate(r.db.WithContext(ctx), &model, tenantID, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a customer by its code within a tenant
func (r *GormCustomerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForTenant finds all customers for a tenant
func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("tenant_id = ?", tenantID), filter)

	var customerModels []models.CustomerModel
	if err := applyOrderAndPage(query, filter, CustomerSortFields, "created_at").Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]partner.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers, nil
}

// CountForTenant counts customers for a tenant
func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("tenant_id = ?", tenantID), filter).
		Count(&count).Error
	return count, err
}

// ExistsByCode checks if a customer code exists in the tenant
func (r *GormCustomerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new customer and its audit entry
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer, meta audit.Meta) error {
	model := models.CustomerModelFromDomain(customer)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return mapUniqueViolation(err)
		}
		return r.trail.Created(ctx, tx, model, meta)
	})
	if err != nil {
		return err
	}
	customer.MarkPersisted()
	return nil
}

// SaveWithLock saves a customer when the stored version is the one it was loaded at
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer, meta audit.Meta) error {
	ensureVersionBump(&customer.TenantAggregateRoot)
	model := models.CustomerModelFromDomain(customer)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before models.CustomerModel
		if err := findForTenant(tx, &before, customer.TenantID, customer.ID); err != nil {
			return err
		}
		if err := updateVersioned(tx, model, customer.TenantID, customer.PersistedVersion()); err != nil {
			return err
		}
		return r.trail.Updated(ctx, tx, &before, model, meta)
	})
	if err != nil {
		return err
	}
	customer.MarkPersisted()
	return nil
}

// DeleteForTenant soft-deletes a customer after recording its last state
func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID, meta audit.Meta) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.CustomerModel
		if err := findForTenant(tx, &model, tenantID, id); err != nil {
			return err
		}
		if err := r.trail.Deleted(ctx, tx, &model, meta); err != nil {
			return err
		}
		return tx.Delete(&model).Error
	})
}

func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_type":
			query = query.Where("customer_type = ?", value)
		}
	}
	return query
}

// Ensure GormCustomerRepository implements partner.CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
