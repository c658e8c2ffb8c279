package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRoleRepository implements identity.RoleRepository using GORM
type GormRoleRepository struct {
	db    *gorm.DB
	trail *AuditTrail
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB, trail *AuditTrail) *GormRoleRepository {
	return &GormRoleRepository{db: db, trail: trail}
}

// FindByIDForTenant finds a role by ID within a tenant
func (r *GormRoleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	var model models.RoleModel
	if err := findForTenant(r.db.WithContext(ctx), &model, tenantID, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a role by code within a tenant
func (r *GormRoleRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToLower(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds several roles of a tenant
func (r *GormRoleRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.Role, error) {
	if len(ids) == 0 {
		return []identity.Role{}, nil
	}
	var roleModels []models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("code ASC").
		Find(&roleModels).Error; err != nil {
		return nil, err
	}
	roles := make([]identity.Role, len(roleModels))
	for i := range roleModels {
		roles[i] = *roleModels[i].ToDomain()
	}
	return roles, nil
}

// Create inserts a role and its audit entry
func (r *GormRoleRepository) Create(ctx context.Context, role *identity.Role, meta audit.Meta) error {
	model := models.RoleModelFromDomain(role)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return mapUniqueViolation(err)
		}
		return r.trail.Created(ctx, tx, model, meta)
	})
	if err != nil {
		return err
	}
	role.MarkPersisted()
	return nil
}

// Ensure GormRoleRepository implements identity.RoleRepository
var _ identity.RoleRepository = (*GormRoleRepository)(nil)
