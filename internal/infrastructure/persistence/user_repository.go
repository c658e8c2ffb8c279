package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/identity"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db    *gorm.DB
	trail *AuditTrail
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB, trail *AuditTrail) *GormUserRepository {
	return &GormUserRepository{db: db, trail: trail}
}

// FindByIDForTenant finds a user with its roles
func (r *GormUserRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	db := r.db.WithContext(ctx)
	var model models.UserModel
	if err := findForTenant(db, &model, tenantID, id); err != nil {
		return nil, err
	}
	if err := loadUserRoles(db, &model); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by username within a tenant
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	db := r.db.WithContext(ctx)
	var model models.UserModel
	if err := db.Where("tenant_id = ? AND username = ?", tenantID, strings.ToLower(username)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := loadUserRoles(db, &model); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByUsername checks if a username is taken within a tenant
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("tenant_id = ? AND username = ?", tenantID, strings.ToLower(username)).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a user, its role links and the audit entry
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User, meta audit.Meta) error {
	model := models.UserModelFromDomain(user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return mapUniqueViolation(err)
		}
		if err := replaceUserRoles(tx, model); err != nil {
			return err
		}
		return r.trail.Created(ctx, tx, model, meta)
	})
	if err != nil {
		return err
	}
	user.MarkPersisted()
	return nil
}

// SaveWithLock saves a user and its role links with optimistic locking
func (r *GormUserRepository) SaveWithLock(ctx context.Context, user *identity.User, meta audit.Meta) error {
	ensureVersionBump(&user.TenantAggregateRoot)
	model := models.UserModelFromDomain(user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before models.UserModel
		if err := findForTenant(tx, &before, user.TenantID, user.ID); err != nil {
			return err
		}
		if err := loadUserRoles(tx, &before); err != nil {
			return err
		}
		if err := updateVersioned(tx, model, user.TenantID, user.PersistedVersion()); err != nil {
			return err
		}
		if err := replaceUserRoles(tx, model); err != nil {
			return err
		}
		return r.trail.Updated(ctx, tx, &before, model, meta)
	})
	if err != nil {
		return err
	}
	user.MarkPersisted()
	return nil
}

func loadUserRoles(tx *gorm.DB, model *models.UserModel) error {
	return tx.Where("user_id = ?", model.ID).Order("role_code ASC").Find(&model.Roles).Error
}

func replaceUserRoles(tx *gorm.DB, model *models.UserModel) error {
	if err := tx.Where("user_id = ?", model.ID).Delete(&models.UserRoleModel{}).Error; err != nil {
		return err
	}
	if len(model.Roles) == 0 {
		return nil
	}
	now := time.Now()
	for i := range model.Roles {
		model.Roles[i].CreatedAt = now
	}
	return tx.Create(&model.Roles).Error
}

// Ensure GormUserRepository implements identity.UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)
