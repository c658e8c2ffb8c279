package persistence

import (
	"errors"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// immutableColumns are never rewritten by an update
var immutableColumns = []string{"id", "tenant_id", "created_by", "created_at", "deleted_at"}

// findForTenant loads one row of the tenant into dest
func findForTenant(tx *gorm.DB, dest any, tenantID, id uuid.UUID) error {
	if err := tx.Where("tenant_id = ? AND id = ?", tenantID, id).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return err
	}
	return nil
}

// findForUpdate loads one row of the tenant and locks it until the transaction ends
func findForUpdate(tx *gorm.DB, dest any, tenantID, id uuid.UUID) error {
	return findForTenant(tx.Clauses(clause.Locking{Strength: "UPDATE"}), dest, tenantID, id)
}

// updateVersioned writes every mutable column of model when the stored
// version still equals expected. Zero values are written too.
func updateVersioned(tx *gorm.DB, model any, tenantID uuid.UUID, expected int) error {
	result := tx.Model(model).
		Where("tenant_id = ? AND version = ?", tenantID, expected).
		Select("*").
		Omit(immutableColumns...).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrOptimisticLock
	}
	return nil
}

// ensureVersionBump makes sure a save moves the version past the stored one
func ensureVersionBump(root *shared.TenantAggregateRoot) {
	if root.Version <= root.PersistedVersion() {
		root.IncrementVersion()
	}
}

// mapUniqueViolation turns a duplicate key error into shared.ErrAlreadyExists
func mapUniqueViolation(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}
