package persistence

import (
	"context"
	"errors"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/approval"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormApprovalRequestRepository implements approval.RequestRepository using GORM
type GormApprovalRequestRepository struct {
	db    *gorm.DB
	trail *AuditTrail
}

// NewGormApprovalRequestRepository creates a new GormApprovalRequestRepository
func NewGormApprovalRequestRepository(db *gorm.DB, trail *AuditTrail) *GormApprovalRequestRepository {
	return &GormApprovalRequestRepository{db: db, trail: trail}
}

// FindByIDForTenant finds a request by ID within a tenant
func (r *GormApprovalRequestRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*approval.Request, error) {
	var model models.ApprovalRequestModel
	if err := findForTenant(r.db.WithContext(ctx), &model, tenantID, id); err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatestForDocument returns the most recent request for a document
func (r *GormApprovalRequestRepository) FindLatestForDocument(ctx context.Context, tenantID uuid.UUID, kind policy.DocumentKind, referenceID uuid.UUID) (*approval.Request, error) {
	var model models.ApprovalRequestModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND document_kind = ? AND reference_id = ?", tenantID, kind, referenceID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a request and its audit entry
func (r *GormApprovalRequestRepository) Create(ctx context.Context, req *approval.Request, meta audit.Meta) error {
	model := models.ApprovalRequestModelFromDomain(req)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return r.trail.Created(ctx, tx, model, meta)
	})
	if err != nil {
		return err
	}
	req.MarkPersisted()
	return nil
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormApprovalRequestRepository) SaveWithLock(ctx context.Context, req *approval.Request, meta audit.Meta) error {
	ensureVersionBump(&req.TenantAggregateRoot)
	model := models.ApprovalRequestModelFromDomain(req)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before models.ApprovalRequestModel
		if err := findForTenant(tx, &before, req.TenantID, req.ID); err != nil {
			return err
		}
		if err := updateVersioned(tx, model, req.TenantID, req.PersistedVersion()); err != nil {
			return err
		}
		return r.trail.Updated(ctx, tx, &before, model, meta)
	})
	if err != nil {
		return err
	}
	req.MarkPersisted()
	return nil
}

// Ensure GormApprovalRequestRepository implements approval.RequestRepository
var _ approval.RequestRepository = (*GormApprovalRequestRepository)(nil)
