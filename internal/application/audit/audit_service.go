// Package audit serves read access to the audit log. Entries are written by
// the persistence layer and are never changed here.
package audit

import (
	"context"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
)

// LogService lists audit entries
type LogService struct {
	repo audit.Repository
}

// NewLogService creates a new LogService
func NewLogService(repo audit.Repository) *LogService {
	return &LogService{repo: repo}
}

// ListByEntity returns the history of one entity, newest first unless asked otherwise
func (s *LogService) ListByEntity(ctx context.Context, tenantID uuid.UUID, q EntityLogQuery) (shared.Paginated[EntryResponse], error) {
	entityID, err := uuid.Parse(q.EntityID)
	if err != nil {
		return shared.Paginated[EntryResponse]{}, shared.NewDomainError("INVALID_ENTITY_ID", "Entity ID must be a UUID")
	}
	filter := pageFilter(q.Page, q.PageSize, q.OrderDir, q.Action)
	entries, total, err := s.repo.FindByEntity(ctx, tenantID, q.EntityType, entityID, filter)
	if err != nil {
		return shared.Paginated[EntryResponse]{}, err
	}
	return shared.NewPaginated(ToEntryResponses(entries), total, filter.Page, filter.PageSize), nil
}

// ListByActor returns the entries written by one user
func (s *LogService) ListByActor(ctx context.Context, tenantID uuid.UUID, q ActorLogQuery) (shared.Paginated[EntryResponse], error) {
	actorID, err := uuid.Parse(q.ActorID)
	if err != nil {
		return shared.Paginated[EntryResponse]{}, shared.NewDomainError("INVALID_ACTOR_ID", "Actor ID must be a UUID")
	}
	filter := pageFilter(q.Page, q.PageSize, "", q.Action)
	entries, total, err := s.repo.FindByActor(ctx, tenantID, actorID, filter)
	if err != nil {
		return shared.Paginated[EntryResponse]{}, err
	}
	return shared.NewPaginated(ToEntryResponses(entries), total, filter.Page, filter.PageSize), nil
}
