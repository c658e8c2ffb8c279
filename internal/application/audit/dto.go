package audit

import (
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
)

// EntityLogQuery selects the log of one entity
type EntityLogQuery struct {
	EntityType string `form:"entity_type" binding:"required,max=50"`
	EntityID   string `form:"entity_id" binding:"required,uuid"`
	Action     string `form:"action" binding:"omitempty,oneof=created updated deleted"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ActorLogQuery selects the entries written by one user
type ActorLogQuery struct {
	ActorID  string `form:"actor_id" binding:"required,uuid"`
	Action   string `form:"action" binding:"omitempty,oneof=created updated deleted"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func pageFilter(page, pageSize int, orderDir, action string) shared.Filter {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	if action != "" {
		filter.Filters["action"] = action
	}
	return filter
}

// EntryResponse is one audit log entry as returned by the API
type EntryResponse struct {
	ID         uuid.UUID      `json:"id"`
	Action     string         `json:"action"`
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"`
	EntityType string         `json:"entity_type"`
	EntityID   uuid.UUID      `json:"entity_id"`
	OldValues  map[string]any `json:"old_values,omitempty"`
	NewValues  map[string]any `json:"new_values,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Reference  string         `json:"reference,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ToEntryResponse converts a domain entry
func ToEntryResponse(e *audit.Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		Action:     string(e.Action),
		ActorID:    e.ActorID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		OldValues:  e.GetOldValues(),
		NewValues:  e.GetNewValues(),
		Reason:     e.Reason,
		Reference:  e.Reference,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		CreatedAt:  e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of domain entries
func ToEntryResponses(entries []audit.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	return out
}
