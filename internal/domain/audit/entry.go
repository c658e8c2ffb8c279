// Package audit records every mutation of an auditable entity as an
// immutable log entry.
package audit

import (
	"maps"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
)

// Action is the kind of mutation an entry records
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// IsValid returns true if the action is a known value
func (a Action) IsValid() bool {
	switch a {
	case ActionCreated, ActionUpdated, ActionDeleted:
		return true
	}
	return false
}

// AllActions returns all valid actions
func AllActions() []Action {
	return []Action{ActionCreated, ActionUpdated, ActionDeleted}
}

// Entry is one immutable audit record.
// OldValues is nil for creations and NewValues is nil for deletions.
type Entry struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Action     Action
	ActorID    *uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	OldValues  map[string]any
	NewValues  map[string]any
	Reason     string
	Reference  string
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

// GetOldValues returns a copy of the old values
func (e *Entry) GetOldValues() map[string]any {
	return maps.Clone(e.OldValues)
}

// GetNewValues returns a copy of the new values
func (e *Entry) GetNewValues() map[string]any {
	return maps.Clone(e.NewValues)
}

// ChangedKeys returns the attribute names the entry carries
func (e *Entry) ChangedKeys() []string {
	src := e.NewValues
	if src == nil {
		src = e.OldValues
	}
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	return keys
}

// Meta is the caller-supplied context of a mutation.
// Reason and Reference apply to the single write they are passed with.
type Meta struct {
	Actor     shared.Actor
	Reason    string
	Reference string
}

// NewMeta creates meta for a write performed by actor
func NewMeta(actor shared.Actor) Meta {
	return Meta{Actor: actor}
}

// WithReason returns a copy carrying the reason
func (m Meta) WithReason(reason string) Meta {
	m.Reason = reason
	return m
}

// WithReference returns a copy carrying the reference
func (m Meta) WithReference(reference string) Meta {
	m.Reference = reference
	return m
}

// Subject is implemented by anything the mirror can record.
// Attribute names are the stored column names.
type Subject interface {
	AuditEntityType() string
	AuditEntityID() uuid.UUID
	AuditAttributes() map[string]any
}
