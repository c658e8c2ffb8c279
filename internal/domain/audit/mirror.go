package audit

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// RedactedMarker replaces the value of sensitive attributes
const RedactedMarker = "[REDACTED]"

var (
	defaultExcluded  = []string{"created_at", "updated_at", "deleted_at", "version"}
	defaultSensitive = []string{"password", "token", "secret", "card", "cvv"}
)

// Mirror turns entity snapshots into audit entries.
// It never writes; the persistence layer stores what it returns.
type Mirror struct {
	excluded  map[string]struct{}
	sensitive []string
	now       func() time.Time
}

// MirrorOption configures a Mirror
type MirrorOption func(*Mirror)

// WithExcludedAttributes adds attributes that never appear in entries
func WithExcludedAttributes(names ...string) MirrorOption {
	return func(m *Mirror) {
		for _, n := range names {
			m.excluded[fold(n)] = struct{}{}
		}
	}
}

// WithSensitivePatterns adds name fragments whose values are redacted
func WithSensitivePatterns(patterns ...string) MirrorOption {
	return func(m *Mirror) {
		for _, p := range patterns {
			m.sensitive = append(m.sensitive, fold(p))
		}
	}
}

// WithClock overrides the entry timestamp source
func WithClock(now func() time.Time) MirrorOption {
	return func(m *Mirror) {
		m.now = now
	}
}

// NewMirror creates a mirror with the default exclusions and sensitive patterns
func NewMirror(opts ...MirrorOption) *Mirror {
	m := &Mirror{
		excluded: make(map[string]struct{}),
		now:      time.Now,
	}
	WithExcludedAttributes(defaultExcluded...)(m)
	WithSensitivePatterns(defaultSensitive...)(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Created records a new entity. Old values are nil.
func (m *Mirror) Created(s Subject, meta Meta) *Entry {
	return m.entry(ActionCreated, s, meta, nil, m.filter(s.AuditAttributes()))
}

// Updated records the attributes that differ between before and after.
// It returns nil when nothing outside the excluded set changed.
func (m *Mirror) Updated(before, after Subject, meta Meta) *Entry {
	oldAttrs := before.AuditAttributes()
	newAttrs := after.AuditAttributes()

	oldValues := make(map[string]any)
	newValues := make(map[string]any)
	for key, newVal := range newAttrs {
		if m.IsExcluded(key) {
			continue
		}
		oldVal, existed := oldAttrs[key]
		if existed && equalValues(oldVal, newVal) {
			continue
		}
		oldValues[key] = m.redact(key, oldVal)
		newValues[key] = m.redact(key, newVal)
	}
	for key, oldVal := range oldAttrs {
		if _, still := newAttrs[key]; still || m.IsExcluded(key) {
			continue
		}
		oldValues[key] = m.redact(key, oldVal)
		newValues[key] = nil
	}

	if len(newValues) == 0 {
		return nil
	}
	return m.entry(ActionUpdated, after, meta, oldValues, newValues)
}

// Deleted records the last known attributes. New values are nil.
func (m *Mirror) Deleted(s Subject, meta Meta) *Entry {
	return m.entry(ActionDeleted, s, meta, m.filter(s.AuditAttributes()), nil)
}

// IsExcluded reports whether the attribute is left out of entries
func (m *Mirror) IsExcluded(name string) bool {
	_, ok := m.excluded[fold(name)]
	return ok
}

// IsSensitive reports whether the attribute name contains a sensitive fragment
func (m *Mirror) IsSensitive(name string) bool {
	folded := fold(name)
	for _, p := range m.sensitive {
		if strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

func (m *Mirror) entry(action Action, s Subject, meta Meta, oldValues, newValues map[string]any) *Entry {
	return &Entry{
		ID:         uuid.New(),
		TenantID:   meta.Actor.TenantID,
		Action:     action,
		ActorID:    meta.Actor.UserRef(),
		EntityType: s.AuditEntityType(),
		EntityID:   s.AuditEntityID(),
		OldValues:  oldValues,
		NewValues:  newValues,
		Reason:     meta.Reason,
		Reference:  meta.Reference,
		IPAddress:  meta.Actor.IPAddress,
		UserAgent:  meta.Actor.UserAgent,
		CreatedAt:  m.now(),
	}
}

func (m *Mirror) filter(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for key, val := range attrs {
		if m.IsExcluded(key) {
			continue
		}
		out[key] = m.redact(key, val)
	}
	return out
}

func (m *Mirror) redact(key string, val any) any {
	if m.IsSensitive(key) {
		return RedactedMarker
	}
	return val
}

// fold applies Unicode case folding; a Caser is not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

func equalValues(a, b any) bool {
	switch av := a.(type) {
	case decimal.Decimal:
		if bv, ok := b.(decimal.Decimal); ok {
			return av.Equal(bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Equal(bv)
		}
	case *time.Time:
		if bv, ok := b.(*time.Time); ok {
			if av == nil || bv == nil {
				return av == bv
			}
			return av.Equal(*bv)
		}
	}
	return reflect.DeepEqual(a, b)
}
