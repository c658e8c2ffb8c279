package audit

import (
	"testing"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSubject struct {
	id    uuid.UUID
	attrs map[string]any
}

func (s testSubject) AuditEntityType() string         { return "users" }
func (s testSubject) AuditEntityID() uuid.UUID        { return s.id }
func (s testSubject) AuditAttributes() map[string]any { return s.attrs }

func newSubject(attrs map[string]any) testSubject {
	return testSubject{id: uuid.New(), attrs: attrs}
}

func fixedMeta() Meta {
	return NewMeta(shared.NewActor(uuid.New(), uuid.New(), "admin"))
}

func TestMirror_Created(t *testing.T) {
	m := NewMirror()
	s := newSubject(map[string]any{
		"username":      "kunle",
		"password_hash": "$2a$12$abc",
		"updated_at":    time.Now(),
		"created_at":    time.Now(),
		"version":       1,
	})

	entry := m.Created(s, fixedMeta().WithReason("onboarding"))
	require.NotNil(t, entry)

	assert.Equal(t, ActionCreated, entry.Action)
	assert.Nil(t, entry.OldValues)
	assert.Equal(t, map[string]any{
		"username":      "kunle",
		"password_hash": RedactedMarker,
	}, entry.NewValues)
	assert.Equal(t, "onboarding", entry.Reason)
	assert.Equal(t, s.id, entry.EntityID)
	assert.Equal(t, "users", entry.EntityType)
}

func TestMirror_Updated(t *testing.T) {
	m := NewMirror()

	t.Run("only updated_at changed emits nothing", func(t *testing.T) {
		before := newSubject(map[string]any{"name": "A", "updated_at": time.Unix(100, 0)})
		after := testSubject{id: before.id, attrs: map[string]any{"name": "A", "updated_at": time.Unix(200, 0)}}

		assert.Nil(t, m.Updated(before, after, fixedMeta()))
		// re-running the empty diff is still silent
		assert.Nil(t, m.Updated(before, after, fixedMeta()))
	})

	t.Run("password change is redacted on both sides", func(t *testing.T) {
		before := newSubject(map[string]any{"password": "a", "name": "A"})
		after := testSubject{id: before.id, attrs: map[string]any{"password": "b", "name": "A"}}

		entry := m.Updated(before, after, fixedMeta())
		require.NotNil(t, entry)
		assert.Equal(t, ActionUpdated, entry.Action)
		assert.Equal(t, RedactedMarker, entry.NewValues["password"])
		assert.Equal(t, RedactedMarker, entry.OldValues["password"])
		assert.NotContains(t, entry.NewValues, "name")
	})

	t.Run("carries exactly the changed keys", func(t *testing.T) {
		before := newSubject(map[string]any{
			"credit_limit": decimal.RequireFromString("5000000.0000"),
			"credit_used":  decimal.NewFromInt(100),
			"status":       "active",
			"version":      3,
		})
		after := testSubject{id: before.id, attrs: map[string]any{
			"credit_limit": decimal.NewFromInt(5_000_000),
			"credit_used":  decimal.NewFromInt(250),
			"status":       "active",
			"version":      4,
		}}

		entry := m.Updated(before, after, fixedMeta())
		require.NotNil(t, entry)
		assert.ElementsMatch(t, []string{"credit_used"}, entry.ChangedKeys())
		assert.True(t, decimal.NewFromInt(100).Equal(entry.OldValues["credit_used"].(decimal.Decimal)))
		assert.True(t, decimal.NewFromInt(250).Equal(entry.NewValues["credit_used"].(decimal.Decimal)))
	})

	t.Run("removed attribute becomes nil", func(t *testing.T) {
		before := newSubject(map[string]any{"remark": "x"})
		after := testSubject{id: before.id, attrs: map[string]any{}}

		entry := m.Updated(before, after, fixedMeta())
		require.NotNil(t, entry)
		assert.Equal(t, "x", entry.OldValues["remark"])
		assert.Contains(t, entry.NewValues, "remark")
		assert.Nil(t, entry.NewValues["remark"])
	})

	t.Run("nil time pointers compare equal", func(t *testing.T) {
		var nilTime *time.Time
		before := newSubject(map[string]any{"approved_at": nilTime})
		after := testSubject{id: before.id, attrs: map[string]any{"approved_at": nilTime}}
		assert.Nil(t, m.Updated(before, after, fixedMeta()))
	})
}

func TestMirror_Deleted(t *testing.T) {
	m := NewMirror()
	s := newSubject(map[string]any{"code": "C001", "api_token": "tok", "deleted_at": nil})

	entry := m.Deleted(s, fixedMeta())
	require.NotNil(t, entry)
	assert.Equal(t, ActionDeleted, entry.Action)
	assert.Nil(t, entry.NewValues)
	assert.Equal(t, map[string]any{"code": "C001", "api_token": RedactedMarker}, entry.OldValues)
}

func TestMirror_IsSensitive(t *testing.T) {
	m := NewMirror()

	for _, name := range []string{"password", "PASSWORD_HASH", "ResetToken", "client_secret", "card_number", "CVV", "CardCvv"} {
		assert.True(t, m.IsSensitive(name), name)
	}
	for _, name := range []string{"name", "credit_limit", "status"} {
		assert.False(t, m.IsSensitive(name), name)
	}
}

func TestMirror_Options(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	m := NewMirror(
		WithExcludedAttributes("last_login_at"),
		WithSensitivePatterns("pin"),
		WithClock(func() time.Time { return at }),
	)

	entry := m.Created(newSubject(map[string]any{"pin": "1234", "last_login_at": at, "name": "x"}), fixedMeta())
	require.NotNil(t, entry)
	assert.Equal(t, map[string]any{"pin": RedactedMarker, "name": "x"}, entry.NewValues)
	assert.Equal(t, at, entry.CreatedAt)
}

func TestMirror_ActorFromMeta(t *testing.T) {
	m := NewMirror()
	actor := shared.NewActor(uuid.New(), uuid.New())
	actor.IPAddress = "10.0.0.8"
	actor.UserAgent = "curl/8"

	entry := m.Created(newSubject(map[string]any{"name": "x"}), NewMeta(actor).WithReference("SO-0001"))
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, actor.UserID, *entry.ActorID)
	assert.Equal(t, actor.TenantID, entry.TenantID)
	assert.Equal(t, "SO-0001", entry.Reference)
	assert.Equal(t, "10.0.0.8", entry.IPAddress)
	assert.Equal(t, "curl/8", entry.UserAgent)

	system := m.Created(newSubject(map[string]any{"name": "x"}), NewMeta(shared.SystemActor(actor.TenantID)))
	assert.Nil(t, system.ActorID)
}

func TestAction_IsValid(t *testing.T) {
	for _, a := range AllActions() {
		assert.True(t, a.IsValid())
	}
	assert.False(t, Action("archived").IsValid())
}
