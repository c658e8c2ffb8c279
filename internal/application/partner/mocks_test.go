package partner

import (
	"context"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/approval"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *partner.Customer, meta audit.Meta) error {
	args := m.Called(ctx, customer, meta)
	return args.Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer, meta audit.Meta) error {
	args := m.Called(ctx, customer, meta)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID, meta audit.Meta) error {
	args := m.Called(ctx, tenantID, id, meta)
	return args.Error(0)
}

// MockApprovalRepository is a mock implementation of approval.RequestRepository
type MockApprovalRepository struct {
	mock.Mock
}

func (m *MockApprovalRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*approval.Request, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approval.Request), args.Error(1)
}

func (m *MockApprovalRepository) FindLatestForDocument(ctx context.Context, tenantID uuid.UUID, kind policy.DocumentKind, referenceID uuid.UUID) (*approval.Request, error) {
	args := m.Called(ctx, tenantID, kind, referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*approval.Request), args.Error(1)
}

func (m *MockApprovalRepository) Create(ctx context.Context, req *approval.Request, meta audit.Meta) error {
	args := m.Called(ctx, req, meta)
	return args.Error(0)
}

func (m *MockApprovalRepository) SaveWithLock(ctx context.Context, req *approval.Request, meta audit.Meta) error {
	args := m.Called(ctx, req, meta)
	return args.Error(0)
}

// MockRuleRecorder is a mock implementation of policy.RuleRecorder
type MockRuleRecorder struct {
	mock.Mock
}

func (m *MockRuleRecorder) RecordRuleError(ctx context.Context, tenantID string, err error) {
	m.Called(ctx, tenantID, err)
}

func (m *MockRuleRecorder) RecordCreditWarning(ctx context.Context, tenantID string) {
	m.Called(ctx, tenantID)
}

// staticPolicies serves one policy to every tenant
type staticPolicies struct {
	policy policy.TenantPolicy
}

func (p staticPolicies) ForTenant(context.Context, uuid.UUID) policy.TenantPolicy {
	return p.policy
}

func (p staticPolicies) Guards(ctx context.Context, tenantID uuid.UUID) policy.Guards {
	return policy.NewGuards(p.ForTenant(ctx, tenantID))
}
