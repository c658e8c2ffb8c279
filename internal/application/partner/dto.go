package partner

import (
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code             string           `json:"code" binding:"required,min=1,max=50"`
	Name             string           `json:"name" binding:"required,min=1,max=200"`
	Type             string           `json:"type" binding:"required,oneof=cash credit both"`
	Phone            string           `json:"phone" binding:"max=50"`
	Email            string           `json:"email" binding:"omitempty,email,max=200"`
	Address          string           `json:"address" binding:"max=500"`
	CreditLimit      *decimal.Decimal `json:"credit_limit" binding:"omitempty,nonnegative_amount"`
	PaymentTermsDays *int             `json:"payment_terms_days" binding:"omitempty,min=0,max=365"`
	Notes            string           `json:"notes"`
}

// UpdateCreditLimitRequest changes a customer's credit limit.
// Increases past the tenant threshold need an approved credit_limit_change request.
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required,nonnegative_amount"`
	Reason      string          `json:"reason" binding:"max=500"`
}

// BlockCustomerRequest carries the reason for blocking a customer
type BlockCustomerRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	Phone             string          `json:"phone"`
	Email             string          `json:"email"`
	Address           string          `json:"address"`
	CreditLimit       decimal.Decimal `json:"credit_limit"`
	CreditUsed        decimal.Decimal `json:"credit_used"`
	AvailableCredit   decimal.Decimal `json:"available_credit"`
	CreditUtilization decimal.Decimal `json:"credit_utilization"`
	PaymentTermsDays  int             `json:"payment_terms_days"`
	BlockReason       string          `json:"block_reason,omitempty"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive blocked"`
	Type     string `form:"type" binding:"omitempty,oneof=cash credit both"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f CustomerListFilter) toDomainFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	filter.Search = f.Search
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.Type != "" {
		filter.Filters["customer_type"] = f.Type
	}
	return filter
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                c.ID,
		TenantID:          c.TenantID,
		Code:              c.Code,
		Name:              c.Name,
		Type:              string(c.Type),
		Status:            string(c.Status),
		Phone:             c.Phone,
		Email:             c.Email,
		Address:           c.Address,
		CreditLimit:       c.CreditLimit,
		CreditUsed:        c.CreditUsed,
		AvailableCredit:   c.AvailableCredit(),
		CreditUtilization: c.CreditUtilization(),
		PaymentTermsDays:  c.PaymentTermsDays,
		BlockReason:       c.BlockReason,
		Notes:             c.Notes,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
		Version:           c.Version,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
