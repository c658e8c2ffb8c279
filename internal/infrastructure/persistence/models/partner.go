package models

import (
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	TenantAggregateModel
	Code             string                 `gorm:"type:varchar(50);not null"`
	Name             string                 `gorm:"type:varchar(200);not null"`
	Type             partner.CustomerType   `gorm:"column:customer_type;type:varchar(20);not null"`
	Status           partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Phone            string                 `gorm:"type:varchar(50)"`
	Email            string                 `gorm:"type:varchar(200)"`
	Address          string                 `gorm:"type:text"`
	CreditLimit      decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	CreditUsed       decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentTermsDays int                    `gorm:"not null;default:0"`
	BlockReason      string                 `gorm:"type:varchar(500)"`
	Notes            string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	c := &partner.Customer{
		Code:             m.Code,
		Name:             m.Name,
		Type:             m.Type,
		Status:           m.Status,
		Phone:            m.Phone,
		Email:            m.Email,
		Address:          m.Address,
		CreditLimit:      m.CreditLimit,
		CreditUsed:       m.CreditUsed,
		PaymentTermsDays: m.PaymentTermsDays,
		BlockReason:      m.BlockReason,
		Notes:            m.Notes,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CustomerModelFromDomain creates a persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Code:             c.Code,
		Name:             c.Name,
		Type:             c.Type,
		Status:           c.Status,
		Phone:            c.Phone,
		Email:            c.Email,
		Address:          c.Address,
		CreditLimit:      c.CreditLimit,
		CreditUsed:       c.CreditUsed,
		PaymentTermsDays: c.PaymentTermsDays,
		BlockReason:      c.BlockReason,
		Notes:            c.Notes,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// AuditEntityType implements audit.Subject
func (m *CustomerModel) AuditEntityType() string { return "customer" }

// AuditAttributes implements audit.Subject
func (m *CustomerModel) AuditAttributes() map[string]any {
	attrs := m.auditColumns()
	attrs["code"] = m.Code
	attrs["name"] = m.Name
	attrs["customer_type"] = string(m.Type)
	attrs["status"] = string(m.Status)
	attrs["phone"] = m.Phone
	attrs["email"] = m.Email
	attrs["address"] = m.Address
	attrs["credit_limit"] = m.CreditLimit
	attrs["credit_used"] = m.CreditUsed
	attrs["payment_terms_days"] = m.PaymentTermsDays
	attrs["block_reason"] = m.BlockReason
	attrs["notes"] = m.Notes
	return attrs
}
