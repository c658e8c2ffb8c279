package models

import (
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LifecycleColumns holds the approval and settlement columns shared by both order tables
type LifecycleColumns struct {
	Status             trade.OrderStatus `gorm:"type:varchar(20);not null;default:'booked';index"`
	ApprovedBy         *uuid.UUID        `gorm:"type:uuid"`
	ApprovedAt         *time.Time
	FulfilledAt        *time.Time
	PaidAt             *time.Time
	PaymentCollectedBy *uuid.UUID `gorm:"type:uuid"`
	CancelledAt        *time.Time
	CancelReason       string `gorm:"type:varchar(500)"`
}

func lifecycleColumnsFromDomain(l trade.Lifecycle) LifecycleColumns {
	return LifecycleColumns{
		Status:             l.Status,
		ApprovedBy:         l.ApprovedBy,
		ApprovedAt:         l.ApprovedAt,
		FulfilledAt:        l.FulfilledAt,
		PaidAt:             l.PaidAt,
		PaymentCollectedBy: l.PaymentCollectedBy,
		CancelledAt:        l.CancelledAt,
		CancelReason:       l.CancelReason,
	}
}

func (c LifecycleColumns) toDomain() trade.Lifecycle {
	return trade.Lifecycle{
		Status:             c.Status,
		ApprovedBy:         c.ApprovedBy,
		ApprovedAt:         c.ApprovedAt,
		FulfilledAt:        c.FulfilledAt,
		PaidAt:             c.PaidAt,
		PaymentCollectedBy: c.PaymentCollectedBy,
		CancelledAt:        c.CancelledAt,
		CancelReason:       c.CancelReason,
	}
}

func (c LifecycleColumns) addAuditColumns(attrs map[string]any) {
	attrs["status"] = string(c.Status)
	attrs["approved_by"] = uuidString(c.ApprovedBy)
	attrs["approved_at"] = timeValue(c.ApprovedAt)
	attrs["fulfilled_at"] = timeValue(c.FulfilledAt)
	attrs["paid_at"] = timeValue(c.PaidAt)
	attrs["payment_collected_by"] = uuidString(c.PaymentCollectedBy)
	attrs["cancelled_at"] = timeValue(c.CancelledAt)
	attrs["cancel_reason"] = c.CancelReason
}

// SalesOrderModel is the persistence model for the SalesOrder aggregate root.
type SalesOrderModel struct {
	TenantAggregateModel
	LifecycleColumns
	OrderNumber  string            `gorm:"type:varchar(50);not null"`
	CustomerID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerName string            `gorm:"type:varchar(200);not null"`
	TotalAmount  decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	PaymentType  trade.PaymentType `gorm:"type:varchar(20);not null"`
	Remark       string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the persistence model to a domain SalesOrder.
func (m *SalesOrderModel) ToDomain() *trade.SalesOrder {
	o := &trade.SalesOrder{
		Lifecycle:    m.LifecycleColumns.toDomain(),
		OrderNumber:  m.OrderNumber,
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		TotalAmount:  m.TotalAmount,
		PaymentType:  m.PaymentType,
		Remark:       m.Remark,
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)
	return o
}

// SalesOrderModelFromDomain creates a persistence model from a domain SalesOrder.
func SalesOrderModelFromDomain(o *trade.SalesOrder) *SalesOrderModel {
	m := &SalesOrderModel{
		LifecycleColumns: lifecycleColumnsFromDomain(o.Lifecycle),
		OrderNumber:      o.OrderNumber,
		CustomerID:       o.CustomerID,
		CustomerName:     o.CustomerName,
		TotalAmount:      o.TotalAmount,
		PaymentType:      o.PaymentType,
		Remark:           o.Remark,
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	return m
}

// AuditEntityType implements audit.Subject
func (m *SalesOrderModel) AuditEntityType() string { return "sales_order" }

// AuditAttributes implements audit.Subject
func (m *SalesOrderModel) AuditAttributes() map[string]any {
	attrs := m.auditColumns()
	m.LifecycleColumns.addAuditColumns(attrs)
	attrs["order_number"] = m.OrderNumber
	attrs["customer_id"] = m.CustomerID.String()
	attrs["customer_name"] = m.CustomerName
	attrs["total_amount"] = m.TotalAmount
	attrs["payment_type"] = string(m.PaymentType)
	attrs["remark"] = m.Remark
	return attrs
}

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root.
type PurchaseOrderModel struct {
	TenantAggregateModel
	LifecycleColumns
	OrderNumber  string            `gorm:"type:varchar(50);not null"`
	SupplierID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	SupplierName string            `gorm:"type:varchar(200);not null"`
	TotalAmount  decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	PaymentType  trade.PaymentType `gorm:"type:varchar(20);not null"`
	Remark       string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// ToDomain converts the persistence model to a domain PurchaseOrder.
func (m *PurchaseOrderModel) ToDomain() *trade.PurchaseOrder {
	o := &trade.PurchaseOrder{
		Lifecycle:    m.LifecycleColumns.toDomain(),
		OrderNumber:  m.OrderNumber,
		SupplierID:   m.SupplierID,
		SupplierName: m.SupplierName,
		TotalAmount:  m.TotalAmount,
		PaymentType:  m.PaymentType,
		Remark:       m.Remark,
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)
	return o
}

// PurchaseOrderModelFromDomain creates a persistence model from a domain PurchaseOrder.
func PurchaseOrderModelFromDomain(o *trade.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		LifecycleColumns: lifecycleColumnsFromDomain(o.Lifecycle),
		OrderNumber:      o.OrderNumber,
		SupplierID:       o.SupplierID,
		SupplierName:     o.SupplierName,
		TotalAmount:      o.TotalAmount,
		PaymentType:      o.PaymentType,
		Remark:           o.Remark,
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	return m
}

// AuditEntityType implements audit.Subject
func (m *PurchaseOrderModel) AuditEntityType() string { return "purchase_order" }

// AuditAttributes implements audit.Subject
func (m *PurchaseOrderModel) AuditAttributes() map[string]any {
	attrs := m.auditColumns()
	m.LifecycleColumns.addAuditColumns(attrs)
	attrs["order_number"] = m.OrderNumber
	attrs["supplier_id"] = m.SupplierID.String()
	attrs["supplier_name"] = m.SupplierName
	attrs["total_amount"] = m.TotalAmount
	attrs["payment_type"] = string(m.PaymentType)
	attrs["remark"] = m.Remark
	return attrs
}
