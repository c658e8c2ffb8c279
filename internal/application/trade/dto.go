package trade

import (
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/shared"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateSalesOrderRequest represents a request to book a sales order
type CreateSalesOrderRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	TotalAmount decimal.Decimal `json:"total_amount" binding:"required,positive_amount"`
	PaymentType string          `json:"payment_type" binding:"required,oneof=cash credit"`
	Remark      string          `json:"remark" binding:"max=500"`
}

// UpdateSalesOrderRequest represents a change to a booked sales order
type UpdateSalesOrderRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount" binding:"required,positive_amount"`
	Remark      string          `json:"remark" binding:"max=500"`
}

// CreatePurchaseOrderRequest represents a request to book a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID   uuid.UUID       `json:"supplier_id" binding:"required"`
	SupplierName string          `json:"supplier_name" binding:"required,max=200"`
	TotalAmount  decimal.Decimal `json:"total_amount" binding:"required,positive_amount"`
	PaymentType  string          `json:"payment_type" binding:"required,oneof=cash credit"`
	Remark       string          `json:"remark" binding:"max=500"`
}

// CancelOrderRequest carries the reason for a cancellation
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderListFilter represents list filters shared by sales and purchase orders
type OrderListFilter struct {
	Search      string `form:"search"`
	Status      string `form:"status"`
	PaymentType string `form:"payment_type"`
	PartyID     string `form:"party_id" binding:"omitempty,uuid"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// toDomainFilter applies defaults and builds the repository filter
func (f OrderListFilter) toDomainFilter(partyKey string) shared.Filter {
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
	if f.PaymentType != "" {
		filter.Filters["payment_type"] = f.PaymentType
	}
	if id, err := uuid.Parse(f.PartyID); err == nil {
		filter.Filters[partyKey] = id
	}
	return filter
}

// LifecycleResponse is the approval and settlement metadata of an order
type LifecycleResponse struct {
	Status             string     `json:"status"`
	ApprovedBy         *uuid.UUID `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	FulfilledAt        *time.Time `json:"fulfilled_at,omitempty"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	PaymentCollectedBy *uuid.UUID `json:"payment_collected_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
}

func toLifecycleResponse(l trade.Lifecycle) LifecycleResponse {
	return LifecycleResponse{
		Status:             string(l.Status),
		ApprovedBy:         l.ApprovedBy,
		ApprovedAt:         l.ApprovedAt,
		FulfilledAt:        l.FulfilledAt,
		PaidAt:             l.PaidAt,
		PaymentCollectedBy: l.PaymentCollectedBy,
		CancelledAt:        l.CancelledAt,
		CancelReason:       l.CancelReason,
	}
}

// CreditCheckResponse summarises the credit check run when an order was booked
type CreditCheckResponse struct {
	AvailableCredit  decimal.Decimal `json:"available_credit"`
	UtilizationAfter decimal.Decimal `json:"utilization_after"`
	Warning          bool            `json:"warning"`
	OverLimit        bool            `json:"over_limit"`
}

// SalesOrderResponse represents a sales order in API responses
type SalesOrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaymentType  string          `json:"payment_type"`
	Remark       string          `json:"remark,omitempty"`
	LifecycleResponse
	CreatedBy *uuid.UUID           `json:"created_by,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
	Version   int                  `json:"version"`
	Credit    *CreditCheckResponse `json:"credit,omitempty"`
}

// ToSalesOrderResponse converts a domain SalesOrder to a response
func ToSalesOrderResponse(o *trade.SalesOrder) SalesOrderResponse {
	return SalesOrderResponse{
		ID:                o.ID,
		TenantID:          o.TenantID,
		OrderNumber:       o.OrderNumber,
		CustomerID:        o.CustomerID,
		CustomerName:      o.CustomerName,
		TotalAmount:       o.TotalAmount,
		PaymentType:       string(o.PaymentType),
		Remark:            o.Remark,
		LifecycleResponse: toLifecycleResponse(o.Lifecycle),
		CreatedBy:         o.CreatedBy,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		Version:           o.Version,
	}
}

// ToSalesOrderResponses converts a slice of orders
func ToSalesOrderResponses(orders []trade.SalesOrder) []SalesOrderResponse {
	out := make([]SalesOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToSalesOrderResponse(&orders[i])
	}
	return out
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	OrderNumber  string          `json:"order_number"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaymentType  string          `json:"payment_type"`
	Remark       string          `json:"remark,omitempty"`
	LifecycleResponse
	CreatedBy *uuid.UUID `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Version   int        `json:"version"`
}

// ToPurchaseOrderResponse converts a domain PurchaseOrder to a response
func ToPurchaseOrderResponse(o *trade.PurchaseOrder) PurchaseOrderResponse {
	return PurchaseOrderResponse{
		ID:                o.ID,
		TenantID:          o.TenantID,
		OrderNumber:       o.OrderNumber,
		SupplierID:        o.SupplierID,
		SupplierName:      o.SupplierName,
		TotalAmount:       o.TotalAmount,
		PaymentType:       string(o.PaymentType),
		Remark:            o.Remark,
		LifecycleResponse: toLifecycleResponse(o.Lifecycle),
		CreatedBy:         o.CreatedBy,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		Version:           o.Version,
	}
}

// ToPurchaseOrderResponses converts a slice of orders
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, len(orders))
	for i := range orders {
		out[i] = ToPurchaseOrderResponse(&orders[i])
	}
	return out
}
