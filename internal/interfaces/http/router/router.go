// Package router assembles the gin engine and the /api/v1 routes.
package router

import (
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/logger"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/interfaces/http/handler"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Permission codes checked per route
const (
	PermCustomerRead      = "customer:read"
	PermCustomerCreate    = "customer:create"
	PermCustomerUpdate    = "customer:update"
	PermCustomerDelete    = "customer:delete"
	PermCreditLimitUpdate = "customer:change_credit_limit"
	PermSalesOrderRead    = "sales_order:read"
	PermSalesOrderCreate  = "sales_order:create"
	PermSalesOrderUpdate  = "sales_order:update"
	PermSalesOrderApprove = "sales_order:approve"
	PermSalesOrderFulfill = "sales_order:fulfill"
	PermSalesOrderPay     = "sales_order:pay"
	PermPurchaseRead      = "purchase_order:read"
	PermPurchaseCreate    = "purchase_order:create"
	PermPurchaseApprove   = "purchase_order:approve"
	PermPurchaseReceive   = "purchase_order:receive"
	PermPurchasePay       = "purchase_order:pay"
	PermApprovalRead      = "approval:read"
	PermApprovalCreate    = "approval:create"
	PermApprovalDecide    = "approval:decide"
	PermUserRead          = "user:read"
	PermUserCreate        = "user:create"
	PermUserAssignRole    = "user:assign_role"
	PermAuditRead         = "audit_log:read"
)

// Config holds everything the router needs
type Config struct {
	ServiceName    string
	Logger         *zap.Logger
	Tokens         middleware.TokenValidator
	TracingEnabled bool
	// ProfilingEnabled labels request goroutines for the continuous profiler
	ProfilingEnabled bool
	TrustedProxies   []string
	MaxBodyBytes     int64

	Health         *handler.HealthHandler
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Customers      *handler.CustomerHandler
	SalesOrders    *handler.SalesOrderHandler
	PurchaseOrders *handler.PurchaseOrderHandler
	Approvals      *handler.ApprovalHandler
	AuditLogs      *handler.AuditLogHandler
}

// New builds the gin engine
func New(cfg Config) (*gin.Engine, error) {
	middleware.SetupValidator()

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	r.Use(middleware.RequestID())
	if cfg.TracingEnabled {
		r.Use(middleware.Tracing(cfg.ServiceName))
	}
	if cfg.ProfilingEnabled {
		r.Use(middleware.ProfilingLabels())
	}
	r.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.BodyLimit(maxBody),
	)

	if cfg.Health != nil {
		r.GET("/health", cfg.Health.Health)
	}

	api := r.Group("/api/v1")
	api.POST("/auth/login", cfg.Auth.Login)

	protected := api.Group("")
	protected.Use(
		middleware.Authenticate(middleware.AuthConfig{Tokens: cfg.Tokens, Logger: log}),
		middleware.SpanAttributes(),
	)
	perm := middleware.RequirePermission

	customers := protected.Group("/customers")
	customers.POST("", perm(PermCustomerCreate), cfg.Customers.Create)
	customers.GET("", perm(PermCustomerRead), cfg.Customers.List)
	customers.GET("/:id", perm(PermCustomerRead), cfg.Customers.GetByID)
	customers.PUT("/:id/credit-limit", perm(PermCreditLimitUpdate), cfg.Customers.UpdateCreditLimit)
	customers.POST("/:id/block", perm(PermCustomerUpdate), cfg.Customers.Block)
	customers.POST("/:id/activate", perm(PermCustomerUpdate), cfg.Customers.Activate)
	customers.POST("/:id/deactivate", perm(PermCustomerUpdate), cfg.Customers.Deactivate)
	customers.DELETE("/:id", perm(PermCustomerDelete), cfg.Customers.Delete)

	sales := protected.Group("/sales-orders")
	sales.POST("", perm(PermSalesOrderCreate), cfg.SalesOrders.Create)
	sales.GET("", perm(PermSalesOrderRead), cfg.SalesOrders.List)
	sales.GET("/:id", perm(PermSalesOrderRead), cfg.SalesOrders.GetByID)
	sales.PUT("/:id", perm(PermSalesOrderUpdate), cfg.SalesOrders.Update)
	sales.POST("/:id/approve", perm(PermSalesOrderApprove), cfg.SalesOrders.Approve)
	sales.POST("/:id/fulfill", perm(PermSalesOrderFulfill), cfg.SalesOrders.Fulfill)
	sales.POST("/:id/pay", perm(PermSalesOrderPay), cfg.SalesOrders.Pay)
	sales.POST("/:id/cancel", perm(PermSalesOrderUpdate), cfg.SalesOrders.Cancel)

	purchases := protected.Group("/purchase-orders")
	purchases.POST("", perm(PermPurchaseCreate), cfg.PurchaseOrders.Create)
	purchases.GET("", perm(PermPurchaseRead), cfg.PurchaseOrders.List)
	purchases.GET("/:id", perm(PermPurchaseRead), cfg.PurchaseOrders.GetByID)
	purchases.POST("/:id/approve", perm(PermPurchaseApprove), cfg.PurchaseOrders.Approve)
	purchases.POST("/:id/receive", perm(PermPurchaseReceive), cfg.PurchaseOrders.Receive)
	purchases.POST("/:id/pay", perm(PermPurchasePay), cfg.PurchaseOrders.Pay)
	purchases.POST("/:id/cancel", perm(PermPurchaseCreate), cfg.PurchaseOrders.Cancel)

	approvals := protected.Group("/approvals")
	approvals.POST("", perm(PermApprovalCreate), cfg.Approvals.Create)
	approvals.POST("/check", perm(PermApprovalRead, PermApprovalCreate), cfg.Approvals.Check)
	approvals.GET("/:id", perm(PermApprovalRead), cfg.Approvals.GetByID)
	approvals.POST("/:id/approve", perm(PermApprovalDecide), cfg.Approvals.Approve)
	approvals.POST("/:id/reject", perm(PermApprovalDecide), cfg.Approvals.Reject)

	users := protected.Group("/users")
	users.POST("", perm(PermUserCreate), cfg.Users.Create)
	users.GET("/me", cfg.Users.Me)
	users.GET("/:id", perm(PermUserRead), cfg.Users.GetByID)
	users.PUT("/:id/password", cfg.Users.ChangePassword)
	users.POST("/:id/roles", perm(PermUserAssignRole), cfg.Users.AssignRole)
	users.DELETE("/:id/roles/:role_id", perm(PermUserAssignRole), cfg.Users.RemoveRole)

	audit := protected.Group("/audit-logs")
	audit.GET("", perm(PermAuditRead), cfg.AuditLogs.ListByEntity)
	audit.GET("/by-actor", perm(PermAuditRead), cfg.AuditLogs.ListByActor)

	return r, nil
}
