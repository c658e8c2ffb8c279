//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	approvalapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/approval"
	auditapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/audit"
	identityapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/identity"
	partnerapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/partner"
	apppolicy "github.com/agbona24/firstgiwa-erp-sub006/internal/application/policy"
	tradeapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/trade"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/policy"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/auth"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/cache"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/config"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/event"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/persistence"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/interfaces/http/handler"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type defaultPolicies struct{}

func (defaultPolicies) ForTenant(uuid.UUID) policy.TenantPolicy { return policy.DefaultTenantPolicy() }

// testApp is the HTTP API wired to a real database
type testApp struct {
	engine   *gin.Engine
	tokens   *auth.JWTService
	tenantID uuid.UUID
}

func newTestApp(t *testing.T, tdb *TestDB) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	policies := apppolicy.NewProvider(defaultPolicies{}, apppolicy.WithCache(cache.NewInMemoryPolicyCache(), time.Minute))
	trail := persistence.NewAuditTrail(audit.NewMirror())
	scope := persistence.NewGormTransactionScope(tdb.DB, trail)
	userRepo := persistence.NewGormUserRepository(tdb.DB, trail)
	roleRepo := persistence.NewGormRoleRepository(tdb.DB, trail)

	bus := event.NewInMemoryEventBus(log)
	customers := partnerapp.NewCustomerService(persistence.NewGormCustomerRepository(tdb.DB, trail), scope, policies)
	customers.SetEventPublisher(bus)
	salesRepo := persistence.NewGormSalesOrderRepository(tdb.DB, trail)
	sales := tradeapp.NewSalesOrderService(salesRepo, scope, policies)
	sales.SetEventPublisher(bus)
	purchaseRepo := persistence.NewGormPurchaseOrderRepository(tdb.DB, trail)
	purchases := tradeapp.NewPurchaseOrderService(purchaseRepo, scope, policies)
	approvals := approvalapp.NewApprovalService(persistence.NewGormApprovalRequestRepository(tdb.DB, trail), approvalapp.NewOrderCreators(salesRepo, purchaseRepo), policies)

	tokens := auth.NewJWTService(config.JWTConfig{
		Secret:                "integration-secret-with-at-least-32-chars",
		AccessTokenExpiration: time.Hour,
		Issuer:                "erp-integration",
	})

	engine, err := router.New(router.Config{
		ServiceName:    "erp-integration",
		Logger:         log,
		Tokens:         tokens,
		Health:         handler.NewHealthHandler(map[string]handler.HealthCheck{"database": tdb.SqlDB.PingContext}),
		Auth:           handler.NewAuthHandler(identityapp.NewAuthService(userRepo, roleRepo, tokens, log)),
		Users:          handler.NewUserHandler(identityapp.NewUserService(userRepo, roleRepo, policies)),
		Customers:      handler.NewCustomerHandler(customers),
		SalesOrders:    handler.NewSalesOrderHandler(sales),
		PurchaseOrders: handler.NewPurchaseOrderHandler(purchases),
		Approvals:      handler.NewApprovalHandler(approvals),
		AuditLogs:      handler.NewAuditLogHandler(auditapp.NewLogService(persistence.NewGormAuditLogRepository(tdb.DB))),
	})
	require.NoError(t, err)

	return &testApp{engine: engine, tokens: tokens, tenantID: uuid.New()}
}

// token issues a bearer token for a new user of the app's tenant
func (a *testApp) token(t *testing.T, role string, permissions ...string) string {
	t.Helper()
	tok, err := a.tokens.GenerateToken(auth.GenerateTokenInput{
		TenantID:    a.tenantID,
		UserID:      uuid.New(),
		Username:    role + "-user",
		Roles:       []string{role},
		Permissions: permissions,
	})
	require.NoError(t, err)
	return tok.AccessToken
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Type    string         `json:"type"`
		Context map[string]any `json:"context"`
	} `json:"error"`
}

func (a *testApp) call(t *testing.T, token, method, path, body string) (int, apiResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var resp apiResponse
	if w.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out))
	return out
}
