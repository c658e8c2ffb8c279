package handler

import (
	"net/http"

	auditapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// AuditLogHandler serves the read-only /audit-logs listing
type AuditLogHandler struct {
	BaseHandler
	logService *auditapp.LogService
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(logService *auditapp.LogService) *AuditLogHandler {
	return &AuditLogHandler{logService: logService}
}

// ListByEntity handles GET /audit-logs?entity_type=&entity_id=
func (h *AuditLogHandler) ListByEntity(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q auditapp.EntityLogQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.logService.ListByEntity(c.Request.Context(), actor.TenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// ListByActor handles GET /audit-logs/by-actor?actor_id=
func (h *AuditLogHandler) ListByActor(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q auditapp.ActorLogQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.logService.ListByActor(c.Request.Context(), actor.TenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}
