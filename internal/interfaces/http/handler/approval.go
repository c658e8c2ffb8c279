package handler

import (
	approvalapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/approval"
	"github.com/gin-gonic/gin"
)

// ApprovalHandler serves /approvals
type ApprovalHandler struct {
	BaseHandler
	approvalService *approvalapp.ApprovalService
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(approvalService *approvalapp.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

// Create handles POST /approvals
func (h *ApprovalHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req approvalapp.CreateApprovalRequest
	if !h.bindJSON(c, &req) {
		return
	}
	request, err := h.approvalService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// GetByID handles GET /approvals/:id
func (h *ApprovalHandler) GetByID(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	request, err := h.approvalService.GetByID(c.Request.Context(), actor.TenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Approve handles POST /approvals/:id/approve. The note is optional.
func (h *ApprovalHandler) Approve(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req approvalapp.DecisionRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}
	request, err := h.approvalService.Approve(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Reject handles POST /approvals/:id/reject
func (h *ApprovalHandler) Reject(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req approvalapp.DecisionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	request, err := h.approvalService.Reject(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// Check handles POST /approvals/check. It answers 200 when the document may
// be finalized and 403 approval_required when it may not.
func (h *ApprovalHandler) Check(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req approvalapp.CheckRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.approvalService.Check(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
