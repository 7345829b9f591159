package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"contract-claims/internal/dto"
	"contract-claims/internal/service"
	"contract-claims/pkg/response"
)

// WorkflowHandler 审批流模块 HTTP 处理器
// 五个流转端点共用 transition；角色门禁由路由中间件粗筛，
// 权威校验在 Service 层的流转表中完成
type WorkflowHandler struct {
	workflowSvc service.WorkflowService
}

// NewWorkflowHandler 创建 WorkflowHandler
func NewWorkflowHandler(workflowSvc service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflowSvc: workflowSvc}
}

// Verify 审核通过（协调员）
// POST /api/v1/claims/:id/verify
func (h *WorkflowHandler) Verify(c *gin.Context) {
	h.transition(c, service.ActionVerify)
}

// Query 质询退回（协调员，需原因）
// POST /api/v1/claims/:id/query
func (h *WorkflowHandler) Query(c *gin.Context) {
	h.transition(c, service.ActionQuery)
}

// Approve 批准（经理）
// POST /api/v1/claims/:id/approve
func (h *WorkflowHandler) Approve(c *gin.Context) {
	h.transition(c, service.ActionApprove)
}

// Reject 拒绝（经理，需原因）
// POST /api/v1/claims/:id/reject
func (h *WorkflowHandler) Reject(c *gin.Context) {
	h.transition(c, service.ActionReject)
}

// Resubmit 重新提交（被质询的申领单，仅申领人本人）
// POST /api/v1/claims/:id/resubmit
func (h *WorkflowHandler) Resubmit(c *gin.Context) {
	h.transition(c, service.ActionResubmit)
}

func (h *WorkflowHandler) transition(c *gin.Context, action service.WorkflowAction) {
	claimID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	// 请求体可为空（Verify / Approve / Resubmit 无需原因）
	var req dto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.workflowSvc.Transition(c.Request.Context(), claimID, action, actor, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClaimNotFound):
			response.NotFound(c, 12002, "申领单不存在")
		case errors.Is(err, service.ErrUnauthorizedRole):
			response.Forbidden(c, 13001, "当前角色无权执行该操作")
		case errors.Is(err, service.ErrMissingReason):
			response.BadRequest(c, 13002, "必须填写原因")
		case errors.Is(err, service.ErrIllegalTransition):
			response.Conflict(c, 13003, err.Error())
		case errors.Is(err, service.ErrNotClaimOwner):
			response.Forbidden(c, 13004, "仅申领人本人可重新提交")
		case errors.Is(err, service.ErrUpdateConflict):
			response.Conflict(c, 13005, "申领单已被其他审批人处理，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ReviewClaim 审批详情（申领单 + 策略校验结果）
// GET /api/v1/claims/:id/review
func (h *WorkflowHandler) ReviewClaim(c *gin.Context) {
	claimID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.workflowSvc.ReviewClaim(c.Request.Context(), claimID)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			response.NotFound(c, 12002, "申领单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// AuditTrail 审批日志（按时间序）
// GET /api/v1/claims/:id/audit
func (h *WorkflowHandler) AuditTrail(c *gin.Context) {
	claimID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	entries, err := h.workflowSvc.AuditTrail(c.Request.Context(), claimID)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			response.NotFound(c, 12002, "申领单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, entries)
}
