package handler

import (
	"github.com/gin-gonic/gin"

	"contract-claims/internal/service"
	"contract-claims/pkg/response"
)

// ReviewHandler 审批队列模块 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// PendingQueue 待审核队列
// GET /api/v1/review/pending
func (h *ReviewHandler) PendingQueue(c *gin.Context) {
	items, err := h.reviewSvc.PendingQueue(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// ApprovalQueue 待批准队列
// GET /api/v1/review/approval
func (h *ReviewHandler) ApprovalQueue(c *gin.Context) {
	items, err := h.reviewSvc.ApprovalQueue(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// ApprovedQueue 已批准队列
// GET /api/v1/review/approved
func (h *ReviewHandler) ApprovedQueue(c *gin.Context) {
	items, err := h.reviewSvc.ApprovedQueue(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// CoordinatorQueue 协调员工作队列（含旧版遗留状态的申领单）
// GET /api/v1/review/coordinator/queue
func (h *ReviewHandler) CoordinatorQueue(c *gin.Context) {
	items, err := h.reviewSvc.CoordinatorQueue(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// ManagerQueue 经理工作队列（仅旧版遗留状态的申领单）
// GET /api/v1/review/manager/queue
func (h *ReviewHandler) ManagerQueue(c *gin.Context) {
	items, err := h.reviewSvc.ManagerQueue(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, items)
}

// CoordinatorDashboard 协调员工作台
// GET /api/v1/review/coordinator/dashboard
func (h *ReviewHandler) CoordinatorDashboard(c *gin.Context) {
	dashboard, err := h.reviewSvc.CoordinatorDashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dashboard)
}

// ManagerDashboard 经理工作台
// GET /api/v1/review/manager/dashboard
func (h *ReviewHandler) ManagerDashboard(c *gin.Context) {
	dashboard, err := h.reviewSvc.ManagerDashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dashboard)
}
