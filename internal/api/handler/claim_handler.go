package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-claims/internal/dto"
	"contract-claims/internal/service"
	"contract-claims/pkg/response"
)

// ClaimHandler 申领单模块 HTTP 处理器
type ClaimHandler struct {
	claimSvc service.ClaimService
}

// NewClaimHandler 创建 ClaimHandler
func NewClaimHandler(claimSvc service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimSvc: claimSvc}
}

// Submit 提交申领单（讲师）
// POST /api/v1/claims
func (h *ClaimHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.claimSvc.Submit(c.Request.Context(), &req, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			// 策略校验失败：422 并附带全部校验消息
			c.JSON(http.StatusUnprocessableEntity, response.Response{
				Code:    12001,
				Message: "申领单未通过业务策略校验",
				Data:    result,
			})
		case errors.Is(err, service.ErrMissingLecturer):
			response.Unauthorized(c, 10002, "未认证")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// GetClaim 申领单详情
// GET /api/v1/claims/:id
func (h *ClaimHandler) GetClaim(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	claim, err := h.claimSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClaimNotFound) {
			response.NotFound(c, 12002, "申领单不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, claim)
}

// ListClaims 申领单列表（按状态 / 讲师 / 关键字筛选）
// GET /api/v1/claims
func (h *ClaimHandler) ListClaims(c *gin.Context) {
	var req dto.ClaimListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	claims, err := h.claimSvc.List(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			response.BadRequest(c, 12003, "未知的申领单状态")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, claims)
}

// MyClaims 当前讲师的申领单（按提交时间）
// GET /api/v1/claims/my
func (h *ClaimHandler) MyClaims(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	claims, err := h.claimSvc.MyClaims(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, claims)
}

// BulkUpdateStatus 批量状态更新（Admin 数据修复入口）
// POST /api/v1/claims/bulk-status
func (h *ClaimHandler) BulkUpdateStatus(c *gin.Context) {
	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.claimSvc.BulkUpdateStatus(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			response.BadRequest(c, 12003, "未知的申领单状态")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
