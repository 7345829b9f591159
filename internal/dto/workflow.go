package dto

import "time"

// ── 审批流模块 DTO ──

// Actor 审批操作者
// 角色由认证中间件注入后显式传参，审批核心不读取任何全局会话状态
type Actor struct {
	UserID uint
	Name   string
	Role   string
}

// TransitionRequest 审批流转请求（Query / Reject 必须填写原因）
type TransitionRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// TransitionResult 审批流转结果
type TransitionResult struct {
	Success bool   `json:"success"`
	Status  string `json:"resulting_status"`
	Message string `json:"message"`
}

// ReviewClaimResponse 审批详情：申领单 + 策略校验结果
type ReviewClaimResponse struct {
	Claim      *ClaimResponse   `json:"claim"`
	Validation ValidationResult `json:"validation"`
}

// AuditLogResponse 审批日志条目
type AuditLogResponse struct {
	LogID     uint      `json:"log_id"`
	ClaimID   uint      `json:"claim_id"`
	Actor     string    `json:"actor"`
	Role      string    `json:"role"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}
