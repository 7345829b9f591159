package dto

import (
	"time"

	"contract-claims/internal/model"
)

// ── 申领单模块 DTO ──

// SubmitClaimRequest 提交申领单请求
// 范围校验为输入合法性（宽），业务策略校验（窄）见 service.ValidateClaim
type SubmitClaimRequest struct {
	NumberOfSessions int    `json:"number_of_sessions"   binding:"required,min=1,max=100"`
	NumberOfHours    int    `json:"number_of_hours"      binding:"required,min=1,max=1000"`
	AmountOfRate     int    `json:"amount_of_rate"       binding:"required,min=1,max=1000"`
	ModuleName       string `json:"module_name"          binding:"required,max=100"`
	FacultyName      string `json:"faculty_name"         binding:"required,max=100"`
	SupportingDocs   string `json:"supporting_documents" binding:"omitempty,max=255"`
}

// ClaimResponse 申领单详情响应
type ClaimResponse struct {
	ClaimID          uint       `json:"claim_id"`
	NumberOfSessions int        `json:"number_of_sessions"`
	NumberOfHours    int        `json:"number_of_hours"`
	AmountOfRate     int        `json:"amount_of_rate"`
	TotalAmount      int        `json:"total_amount"`
	ModuleName       string     `json:"module_name"`
	FacultyName      string     `json:"faculty_name"`
	SupportingDocs   string     `json:"supporting_documents,omitempty"`
	Status           string     `json:"claim_status"`
	CreatingDate     time.Time  `json:"creating_date"`
	LecturerID       uint       `json:"lecturer_id"`
	LecturerName     string     `json:"lecturer_name,omitempty"`
	VerifiedBy       *string    `json:"verified_by,omitempty"`
	VerifiedDate     *time.Time `json:"verified_date,omitempty"`
	ApprovedBy       *string    `json:"approved_by,omitempty"`
	ApprovedDate     *time.Time `json:"approved_date,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
}

// NewClaimResponse 由模型构造详情响应
func NewClaimResponse(c *model.Claim) *ClaimResponse {
	resp := &ClaimResponse{
		ClaimID:          c.ClaimID,
		NumberOfSessions: c.NumberOfSessions,
		NumberOfHours:    c.NumberOfHours,
		AmountOfRate:     c.AmountOfRate,
		TotalAmount:      c.TotalAmount(),
		ModuleName:       c.ModuleName,
		FacultyName:      c.FacultyName,
		SupportingDocs:   c.SupportingDocs,
		Status:           string(c.Status),
		CreatingDate:     c.CreatingDate,
		LecturerID:       c.LecturerID,
		VerifiedBy:       c.VerifiedBy,
		VerifiedDate:     c.VerifiedDate,
		ApprovedBy:       c.ApprovedBy,
		ApprovedDate:     c.ApprovedDate,
		RejectionReason:  c.RejectionReason,
	}
	if c.Lecturer != nil {
		resp.LecturerName = c.Lecturer.DisplayName()
	}
	return resp
}

// ValidationResult 业务策略校验结果（有序消息，警告不计入失败）
type ValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Messages []string `json:"messages"`
}

// SubmitClaimResponse 提交申领单响应（附带策略校验消息，如超时长警告）
type SubmitClaimResponse struct {
	Claim      *ClaimResponse   `json:"claim,omitempty"`
	Validation ValidationResult `json:"validation"`
}

// ClaimListRequest 申领单列表筛选
type ClaimListRequest struct {
	LecturerID uint   `form:"lecturer_id"`
	Status     string `form:"status"`
	Search     string `form:"search"` // 模块名 / 院系名模糊查询
}

// BulkStatusRequest 批量状态更新请求
type BulkStatusRequest struct {
	ClaimIDs []uint `json:"claim_ids" binding:"required,min=1"`
	Status   string `json:"status"    binding:"required"`
}

// BulkStatusResult 批量状态更新结果
// 批量不保证整体原子性：逐单更新，报告部分成功数
type BulkStatusResult struct {
	Requested int    `json:"requested"`
	Updated   int    `json:"updated"`
	FailedIDs []uint `json:"failed_ids,omitempty"`
}
