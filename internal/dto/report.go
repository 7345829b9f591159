package dto

import "time"

// ── HR 报表模块 DTO ──

// ApprovedClaimRow 近期已批准申领单（HR 工作台）
type ApprovedClaimRow struct {
	ClaimID      uint      `json:"claim_id"`
	LecturerName string    `json:"lecturer_name"`
	ModuleName   string    `json:"module_name"`
	Amount       int       `json:"amount"`
	CreatingDate time.Time `json:"creating_date"`
}

// HRDashboardStats HR 工作台统计
type HRDashboardStats struct {
	ApprovedClaimsCount int64              `json:"approved_claims_count"`
	TotalApprovedAmount int64              `json:"total_approved_amount"`
	RecentApproved      []ApprovedClaimRow `json:"recent_approved_claims"`
}

// PaymentReportItem 付款报表行
type PaymentReportItem struct {
	ClaimID      uint      `json:"claim_id"`
	LecturerName string    `json:"lecturer_name"`
	Email        string    `json:"email"`
	ModuleName   string    `json:"module_name"`
	FacultyName  string    `json:"faculty_name"`
	Hours        int       `json:"hours"`
	Rate         int       `json:"rate"`
	TotalAmount  int       `json:"total_amount"`
	CreatingDate time.Time `json:"creating_date"`
}
