package dto

import "time"

// ── 审批队列模块 DTO ──
// 每个队列都是对申领单全集的谓词 + 排序投影，每次读取实时计算

// QueueItem 审批队列条目（各角色工作台共用的类型化投影）
type QueueItem struct {
	ClaimID      uint       `json:"claim_id"`
	LecturerID   uint       `json:"lecturer_id"`
	LecturerName string     `json:"lecturer_name,omitempty"`
	ModuleName   string     `json:"module_name"`
	FacultyName  string     `json:"faculty_name"`
	Sessions     int        `json:"number_of_sessions"`
	Hours        int        `json:"number_of_hours"`
	Rate         int        `json:"amount_of_rate"`
	TotalAmount  int        `json:"total_amount"`
	Status       string     `json:"claim_status"`
	CreatingDate time.Time  `json:"creating_date"`
	VerifiedBy   *string    `json:"verified_by,omitempty"`
	VerifiedDate *time.Time `json:"verified_date,omitempty"`
	ApprovedBy   *string    `json:"approved_by,omitempty"`
	ApprovedDate *time.Time `json:"approved_date,omitempty"`
}

// CoordinatorDashboard 协调员工作台
type CoordinatorDashboard struct {
	PendingCount  int64       `json:"pending_count"`
	VerifiedCount int64       `json:"verified_count"`
	TotalClaims   int64       `json:"total_claims"`
	Claims        []QueueItem `json:"claims"`
}

// ManagerDashboard 经理工作台
type ManagerDashboard struct {
	VerifiedCount       int64       `json:"verified_count"`
	ApprovedCount       int64       `json:"approved_count"`
	TotalApprovedAmount int64       `json:"total_approved_amount"`
	Claims              []QueueItem `json:"claims"`
}
