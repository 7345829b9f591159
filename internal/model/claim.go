package model

import (
	"time"

	"gorm.io/gorm"
)

// ClaimStatus 申领单状态（封闭枚举）
//
// 历史数据中存在旧版审批流写入的 "Coordinator Approved" / "Manager Approved"
// 两个过渡状态。读取时统一归一化为 Verified / Approved，新流程不再产生。
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "Pending"
	StatusVerified ClaimStatus = "Verified"
	StatusQuery    ClaimStatus = "Query"
	StatusApproved ClaimStatus = "Approved"
	StatusRejected ClaimStatus = "Rejected"

	// ── 旧版审批流遗留状态（仅历史数据，读取时归一化） ──
	StatusCoordinatorApproved ClaimStatus = "Coordinator Approved"
	StatusManagerApproved     ClaimStatus = "Manager Approved"
)

// AllStatuses 当前流程可写入的全部状态
var AllStatuses = []ClaimStatus{
	StatusPending, StatusVerified, StatusQuery, StatusApproved, StatusRejected,
}

// Valid 判断是否为已知状态（含遗留状态）
func (s ClaimStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusQuery, StatusApproved, StatusRejected,
		StatusCoordinatorApproved, StatusManagerApproved:
		return true
	}
	return false
}

// Normalize 将遗留状态映射到规范状态
func (s ClaimStatus) Normalize() ClaimStatus {
	switch s {
	case StatusCoordinatorApproved:
		return StatusVerified
	case StatusManagerApproved:
		return StatusApproved
	}
	return s
}

// Terminal 判断是否为终态（终态不再接受任何流转）
func (s ClaimStatus) Terminal() bool {
	n := s.Normalize()
	return n == StatusApproved || n == StatusRejected
}

// Claim 课时申领单 — 对应 claims
type Claim struct {
	ClaimID          uint        `gorm:"primaryKey;autoIncrement"                              json:"claim_id"`
	NumberOfSessions int         `gorm:"not null"                                              json:"number_of_sessions"`
	NumberOfHours    int         `gorm:"not null"                                              json:"number_of_hours"`
	AmountOfRate     int         `gorm:"not null"                                              json:"amount_of_rate"`
	ModuleName       string      `gorm:"type:varchar(100);not null"                            json:"module_name"`
	FacultyName      string      `gorm:"type:varchar(100);not null"                            json:"faculty_name"`
	SupportingDocs   string      `gorm:"column:supporting_documents;type:varchar(255)"         json:"supporting_documents,omitempty"`
	Status           ClaimStatus `gorm:"column:claim_status;type:varchar(30);not null;default:'Pending'" json:"claim_status"`
	CreatingDate     time.Time   `gorm:"column:creating_date;not null;default:CURRENT_TIMESTAMP" json:"creating_date"`
	LecturerID       uint        `gorm:"not null;index"                                        json:"lecturer_id"`

	// ── 审批流元数据（仅对应流转发生后填充） ──
	VerifiedBy      *string    `gorm:"type:varchar(120)"  json:"verified_by,omitempty"`
	VerifiedDate    *time.Time `json:"verified_date,omitempty"`
	ApprovedBy      *string    `gorm:"type:varchar(120)"  json:"approved_by,omitempty"`
	ApprovedDate    *time.Time `json:"approved_date,omitempty"`
	RejectionReason string     `gorm:"type:varchar(500)"  json:"rejection_reason,omitempty"`

	// Version 乐观锁版本号，Update 时 CAS 递增
	Version int `gorm:"not null;default:1" json:"version"`

	BaseModel

	// 关联
	Lecturer *User `gorm:"foreignKey:LecturerID;references:UserID" json:"lecturer,omitempty"`
}

// TableName 指定表名
func (Claim) TableName() string { return "claims" }

// AfterFind 读取后归一化遗留状态
func (c *Claim) AfterFind(_ *gorm.DB) error {
	c.Status = c.Status.Normalize()
	return nil
}

// TotalAmount 申领金额 = 课时数 × 时薪（派生值，不落库）
func (c *Claim) TotalAmount() int {
	return c.NumberOfHours * c.AmountOfRate
}
