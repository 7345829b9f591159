package model

import "time"

// AuditLog 审批日志 — 对应 approval_logs
// 仅追加：一经写入不允许更新或删除，作为合规追溯记录永久保留
type AuditLog struct {
	LogID     uint      `gorm:"primaryKey;autoIncrement"            json:"log_id"`
	ClaimID   uint      `gorm:"not null;index"                      json:"claim_id"`
	Actor     string    `gorm:"type:varchar(120);not null"          json:"actor"`
	Role      string    `gorm:"type:varchar(20);not null"           json:"role"`
	Action    string    `gorm:"type:varchar(600);not null"          json:"action"`
	Timestamp time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"timestamp"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "approval_logs" }
