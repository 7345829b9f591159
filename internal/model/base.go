package model

import "time"

// BaseModel 通用审计字段（业务模型嵌入）
// 申领单与审批日志属于永久记录，不提供软删除
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
