package repository

import (
	"context"

	"gorm.io/gorm"

	"contract-claims/internal/model"
)

// AuditLogRepository 审批日志数据访问接口
// 仅追加：接口刻意不提供 Update / Delete
type AuditLogRepository interface {
	Append(ctx context.Context, entry *model.AuditLog) error
	ListByClaim(ctx context.Context, claimID uint) ([]model.AuditLog, error)
}

// auditLogRepo AuditLogRepository 的 GORM 实现
type auditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo 创建 AuditLogRepository 实例
func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Append(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) ListByClaim(ctx context.Context, claimID uint) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("timestamp ASC, log_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
