package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Claim    ClaimRepository
	AuditLog AuditLogRepository
	User     UserRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		Claim:    NewClaimRepo(db),
		AuditLog: NewAuditLogRepo(db),
		User:     NewUserRepo(db),
	}
}

// Transaction 在单个数据库事务中执行 fn
// fn 收到的 Repository 绑定到该事务，任一步骤出错则整体回滚。
// 审批流转依赖此保证：状态更新与审批日志写入要么同时生效要么都不生效。
// db 为 nil（测试中直接构造 mock 聚合）时退化为直接执行。
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
