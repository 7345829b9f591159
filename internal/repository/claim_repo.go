package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"contract-claims/internal/model"
	apperrors "contract-claims/pkg/errors"
)

// ClaimFilter 申领单列表筛选条件
type ClaimFilter struct {
	LecturerID uint              // 0 表示不过滤
	Status     model.ClaimStatus // 空表示不过滤
	Search     string            // 模块名 / 院系名模糊匹配
}

// ClaimRepository 申领单数据访问接口
//
// Update 为全字段覆盖写，带乐观锁（version CAS）；
// UpdateStatus 为纯覆盖写（幂等），供批量更新等最后写入生效的场景使用
type ClaimRepository interface {
	Create(ctx context.Context, claim *model.Claim) error
	GetByID(ctx context.Context, id uint) (*model.Claim, error)
	List(ctx context.Context, filter ClaimFilter) ([]model.Claim, error)
	ListByStatus(ctx context.Context, statuses []model.ClaimStatus, orderBy string) ([]model.Claim, error)
	ListApprovedWithLecturer(ctx context.Context) ([]model.Claim, error)
	UpdateStatus(ctx context.Context, id uint, status model.ClaimStatus) (bool, error)
	Update(ctx context.Context, claim *model.Claim) (bool, error)
	CountByStatus(ctx context.Context, status model.ClaimStatus) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByLecturer(ctx context.Context, lecturerID uint) (int64, error)
	SumApprovedAmount(ctx context.Context) (int64, error)
}

// claimRepo ClaimRepository 的 GORM 实现
type claimRepo struct {
	db *gorm.DB
}

// NewClaimRepo 创建 ClaimRepository 实例
func NewClaimRepo(db *gorm.DB) ClaimRepository {
	return &claimRepo{db: db}
}

func (r *claimRepo) Create(ctx context.Context, claim *model.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *claimRepo) GetByID(ctx context.Context, id uint) (*model.Claim, error) {
	var claim model.Claim
	err := r.db.WithContext(ctx).
		Preload("Lecturer").
		Where("claim_id = ?", id).
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepo) List(ctx context.Context, filter ClaimFilter) ([]model.Claim, error) {
	db := r.db.WithContext(ctx).Model(&model.Claim{})

	if filter.LecturerID != 0 {
		db = db.Where("lecturer_id = ?", filter.LecturerID)
	}
	if filter.Status != "" {
		db = db.Where("claim_status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("module_name ILIKE ? OR faculty_name ILIKE ?", pattern, pattern)
	}

	var claims []model.Claim
	if err := db.Order("creating_date DESC, claim_id DESC").Find(&claims).Error; err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *claimRepo) ListByStatus(ctx context.Context, statuses []model.ClaimStatus, orderBy string) ([]model.Claim, error) {
	var claims []model.Claim
	err := r.db.WithContext(ctx).
		Where("claim_status IN ?", statuses).
		Order(orderBy).
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *claimRepo) ListApprovedWithLecturer(ctx context.Context) ([]model.Claim, error) {
	var claims []model.Claim
	err := r.db.WithContext(ctx).
		Preload("Lecturer").
		Where("claim_status = ?", model.StatusApproved).
		Order("creating_date DESC, claim_id DESC").
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// UpdateStatus 纯覆盖写：返回是否有行被命中。
// 对同一状态的重复写入同样返回 true（幂等覆盖），不视为错误
func (r *claimRepo) UpdateStatus(ctx context.Context, id uint, status model.ClaimStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("claim_id = ?", id).
		Updates(map[string]interface{}{"claim_status": status})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// GORM 的 Updates 在值未变化时仍计入 RowsAffected，
		// 命中 0 行意味着记录不存在
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Claim{}).
			Where("claim_id = ?", id).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
	return true, nil
}

// Update 全字段覆盖写（审批元数据在内），version 不匹配返回 ErrOptimisticLock
func (r *claimRepo) Update(ctx context.Context, claim *model.Claim) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("claim_id = ? AND version = ?", claim.ClaimID, claim.Version).
		Updates(map[string]interface{}{
			"number_of_sessions":   claim.NumberOfSessions,
			"number_of_hours":      claim.NumberOfHours,
			"amount_of_rate":       claim.AmountOfRate,
			"module_name":          claim.ModuleName,
			"faculty_name":         claim.FacultyName,
			"supporting_documents": claim.SupportingDocs,
			"claim_status":         claim.Status,
			"lecturer_id":          claim.LecturerID,
			"verified_by":          claim.VerifiedBy,
			"verified_date":        claim.VerifiedDate,
			"approved_by":          claim.ApprovedBy,
			"approved_date":        claim.ApprovedDate,
			"rejection_reason":     claim.RejectionReason,
			"version":              claim.Version + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// 区分记录不存在与版本冲突
		var current model.Claim
		err := r.db.WithContext(ctx).
			Select("claim_id", "version").
			Where("claim_id = ?", claim.ClaimID).
			First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		return false, apperrors.ErrOptimisticLock
	}
	claim.Version++
	return true, nil
}

func (r *claimRepo) CountByStatus(ctx context.Context, status model.ClaimStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("claim_status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *claimRepo) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Claim{}).Count(&count).Error
	return count, err
}

func (r *claimRepo) CountByLecturer(ctx context.Context, lecturerID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Claim{}).
		Where("lecturer_id = ?", lecturerID).
		Count(&count).Error
	return count, err
}

// SumApprovedAmount 已批准申领总额 = Σ(hours × rate)，实时聚合不落库
func (r *claimRepo) SumApprovedAmount(ctx context.Context) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&model.Claim{}).
		Select("SUM(number_of_hours * amount_of_rate)").
		Where("claim_status = ?", model.StatusApproved).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
