package service

import (
	"context"

	"go.uber.org/zap"

	"contract-claims/internal/dto"
	"contract-claims/internal/model"
	"contract-claims/internal/repository"
)

// ReviewService 审批队列视图
//
// 所有队列都是对申领单存储的只读投影（谓词 + 排序），每次读取实时计算，
// 不做缓存：宁可慢也不读到过期的审批状态。
type ReviewService interface {
	// PendingQueue 待审核队列：Pending，按提交时间升序（先到先审）
	PendingQueue(ctx context.Context) ([]dto.QueueItem, error)
	// ApprovalQueue 待批准队列：Verified，按审核时间升序
	ApprovalQueue(ctx context.Context) ([]dto.QueueItem, error)
	// ApprovedQueue 已批准队列：Approved，按批准时间降序（最近优先）
	ApprovedQueue(ctx context.Context) ([]dto.QueueItem, error)
	// CoordinatorQueue 协调员工作队列：Pending + 旧版遗留的 Coordinator Approved
	CoordinatorQueue(ctx context.Context) ([]dto.QueueItem, error)
	// ManagerQueue 经理工作队列：旧版遗留的 Coordinator Approved
	ManagerQueue(ctx context.Context) ([]dto.QueueItem, error)
	CoordinatorDashboard(ctx context.Context) (*dto.CoordinatorDashboard, error)
	ManagerDashboard(ctx context.Context) (*dto.ManagerDashboard, error)
}

type reviewService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, logger: logger}
}

// ────────────────────── 队列视图 ──────────────────────

func (s *reviewService) PendingQueue(ctx context.Context) ([]dto.QueueItem, error) {
	return s.queue(ctx, []model.ClaimStatus{model.StatusPending}, "creating_date ASC, claim_id ASC")
}

func (s *reviewService) ApprovalQueue(ctx context.Context) ([]dto.QueueItem, error) {
	return s.queue(ctx, []model.ClaimStatus{model.StatusVerified}, "verified_date ASC, claim_id ASC")
}

func (s *reviewService) ApprovedQueue(ctx context.Context) ([]dto.QueueItem, error) {
	return s.queue(ctx, []model.ClaimStatus{model.StatusApproved}, "approved_date DESC, claim_id DESC")
}

func (s *reviewService) CoordinatorQueue(ctx context.Context) ([]dto.QueueItem, error) {
	return s.queue(ctx,
		[]model.ClaimStatus{model.StatusPending, model.StatusCoordinatorApproved},
		"creating_date ASC, claim_id ASC")
}

func (s *reviewService) ManagerQueue(ctx context.Context) ([]dto.QueueItem, error) {
	return s.queue(ctx,
		[]model.ClaimStatus{model.StatusCoordinatorApproved},
		"creating_date ASC, claim_id ASC")
}

func (s *reviewService) queue(ctx context.Context, statuses []model.ClaimStatus, orderBy string) ([]dto.QueueItem, error) {
	claims, err := s.repo.Claim.ListByStatus(ctx, statuses, orderBy)
	if err != nil {
		s.logger.Error("查询审批队列失败", zap.Error(err))
		return nil, err
	}
	return toQueueItems(claims), nil
}

// ────────────────────── 工作台 ──────────────────────

func (s *reviewService) CoordinatorDashboard(ctx context.Context) (*dto.CoordinatorDashboard, error) {
	pending, err := s.repo.Claim.CountByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, err
	}
	verified, err := s.repo.Claim.CountByStatus(ctx, model.StatusVerified)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Claim.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := s.CoordinatorQueue(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.CoordinatorDashboard{
		PendingCount:  pending,
		VerifiedCount: verified,
		TotalClaims:   total,
		Claims:        claims,
	}, nil
}

func (s *reviewService) ManagerDashboard(ctx context.Context) (*dto.ManagerDashboard, error) {
	verified, err := s.repo.Claim.CountByStatus(ctx, model.StatusVerified)
	if err != nil {
		return nil, err
	}
	approved, err := s.repo.Claim.CountByStatus(ctx, model.StatusApproved)
	if err != nil {
		return nil, err
	}
	totalAmount, err := s.repo.Claim.SumApprovedAmount(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := s.ApprovalQueue(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ManagerDashboard{
		VerifiedCount:       verified,
		ApprovedCount:       approved,
		TotalApprovedAmount: totalAmount,
		Claims:              claims,
	}, nil
}

// ── 内部辅助方法 ──

func toQueueItems(claims []model.Claim) []dto.QueueItem {
	items := make([]dto.QueueItem, 0, len(claims))
	for i := range claims {
		c := &claims[i]
		item := dto.QueueItem{
			ClaimID:      c.ClaimID,
			LecturerID:   c.LecturerID,
			ModuleName:   c.ModuleName,
			FacultyName:  c.FacultyName,
			Sessions:     c.NumberOfSessions,
			Hours:        c.NumberOfHours,
			Rate:         c.AmountOfRate,
			TotalAmount:  c.TotalAmount(),
			Status:       string(c.Status),
			CreatingDate: c.CreatingDate,
			VerifiedBy:   c.VerifiedBy,
			VerifiedDate: c.VerifiedDate,
			ApprovedBy:   c.ApprovedBy,
			ApprovedDate: c.ApprovedDate,
		}
		if c.Lecturer != nil {
			item.LecturerName = c.Lecturer.DisplayName()
		}
		items = append(items, item)
	}
	return items
}
