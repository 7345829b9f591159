package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contract-claims/internal/dto"
	"contract-claims/internal/model"
	"contract-claims/internal/repository"
)

// ── 申领单模块业务错误 ──

var (
	ErrValidationFailed = errors.New("申领单未通过业务策略校验")
	ErrMissingLecturer  = errors.New("申领单必须关联讲师")
	ErrInvalidStatus    = errors.New("未知的申领单状态")
)

// ClaimService 申领单业务接口
type ClaimService interface {
	Submit(ctx context.Context, req *dto.SubmitClaimRequest, lecturerID uint) (*dto.SubmitClaimResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.ClaimResponse, error)
	List(ctx context.Context, req *dto.ClaimListRequest) ([]dto.ClaimResponse, error)
	MyClaims(ctx context.Context, lecturerID uint) ([]dto.ClaimResponse, error)
	BulkUpdateStatus(ctx context.Context, req *dto.BulkStatusRequest) (*dto.BulkStatusResult, error)
}

type claimService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClaimService 创建 ClaimService 实例
func NewClaimService(repo *repository.Repository, logger *zap.Logger) ClaimService {
	return &claimService{repo: repo, logger: logger}
}

// ────────────────────── Submit ──────────────────────

// Submit 讲师提交申领单，初始状态恒为 Pending
// 策略校验失败时拦截提交；仅有警告时照常入库并随响应返回警告消息
func (s *claimService) Submit(ctx context.Context, req *dto.SubmitClaimRequest, lecturerID uint) (*dto.SubmitClaimResponse, error) {
	// 无讲师归属的申领单绝不允许入库
	if lecturerID == 0 {
		return nil, ErrMissingLecturer
	}

	claim := &model.Claim{
		NumberOfSessions: req.NumberOfSessions,
		NumberOfHours:    req.NumberOfHours,
		AmountOfRate:     req.AmountOfRate,
		ModuleName:       req.ModuleName,
		FacultyName:      req.FacultyName,
		SupportingDocs:   req.SupportingDocs,
		Status:           model.StatusPending,
		LecturerID:       lecturerID,
	}

	validation := ValidateClaim(claim)
	if !validation.IsValid {
		return &dto.SubmitClaimResponse{Validation: validation}, ErrValidationFailed
	}

	if err := s.repo.Claim.Create(ctx, claim); err != nil {
		s.logger.Error("创建申领单失败", zap.Uint("lecturer_id", lecturerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("申领单已提交",
		zap.Uint("claim_id", claim.ClaimID),
		zap.Uint("lecturer_id", lecturerID),
		zap.Int("total_amount", claim.TotalAmount()),
	)

	return &dto.SubmitClaimResponse{
		Claim:      dto.NewClaimResponse(claim),
		Validation: validation,
	}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *claimService) GetByID(ctx context.Context, id uint) (*dto.ClaimResponse, error) {
	claim, err := s.repo.Claim.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		s.logger.Error("查询申领单失败", zap.Uint("claim_id", id), zap.Error(err))
		return nil, err
	}
	return dto.NewClaimResponse(claim), nil
}

// ────────────────────── List ──────────────────────

func (s *claimService) List(ctx context.Context, req *dto.ClaimListRequest) ([]dto.ClaimResponse, error) {
	filter := repository.ClaimFilter{
		LecturerID: req.LecturerID,
		Search:     req.Search,
	}
	if req.Status != "" {
		status := model.ClaimStatus(req.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		filter.Status = status
	}

	claims, err := s.repo.Claim.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询申领单列表失败", zap.Error(err))
		return nil, err
	}
	return toClaimResponses(claims), nil
}

// ────────────────────── MyClaims ──────────────────────

func (s *claimService) MyClaims(ctx context.Context, lecturerID uint) ([]dto.ClaimResponse, error) {
	if lecturerID == 0 {
		return nil, ErrMissingLecturer
	}

	claims, err := s.repo.Claim.List(ctx, repository.ClaimFilter{LecturerID: lecturerID})
	if err != nil {
		s.logger.Error("查询讲师申领单失败", zap.Uint("lecturer_id", lecturerID), zap.Error(err))
		return nil, err
	}
	return toClaimResponses(claims), nil
}

// ────────────────────── BulkUpdateStatus ──────────────────────

// BulkUpdateStatus 批量状态更新（运维 / 数据修复入口，仅 Admin 路由可达）
// 不保证批量原子性：逐单覆盖写，统计部分成功数并返回失败清单
func (s *claimService) BulkUpdateStatus(ctx context.Context, req *dto.BulkStatusRequest) (*dto.BulkStatusResult, error) {
	status := model.ClaimStatus(req.Status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	result := &dto.BulkStatusResult{Requested: len(req.ClaimIDs)}
	for _, id := range req.ClaimIDs {
		ok, err := s.repo.Claim.UpdateStatus(ctx, id, status)
		if err != nil {
			s.logger.Warn("批量更新单条失败",
				zap.Uint("claim_id", id), zap.String("status", req.Status), zap.Error(err))
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		if !ok {
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.Updated++
	}

	s.logger.Info("批量状态更新完成",
		zap.Int("requested", result.Requested),
		zap.Int("updated", result.Updated),
		zap.String("status", req.Status),
	)
	return result, nil
}

// ── 内部辅助方法 ──

func toClaimResponses(claims []model.Claim) []dto.ClaimResponse {
	result := make([]dto.ClaimResponse, 0, len(claims))
	for i := range claims {
		result = append(result, *dto.NewClaimResponse(&claims[i]))
	}
	return result
}
