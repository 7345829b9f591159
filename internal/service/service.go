package service

import (
	"go.uber.org/zap"

	"contract-claims/config"
	"contract-claims/internal/repository"
	"contract-claims/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	User     UserService
	Claim    ClaimService
	Workflow WorkflowService
	Review   ReviewService
	Report   ReportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, logger),
		User:     NewUserService(repo, logger),
		Claim:    NewClaimService(repo, logger),
		Workflow: NewWorkflowService(repo, logger),
		Review:   NewReviewService(repo, logger),
		Report:   NewReportService(repo, logger),
	}
}
