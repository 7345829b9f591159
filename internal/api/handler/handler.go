package handler

import (
	"contract-claims/internal/service"
	"contract-claims/pkg/jwt"
	"contract-claims/pkg/redis"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	Claim    *ClaimHandler
	Workflow *WorkflowHandler
	Review   *ReviewHandler
	Report   *ReportHandler
	User     *UserHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, jwtMgr *jwt.Manager, rdb *redis.Client) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth, jwtMgr, rdb),
		Claim:    NewClaimHandler(svc.Claim),
		Workflow: NewWorkflowHandler(svc.Workflow),
		Review:   NewReviewHandler(svc.Review),
		Report:   NewReportHandler(svc.Report),
		User:     NewUserHandler(svc.User),
	}
}
