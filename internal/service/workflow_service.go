package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"contract-claims/internal/dto"
	"contract-claims/internal/model"
	"contract-claims/internal/repository"
	apperrors "contract-claims/pkg/errors"
)

// ── 审批流模块业务错误 ──

var (
	ErrClaimNotFound     = errors.New("申领单不存在")
	ErrUnauthorizedRole  = errors.New("当前角色无权执行该操作")
	ErrMissingReason     = errors.New("必须填写原因")
	ErrUnknownAction     = errors.New("未知的审批动作")
	ErrIllegalTransition = errors.New("当前状态不允许该操作")
	ErrNotClaimOwner     = errors.New("仅申领人本人可重新提交")
	ErrUpdateConflict    = errors.New("申领单已被其他审批人处理，请刷新后重试")
)

// WorkflowAction 审批动作
type WorkflowAction string

const (
	ActionVerify   WorkflowAction = "Verify"
	ActionQuery    WorkflowAction = "Query"
	ActionApprove  WorkflowAction = "Approve"
	ActionReject   WorkflowAction = "Reject"
	ActionResubmit WorkflowAction = "Resubmit"
)

// specialApprovalThreshold 超过该金额的批准在结果消息中标记为 Special Approval
// （仅上报展示，不落库）
const specialApprovalThreshold = 10000

// transitionRule 单条流转规则：来源状态、目标状态、允许角色、是否必填原因
//
// 唯一权威流转表（旧版"Coordinator Approved / Manager Approved"双轨流程
// 已合并，遗留状态由 model.ClaimStatus.Normalize 归一化，不再出现在表中）:
//
//	Pending  --Verify  (Coordinator)--> Verified
//	Pending  --Query   (Coordinator)--> Query     [需原因]
//	Verified --Approve (Manager)-----> Approved
//	Verified --Reject  (Manager)-----> Rejected   [需原因]
//	Query    --Resubmit(Lecturer 本人)-> Pending
type transitionRule struct {
	from        model.ClaimStatus
	to          model.ClaimStatus
	role        string
	needsReason bool
	ownerOnly   bool
}

var transitionTable = map[WorkflowAction]transitionRule{
	ActionVerify:   {from: model.StatusPending, to: model.StatusVerified, role: model.RoleCoordinator},
	ActionQuery:    {from: model.StatusPending, to: model.StatusQuery, role: model.RoleCoordinator, needsReason: true},
	ActionApprove:  {from: model.StatusVerified, to: model.StatusApproved, role: model.RoleManager},
	ActionReject:   {from: model.StatusVerified, to: model.StatusRejected, role: model.RoleManager, needsReason: true},
	ActionResubmit: {from: model.StatusQuery, to: model.StatusPending, role: model.RoleLecturer, ownerOnly: true},
}

// WorkflowService 审批流引擎
//
// 每次流转：解析并确认申领单存在 → 角色校验 → 原因校验 → 状态机校验 →
// 在单个数据库事务内完成字段更新与审批日志追加（两者要么同时生效要么都不生效）。
// 操作者信息全部显式传参，引擎不读取任何全局会话状态。
type WorkflowService interface {
	Transition(ctx context.Context, claimID uint, action WorkflowAction, actor dto.Actor, reason string) (*dto.TransitionResult, error)
	ReviewClaim(ctx context.Context, claimID uint) (*dto.ReviewClaimResponse, error)
	AuditTrail(ctx context.Context, claimID uint) ([]dto.AuditLogResponse, error)
}

type workflowService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time // 注入时钟，便于测试
}

// NewWorkflowService 创建 WorkflowService 实例
func NewWorkflowService(repo *repository.Repository, logger *zap.Logger) WorkflowService {
	return &workflowService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Transition ──────────────────────

func (s *workflowService) Transition(ctx context.Context, claimID uint, action WorkflowAction, actor dto.Actor, reason string) (*dto.TransitionResult, error) {
	rule, ok := transitionTable[action]
	if !ok {
		return nil, ErrUnknownAction
	}

	// 1. 角色门禁：任何变更前先校验（Admin 可代行全部角色）
	if actor.Role != rule.role && actor.Role != model.RoleAdmin {
		return nil, ErrUnauthorizedRole
	}

	// 2. 原因校验：拒绝 / 质询必须给出理由，且需在任何变更前拦截
	if rule.needsReason && reason == "" {
		return nil, ErrMissingReason
	}

	// 3. 解析申领单：不存在则中止且不产生任何副作用
	claim, err := s.repo.Claim.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		s.logger.Error("查询申领单失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}

	// 4. 状态机校验（遗留状态已在读取时归一化）
	if claim.Status != rule.from {
		return nil, fmt.Errorf("%w: %s 状态不能执行 %s", ErrIllegalTransition, claim.Status, action)
	}

	// 5. 重新提交仅限申领人本人
	if rule.ownerOnly && actor.Role != model.RoleAdmin && claim.LecturerID != actor.UserID {
		return nil, ErrNotClaimOwner
	}

	// 6. 应用副作用并在事务内持久化
	now := s.now()
	s.applySideEffects(claim, rule.to, actor, now, reason)

	auditEntry := &model.AuditLog{
		ClaimID:   claim.ClaimID,
		Actor:     actor.Name,
		Role:      actor.Role,
		Action:    auditAction(action, actor.Role, reason),
		Timestamp: now,
	}

	err = s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		// 日志先行：追加失败时状态更新不会发生
		if err := txRepo.AuditLog.Append(ctx, auditEntry); err != nil {
			return fmt.Errorf("写入审批日志失败: %w", err)
		}
		updated, err := txRepo.Claim.Update(ctx, claim)
		if err != nil {
			return err
		}
		if !updated {
			return ErrClaimNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrClaimNotFound) {
			return nil, ErrClaimNotFound
		}
		if errors.Is(err, apperrors.ErrOptimisticLock) {
			// 并发审批：另一审批人已抢先完成流转
			return nil, ErrUpdateConflict
		}
		s.logger.Error("审批流转失败",
			zap.Uint("claim_id", claimID),
			zap.String("action", string(action)),
			zap.String("actor", actor.Name),
			zap.Error(err),
		)
		return nil, err
	}

	result := &dto.TransitionResult{
		Success: true,
		Status:  string(claim.Status),
		Message: s.resultMessage(claim, action),
	}

	s.logger.Info("审批流转完成",
		zap.Uint("claim_id", claimID),
		zap.String("action", string(action)),
		zap.String("status", result.Status),
		zap.String("actor", actor.Name),
		zap.String("role", actor.Role),
	)

	return result, nil
}

// applySideEffects 按目标状态落实字段变更
// verified_* 仅在进入 Verified / Query 时写入；
// approved_* 仅在进入 Approved / Rejected 时写入
func (s *workflowService) applySideEffects(claim *model.Claim, to model.ClaimStatus, actor dto.Actor, now time.Time, reason string) {
	claim.Status = to

	switch to {
	case model.StatusVerified:
		claim.VerifiedBy = &actor.Name
		claim.VerifiedDate = &now
	case model.StatusQuery:
		claim.RejectionReason = reason
		claim.VerifiedBy = &actor.Name
		claim.VerifiedDate = &now
	case model.StatusApproved:
		claim.ApprovedBy = &actor.Name
		claim.ApprovedDate = &now
	case model.StatusRejected:
		claim.RejectionReason = reason
		claim.ApprovedBy = &actor.Name
		claim.ApprovedDate = &now
	case model.StatusPending:
		// 重新提交：清空上一轮审核痕迹，重新进入待审队列
		claim.VerifiedBy = nil
		claim.VerifiedDate = nil
		claim.RejectionReason = ""
	}
}

// resultMessage 构造面向调用方的结果消息
func (s *workflowService) resultMessage(claim *model.Claim, action WorkflowAction) string {
	switch action {
	case ActionApprove:
		return fmt.Sprintf("Claim #%d approved (%s) - Amount: R%d",
			claim.ClaimID, approvalClass(claim), claim.TotalAmount())
	case ActionVerify:
		return fmt.Sprintf("Claim #%d has been verified and sent to Manager for approval", claim.ClaimID)
	case ActionQuery:
		return fmt.Sprintf("Claim #%d has been queried. Lecturer will be notified", claim.ClaimID)
	case ActionReject:
		return fmt.Sprintf("Claim #%d has been rejected", claim.ClaimID)
	case ActionResubmit:
		return fmt.Sprintf("Claim #%d has been resubmitted for review", claim.ClaimID)
	}
	return ""
}

// approvalClass 批准分级：超阈值为 Special Approval（仅上报，不落库）
func approvalClass(claim *model.Claim) string {
	if claim.TotalAmount() > specialApprovalThreshold {
		return "Special Approval"
	}
	return "Standard Approval"
}

// auditAction 审批日志动作描述；拒绝 / 质询附带原因以便合规追溯
func auditAction(action WorkflowAction, role, reason string) string {
	var desc string
	switch action {
	case ActionVerify:
		desc = "Verified by " + role
	case ActionQuery:
		desc = "Queried by " + role
	case ActionApprove:
		desc = "Approved by " + role
	case ActionReject:
		desc = "Rejected by " + role
	case ActionResubmit:
		desc = "Resubmitted by " + role
	}
	if reason != "" {
		desc += ": " + reason
	}
	return desc
}

// ────────────────────── ReviewClaim ──────────────────────

// ReviewClaim 审批详情：申领单 + 策略校验结果，供审批人决策参考
func (s *workflowService) ReviewClaim(ctx context.Context, claimID uint) (*dto.ReviewClaimResponse, error) {
	claim, err := s.repo.Claim.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		s.logger.Error("查询申领单失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}

	return &dto.ReviewClaimResponse{
		Claim:      dto.NewClaimResponse(claim),
		Validation: ValidateClaim(claim),
	}, nil
}

// ────────────────────── AuditTrail ──────────────────────

// AuditTrail 按时间序返回某申领单的全部审批日志
func (s *workflowService) AuditTrail(ctx context.Context, claimID uint) ([]dto.AuditLogResponse, error) {
	if _, err := s.repo.Claim.GetByID(ctx, claimID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}

	entries, err := s.repo.AuditLog.ListByClaim(ctx, claimID)
	if err != nil {
		s.logger.Error("查询审批日志失败", zap.Uint("claim_id", claimID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, dto.AuditLogResponse{
			LogID:     e.LogID,
			ClaimID:   e.ClaimID,
			Actor:     e.Actor,
			Role:      e.Role,
			Action:    e.Action,
			Timestamp: e.Timestamp,
		})
	}
	return result, nil
}
