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

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound  = errors.New("用户不存在")
	ErrUserHasClaims = errors.New("该用户名下存在申领单，不能删除")
	ErrEmailTaken    = errors.New("邮箱已被占用")
	ErrUnknownRole   = errors.New("未知的用户角色")
)

// UserService 用户管理业务接口（Admin / HR 入口）
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	GetByID(ctx context.Context, id uint) (*dto.UserResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	AssignRole(ctx context.Context, id uint, role string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uint) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	if req.Role != "" && !model.ValidRole(req.Role) {
		return nil, 0, ErrUnknownRole
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	users, total, err := s.repo.User.List(ctx, req.Role, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *dto.NewUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.repo.User.GetByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询邮箱占用失败", zap.Error(err))
			return nil, err
		}
		if existing != nil && existing.UserID != id {
			return nil, ErrEmailTaken
		}
		user.Email = *req.Email
	}
	if req.FullNames != nil {
		user.FullNames = *req.FullNames
	}
	if req.Surname != nil {
		user.Surname = *req.Surname
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// ────────────────────── AssignRole ──────────────────────

func (s *userService) AssignRole(ctx context.Context, id uint, role string) (*dto.UserResponse, error) {
	if !model.ValidRole(role) {
		return nil, ErrUnknownRole
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("分配角色失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户角色已变更", zap.Uint("user_id", id), zap.String("role", role))
	return dto.NewUserResponse(user), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除用户
// 名下存在申领单的用户不可删除：申领单及其审批历史是永久合规记录
func (s *userService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.Claim.CountByLecturer(ctx, id)
	if err != nil {
		s.logger.Error("统计用户申领单失败", zap.Uint("user_id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrUserHasClaims
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.Uint("user_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户已删除", zap.Uint("user_id", id))
	return nil
}

// ── 内部辅助方法 ──

func (s *userService) getUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}
