package dto

import "contract-claims/internal/model"

// ── 用户模块 DTO ──

// UserResponse 用户信息响应
type UserResponse struct {
	UserID    uint   `json:"user_id"`
	FullNames string `json:"full_names"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Gender    string `json:"gender,omitempty"`
}

// NewUserResponse 由模型构造用户响应
func NewUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		UserID:    u.UserID,
		FullNames: u.FullNames,
		Surname:   u.Surname,
		Email:     u.Email,
		Role:      u.Role,
		Gender:    u.Gender,
	}
}

// UserListRequest 用户列表筛选
type UserListRequest struct {
	Role     string `form:"role"`
	Page     int    `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// UpdateUserRequest 更新用户信息请求（HR 维护讲师资料 / Admin 维护全员）
type UpdateUserRequest struct {
	FullNames *string `json:"full_names" binding:"omitempty,min=1,max=100"`
	Surname   *string `json:"surname"    binding:"omitempty,min=1,max=100"`
	Email     *string `json:"email"      binding:"omitempty,email"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
