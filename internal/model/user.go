package model

// ── 角色常量 ──
// 角色决定用户可触发的审批流转，见 service.WorkflowService
const (
	RoleLecturer    = "Lecturer"
	RoleCoordinator = "Coordinator"
	RoleManager     = "Manager"
	RoleHR          = "HR"
	RoleAdmin       = "Admin"
)

// ValidRole 判断是否为已知角色
func ValidRole(role string) bool {
	switch role {
	case RoleLecturer, RoleCoordinator, RoleManager, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// User 用户表 — 对应 users
type User struct {
	UserID       uint   `gorm:"primaryKey;autoIncrement"                   json:"user_id"`
	FullNames    string `gorm:"type:varchar(100);not null"                 json:"full_names"`
	Surname      string `gorm:"type:varchar(100);not null"                 json:"surname"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                 json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'Lecturer'" json:"role"`
	Gender       string `gorm:"type:varchar(10)"                           json:"gender,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// DisplayName 全名（审批流转中写入 verified_by / approved_by 的展示名）
func (u *User) DisplayName() string {
	return u.FullNames + " " + u.Surname
}
