package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"contract-claims/internal/dto"
	"contract-claims/internal/model"
)

func setupTestUserService() (UserService, *mockUserRepo, *mockClaimRepo) {
	userRepo := newMockUserRepo()
	claimRepo := newMockClaimRepo()
	repo := newTestRepository(claimRepo, newMockAuditLogRepo(), userRepo)
	return NewUserService(repo, zap.NewNop()), userRepo, claimRepo
}

func seedUser(userRepo *mockUserRepo, fullNames, surname, email, role string) *model.User {
	user := &model.User{
		FullNames:    fullNames,
		Surname:      surname,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	}
	_ = userRepo.Create(context.Background(), user)
	return user
}

// ── GetByID / List ──

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, _, _ := setupTestUserService()

	_, err := svc.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestUserService_List_FilterByRole(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	seedUser(userRepo, "Thabo", "Nkosi", "thabo@uni.ac.za", model.RoleLecturer)
	seedUser(userRepo, "Jane", "Mokoena", "jane@uni.ac.za", model.RoleCoordinator)

	users, total, err := svc.List(context.Background(), &dto.UserListRequest{Role: model.RoleLecturer, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(users) != 1 {
		t.Errorf("期望1条记录，实际 total=%d len=%d", total, len(users))
	}
	if users[0].Role != model.RoleLecturer {
		t.Errorf("期望 role=Lecturer，实际=%s", users[0].Role)
	}
}

func TestUserService_List_UnknownRole(t *testing.T) {
	svc, _, _ := setupTestUserService()

	_, _, err := svc.List(context.Background(), &dto.UserListRequest{Role: "Dean"})
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("期望 ErrUnknownRole，实际: %v", err)
	}
}

// ── Update ──

func TestUserService_Update_EmailTaken(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	u1 := seedUser(userRepo, "Thabo", "Nkosi", "thabo@uni.ac.za", model.RoleLecturer)
	seedUser(userRepo, "Jane", "Mokoena", "jane@uni.ac.za", model.RoleCoordinator)

	taken := "jane@uni.ac.za"
	_, err := svc.Update(context.Background(), u1.UserID, &dto.UpdateUserRequest{Email: &taken})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestUserService_Update_PartialFields(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	u := seedUser(userRepo, "Thabo", "Nkosi", "thabo@uni.ac.za", model.RoleLecturer)

	surname := "Nkosi-Dlamini"
	result, err := svc.Update(context.Background(), u.UserID, &dto.UpdateUserRequest{Surname: &surname})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Surname != "Nkosi-Dlamini" {
		t.Errorf("姓氏应已更新: %s", result.Surname)
	}
	if result.FullNames != "Thabo" || result.Email != "thabo@uni.ac.za" {
		t.Error("未提供的字段不应改变")
	}
}

// ── AssignRole ──

func TestUserService_AssignRole_Success(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	u := seedUser(userRepo, "Jane", "Mokoena", "jane@uni.ac.za", model.RoleLecturer)

	result, err := svc.AssignRole(context.Background(), u.UserID, model.RoleCoordinator)
	if err != nil {
		t.Fatalf("AssignRole 应成功: %v", err)
	}
	if result.Role != model.RoleCoordinator {
		t.Errorf("期望 role=Coordinator，实际=%s", result.Role)
	}
}

func TestUserService_AssignRole_UnknownRole(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	u := seedUser(userRepo, "Jane", "Mokoena", "jane@uni.ac.za", model.RoleLecturer)

	_, err := svc.AssignRole(context.Background(), u.UserID, "Dean")
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("期望 ErrUnknownRole，实际: %v", err)
	}
}

// ── Delete ──

func TestUserService_Delete_Success(t *testing.T) {
	svc, userRepo, _ := setupTestUserService()
	u := seedUser(userRepo, "Thabo", "Nkosi", "thabo@uni.ac.za", model.RoleLecturer)

	if err := svc.Delete(context.Background(), u.UserID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := userRepo.users[u.UserID]; ok {
		t.Error("用户应已删除")
	}
}

func TestUserService_Delete_BlockedByClaims(t *testing.T) {
	svc, userRepo, claimRepo := setupTestUserService()
	u := seedUser(userRepo, "Thabo", "Nkosi", "thabo@uni.ac.za", model.RoleLecturer)
	seedClaim(claimRepo, model.StatusApproved, u.UserID)

	err := svc.Delete(context.Background(), u.UserID)
	if !errors.Is(err, ErrUserHasClaims) {
		t.Errorf("名下有申领单的用户不应可删除，期望 ErrUserHasClaims，实际: %v", err)
	}
	if _, ok := userRepo.users[u.UserID]; !ok {
		t.Error("删除被拦截时用户应保留")
	}
}
