package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gorm.io/gorm"

	"contract-claims/internal/model"
	"contract-claims/internal/repository"
	apperrors "contract-claims/pkg/errors"
)

// ── Mock ClaimRepository ──

type mockClaimRepo struct {
	claims  map[uint]*model.Claim
	nextID  uint
	failGet bool

	// getHook 在每次 GetByID 返回后调用，用于模拟并发写入交错
	getHook func(read *model.Claim)
}

func newMockClaimRepo() *mockClaimRepo {
	return &mockClaimRepo{claims: make(map[uint]*model.Claim), nextID: 1}
}

func copyClaim(c *model.Claim) *model.Claim {
	cp := *c
	return &cp
}

func (m *mockClaimRepo) Create(_ context.Context, claim *model.Claim) error {
	if claim.ClaimID == 0 {
		claim.ClaimID = m.nextID
		m.nextID++
	}
	if claim.Version == 0 {
		claim.Version = 1
	}
	m.claims[claim.ClaimID] = copyClaim(claim)
	return nil
}

func (m *mockClaimRepo) GetByID(_ context.Context, id uint) (*model.Claim, error) {
	if m.failGet {
		return nil, errors.New("db error")
	}
	c, ok := m.claims[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 读取时归一化遗留状态，与 GORM AfterFind 钩子一致
	cp := copyClaim(c)
	cp.Status = cp.Status.Normalize()
	if m.getHook != nil {
		m.getHook(cp)
	}
	return cp, nil
}

func (m *mockClaimRepo) List(_ context.Context, filter repository.ClaimFilter) ([]model.Claim, error) {
	var result []model.Claim
	for _, c := range m.claims {
		if filter.LecturerID != 0 && c.LecturerID != filter.LecturerID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(c.ModuleName, filter.Search) &&
			!strings.Contains(c.FacultyName, filter.Search) {
			continue
		}
		cp := copyClaim(c)
		cp.Status = cp.Status.Normalize()
		result = append(result, *cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatingDate.After(result[j].CreatingDate)
	})
	return result, nil
}

func (m *mockClaimRepo) ListByStatus(_ context.Context, statuses []model.ClaimStatus, orderBy string) ([]model.Claim, error) {
	want := make(map[model.ClaimStatus]bool, len(statuses))
	for _, s := range statuses {
		want[s] = true
	}

	var result []model.Claim
	for _, c := range m.claims {
		if !want[c.Status] {
			continue
		}
		cp := copyClaim(c)
		cp.Status = cp.Status.Normalize()
		result = append(result, *cp)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := &result[i], &result[j]
		switch {
		case strings.HasPrefix(orderBy, "creating_date ASC"):
			if !a.CreatingDate.Equal(b.CreatingDate) {
				return a.CreatingDate.Before(b.CreatingDate)
			}
			return a.ClaimID < b.ClaimID
		case strings.HasPrefix(orderBy, "verified_date ASC"):
			if a.VerifiedDate != nil && b.VerifiedDate != nil && !a.VerifiedDate.Equal(*b.VerifiedDate) {
				return a.VerifiedDate.Before(*b.VerifiedDate)
			}
			return a.ClaimID < b.ClaimID
		case strings.HasPrefix(orderBy, "approved_date DESC"):
			if a.ApprovedDate != nil && b.ApprovedDate != nil && !a.ApprovedDate.Equal(*b.ApprovedDate) {
				return a.ApprovedDate.After(*b.ApprovedDate)
			}
			return a.ClaimID > b.ClaimID
		}
		return a.ClaimID < b.ClaimID
	})
	return result, nil
}

func (m *mockClaimRepo) ListApprovedWithLecturer(_ context.Context) ([]model.Claim, error) {
	var result []model.Claim
	for _, c := range m.claims {
		if c.Status.Normalize() != model.StatusApproved {
			continue
		}
		cp := copyClaim(c)
		cp.Status = cp.Status.Normalize()
		result = append(result, *cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatingDate.Equal(result[j].CreatingDate) {
			return result[i].CreatingDate.After(result[j].CreatingDate)
		}
		return result[i].ClaimID > result[j].ClaimID
	})
	return result, nil
}

func (m *mockClaimRepo) UpdateStatus(_ context.Context, id uint, status model.ClaimStatus) (bool, error) {
	c, ok := m.claims[id]
	if !ok {
		return false, nil
	}
	c.Status = status
	return true, nil
}

func (m *mockClaimRepo) Update(_ context.Context, claim *model.Claim) (bool, error) {
	stored, ok := m.claims[claim.ClaimID]
	if !ok {
		return false, nil
	}
	if stored.Version != claim.Version {
		return false, apperrors.ErrOptimisticLock
	}
	cp := copyClaim(claim)
	cp.Version = claim.Version + 1
	m.claims[claim.ClaimID] = cp
	claim.Version++
	return true, nil
}

func (m *mockClaimRepo) CountByStatus(_ context.Context, status model.ClaimStatus) (int64, error) {
	var count int64
	for _, c := range m.claims {
		if c.Status.Normalize() == status {
			count++
		}
	}
	return count, nil
}

func (m *mockClaimRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.claims)), nil
}

func (m *mockClaimRepo) CountByLecturer(_ context.Context, lecturerID uint) (int64, error) {
	var count int64
	for _, c := range m.claims {
		if c.LecturerID == lecturerID {
			count++
		}
	}
	return count, nil
}

func (m *mockClaimRepo) SumApprovedAmount(_ context.Context) (int64, error) {
	var total int64
	for _, c := range m.claims {
		if c.Status.Normalize() == model.StatusApproved {
			total += int64(c.TotalAmount())
		}
	}
	return total, nil
}

// ── Mock AuditLogRepository ──

type mockAuditLogRepo struct {
	entries    []model.AuditLog
	nextID     uint
	failAppend bool
}

func newMockAuditLogRepo() *mockAuditLogRepo {
	return &mockAuditLogRepo{nextID: 1}
}

func (m *mockAuditLogRepo) Append(_ context.Context, entry *model.AuditLog) error {
	if m.failAppend {
		return errors.New("audit store unavailable")
	}
	entry.LogID = m.nextID
	m.nextID++
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditLogRepo) ListByClaim(_ context.Context, claimID uint) ([]model.AuditLog, error) {
	var result []model.AuditLog
	for _, e := range m.entries {
		if e.ClaimID == claimID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].Timestamp.Before(result[j].Timestamp)
		}
		return result[i].LogID < result[j].LogID
	})
	return result, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == 0 {
		user.UserID = m.nextID
		m.nextID++
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Surname != all[j].Surname {
			return all[i].Surname < all[j].Surname
		}
		return all[i].FullNames < all[j].FullNames
	})
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── 测试辅助 ──

// newTestRepository 构造绑定 mock 的 Repository 聚合
// db 为 nil，Transaction 退化为直接执行
func newTestRepository(claimRepo *mockClaimRepo, auditRepo *mockAuditLogRepo, userRepo *mockUserRepo) *repository.Repository {
	return &repository.Repository{
		Claim:    claimRepo,
		AuditLog: auditRepo,
		User:     userRepo,
	}
}
