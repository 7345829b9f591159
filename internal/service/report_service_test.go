package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"contract-claims/internal/model"
)

func setupTestReportService() (*reportService, *mockClaimRepo) {
	claimRepo := newMockClaimRepo()
	repo := newTestRepository(claimRepo, newMockAuditLogRepo(), newMockUserRepo())
	svc := NewReportService(repo, zap.NewNop()).(*reportService)
	return svc, claimRepo
}

func seedApprovedClaim(claimRepo *mockClaimRepo, lecturer *model.User, created time.Time) *model.Claim {
	claim := &model.Claim{
		NumberOfSessions: 2,
		NumberOfHours:    10,
		AmountOfRate:     100,
		ModuleName:       "CS101",
		FacultyName:      "Science",
		Status:           model.StatusApproved,
		CreatingDate:     created,
		LecturerID:       lecturer.UserID,
		Lecturer:         lecturer,
		Version:          1,
	}
	_ = claimRepo.Create(context.Background(), claim)
	return claim
}

func testLecturer() *model.User {
	return &model.User{
		UserID:    1,
		FullNames: "Thabo",
		Surname:   "Nkosi",
		Email:     "thabo.nkosi@university.ac.za",
		Role:      model.RoleLecturer,
	}
}

// ── Dashboard ──

func TestReportService_Dashboard(t *testing.T) {
	svc, claimRepo := setupTestReportService()
	lect := testLecturer()
	seedApprovedClaim(claimRepo, lect, time.Now())
	seedApprovedClaim(claimRepo, lect, time.Now())
	seedClaim(claimRepo, model.StatusPending, 1)

	stats, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard 应成功: %v", err)
	}
	if stats.ApprovedClaimsCount != 2 {
		t.Errorf("期望已批准数=2，实际=%d", stats.ApprovedClaimsCount)
	}
	if stats.TotalApprovedAmount != 2000 {
		t.Errorf("期望已批准总额=2000，实际=%d", stats.TotalApprovedAmount)
	}
	if len(stats.RecentApproved) != 2 {
		t.Errorf("期望近期批准2条，实际=%d", len(stats.RecentApproved))
	}
	if stats.RecentApproved[0].LecturerName != "Thabo Nkosi" {
		t.Errorf("讲师姓名不符: %s", stats.RecentApproved[0].LecturerName)
	}
}

// ── PaymentReport ──

func TestReportService_PaymentReport_OnlyApproved(t *testing.T) {
	svc, claimRepo := setupTestReportService()
	seedApprovedClaim(claimRepo, testLecturer(), time.Now())
	seedClaim(claimRepo, model.StatusVerified, 1)
	seedClaim(claimRepo, model.StatusRejected, 1)

	items, err := svc.PaymentReport(context.Background(), PeriodAll)
	if err != nil {
		t.Fatalf("PaymentReport 应成功: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("付款报表应仅含已批准申领单，实际=%d", len(items))
	}
	if items[0].TotalAmount != 1000 {
		t.Errorf("金额应为 hours×rate=1000，实际=%d", items[0].TotalAmount)
	}
	if items[0].Email != "thabo.nkosi@university.ac.za" {
		t.Errorf("报表应含讲师邮箱: %s", items[0].Email)
	}
}

func TestReportService_PaymentReport_MonthlyPeriod(t *testing.T) {
	svc, claimRepo := setupTestReportService()
	lect := testLecturer()
	now := time.Now()
	svc.now = func() time.Time { return now }

	seedApprovedClaim(claimRepo, lect, now)                   // 当月
	seedApprovedClaim(claimRepo, lect, now.AddDate(0, -2, 0)) // 两个月前

	items, err := svc.PaymentReport(context.Background(), PeriodMonthly)
	if err != nil {
		t.Fatalf("PaymentReport 应成功: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("月度报表应仅含当月记录，实际=%d", len(items))
	}
}

func TestReportService_PaymentReport_WeeklyPeriod(t *testing.T) {
	svc, claimRepo := setupTestReportService()
	lect := testLecturer()
	now := time.Now()
	svc.now = func() time.Time { return now }

	seedApprovedClaim(claimRepo, lect, now.AddDate(0, 0, -3))  // 一周内
	seedApprovedClaim(claimRepo, lect, now.AddDate(0, 0, -10)) // 一周前

	items, err := svc.PaymentReport(context.Background(), PeriodWeekly)
	if err != nil {
		t.Fatalf("PaymentReport 应成功: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("周报表应仅含近7天记录，实际=%d", len(items))
	}
}

func TestReportService_PaymentReport_UnknownPeriod(t *testing.T) {
	svc, _ := setupTestReportService()

	_, err := svc.PaymentReport(context.Background(), "quarterly")
	if !errors.Is(err, ErrUnknownPeriod) {
		t.Errorf("期望 ErrUnknownPeriod，实际: %v", err)
	}
}

// ── ExportCSV ──

func TestReportService_ExportCSV(t *testing.T) {
	svc, claimRepo := setupTestReportService()
	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	seedApprovedClaim(claimRepo, testLecturer(), fixed)

	buf, filename, err := svc.ExportCSV(context.Background(), PeriodAll)
	if err != nil {
		t.Fatalf("ExportCSV 应成功: %v", err)
	}
	if filename != "PaymentReport_20260315.csv" {
		t.Errorf("文件名不符: %s", filename)
	}

	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV 解析失败: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("期望表头+1行数据，实际=%d行", len(records))
	}
	if strings.Join(records[0], ",") != "ClaimID,LecturerName,Email,Module,Faculty,Hours,Rate,TotalAmount,Date" {
		t.Errorf("表头不符: %v", records[0])
	}
	row := records[1]
	if row[1] != "Thabo Nkosi" || row[7] != "1000" || row[8] != "2026-03-15" {
		t.Errorf("数据行不符: %v", row)
	}
}

func TestReportService_ExportCSV_EmptyReport(t *testing.T) {
	svc, _ := setupTestReportService()

	buf, _, err := svc.ExportCSV(context.Background(), PeriodAll)
	if err != nil {
		t.Fatalf("空报表导出应成功: %v", err)
	}
	records, _ := csv.NewReader(buf).ReadAll()
	if len(records) != 1 {
		t.Errorf("空报表应仅含表头，实际=%d行", len(records))
	}
}

// ── ExportExcel ──

func TestReportService_ExportExcel(t *testing.T) {
	svc, claimRepo := setupTestReportService()
	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	seedApprovedClaim(claimRepo, testLecturer(), fixed)

	buf, filename, err := svc.ExportExcel(context.Background(), PeriodAll)
	if err != nil {
		t.Fatalf("ExportExcel 应成功: %v", err)
	}
	if filename != "PaymentReport_20260315.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}
	if buf.Len() == 0 {
		t.Error("Excel 文件不应为空")
	}
	// xlsx 是 zip 容器，检查魔数
	head := buf.Bytes()[:2]
	if head[0] != 'P' || head[1] != 'K' {
		t.Error("Excel 输出应为合法的 xlsx (zip) 文件")
	}
}
