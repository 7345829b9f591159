package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"contract-claims/internal/dto"
	"contract-claims/internal/model"
	"contract-claims/internal/repository"
)

// ── 报表模块业务错误 ──

var (
	ErrUnknownPeriod     = errors.New("未知的报表周期")
	ErrReportGenerateErr = errors.New("生成报表文件失败")
)

// 报表周期
const (
	PeriodAll     = "all"
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
)

// recentApprovedLimit HR 工作台展示的近期批准条数
const recentApprovedLimit = 10

// ReportService HR 报表业务接口
//
// 付款报表仅包含 Approved 状态的申领单；金额为 hours × rate 实时派生。
// CSV 与 Excel 均以 bytes.Buffer 返回，由 Handler 设置响应头后写出。
type ReportService interface {
	Dashboard(ctx context.Context) (*dto.HRDashboardStats, error)
	PaymentReport(ctx context.Context, period string) ([]dto.PaymentReportItem, error)
	ExportCSV(ctx context.Context, period string) (*bytes.Buffer, string, error)
	ExportExcel(ctx context.Context, period string) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── Dashboard ──────────────────────

func (s *reportService) Dashboard(ctx context.Context) (*dto.HRDashboardStats, error) {
	count, err := s.repo.Claim.CountByStatus(ctx, model.StatusApproved)
	if err != nil {
		s.logger.Error("统计已批准申领单失败", zap.Error(err))
		return nil, err
	}
	total, err := s.repo.Claim.SumApprovedAmount(ctx)
	if err != nil {
		s.logger.Error("统计已批准金额失败", zap.Error(err))
		return nil, err
	}

	claims, err := s.repo.Claim.ListApprovedWithLecturer(ctx)
	if err != nil {
		s.logger.Error("查询已批准申领单失败", zap.Error(err))
		return nil, err
	}

	recent := make([]dto.ApprovedClaimRow, 0, recentApprovedLimit)
	for i := range claims {
		if len(recent) >= recentApprovedLimit {
			break
		}
		c := &claims[i]
		row := dto.ApprovedClaimRow{
			ClaimID:      c.ClaimID,
			ModuleName:   c.ModuleName,
			Amount:       c.TotalAmount(),
			CreatingDate: c.CreatingDate,
		}
		if c.Lecturer != nil {
			row.LecturerName = c.Lecturer.DisplayName()
		}
		recent = append(recent, row)
	}

	return &dto.HRDashboardStats{
		ApprovedClaimsCount: count,
		TotalApprovedAmount: total,
		RecentApproved:      recent,
	}, nil
}

// ────────────────────── PaymentReport ──────────────────────

func (s *reportService) PaymentReport(ctx context.Context, period string) ([]dto.PaymentReportItem, error) {
	cutoff, err := s.periodCutoff(period)
	if err != nil {
		return nil, err
	}

	claims, err := s.repo.Claim.ListApprovedWithLecturer(ctx)
	if err != nil {
		s.logger.Error("查询付款报表数据失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.PaymentReportItem, 0, len(claims))
	for i := range claims {
		c := &claims[i]
		if !cutoff(c.CreatingDate) {
			continue
		}
		item := dto.PaymentReportItem{
			ClaimID:      c.ClaimID,
			ModuleName:   c.ModuleName,
			FacultyName:  c.FacultyName,
			Hours:        c.NumberOfHours,
			Rate:         c.AmountOfRate,
			TotalAmount:  c.TotalAmount(),
			CreatingDate: c.CreatingDate,
		}
		if c.Lecturer != nil {
			item.LecturerName = c.Lecturer.DisplayName()
			item.Email = c.Lecturer.Email
		}
		items = append(items, item)
	}
	return items, nil
}

// periodCutoff 按周期返回入选谓词
func (s *reportService) periodCutoff(period string) (func(time.Time) bool, error) {
	now := s.now()
	switch period {
	case PeriodAll, "":
		return func(time.Time) bool { return true }, nil
	case PeriodMonthly:
		y, m, _ := now.Date()
		return func(t time.Time) bool {
			ty, tm, _ := t.Date()
			return ty == y && tm == m
		}, nil
	case PeriodWeekly:
		weekAgo := now.AddDate(0, 0, -7)
		return func(t time.Time) bool { return !t.Before(weekAgo) }, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPeriod, period)
}

// ────────────────────── ExportCSV ──────────────────────

var reportHeader = []string{
	"ClaimID", "LecturerName", "Email", "Module", "Faculty",
	"Hours", "Rate", "TotalAmount", "Date",
}

func (s *reportService) ExportCSV(ctx context.Context, period string) (*bytes.Buffer, string, error) {
	items, err := s.PaymentReport(ctx, period)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(reportHeader); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrReportGenerateErr, err)
	}
	for _, item := range items {
		record := []string{
			strconv.FormatUint(uint64(item.ClaimID), 10),
			item.LecturerName,
			item.Email,
			item.ModuleName,
			item.FacultyName,
			strconv.Itoa(item.Hours),
			strconv.Itoa(item.Rate),
			strconv.Itoa(item.TotalAmount),
			item.CreatingDate.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrReportGenerateErr, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrReportGenerateErr, err)
	}

	filename := fmt.Sprintf("PaymentReport_%s.csv", s.now().Format("20060102"))
	return &buf, filename, nil
}

// ────────────────────── ExportExcel ──────────────────────

func (s *reportService) ExportExcel(ctx context.Context, period string) (*bytes.Buffer, string, error) {
	items, err := s.PaymentReport(ctx, period)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Payment Report"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrReportGenerateErr, err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 表头加粗
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrReportGenerateErr, err)
	}
	for col, title := range reportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, item := range items {
		values := []interface{}{
			item.ClaimID, item.LecturerName, item.Email,
			item.ModuleName, item.FacultyName,
			item.Hours, item.Rate, item.TotalAmount,
			item.CreatingDate.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// 汇总行
	totalRow := len(items) + 2
	totalCell, _ := excelize.CoordinatesToCellName(7, totalRow)
	f.SetCellValue(sheet, totalCell, "Total")
	sumCell, _ := excelize.CoordinatesToCellName(8, totalRow)
	total := 0
	for _, item := range items {
		total += item.TotalAmount
	}
	f.SetCellValue(sheet, sumCell, total)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 报表失败", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrReportGenerateErr, err)
	}

	filename := fmt.Sprintf("PaymentReport_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}
