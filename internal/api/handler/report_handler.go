package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-claims/internal/service"
	"contract-claims/pkg/response"
)

// ReportHandler HR 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Dashboard HR 工作台统计
// GET /api/v1/hr/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, stats)
}

// PaymentReport 付款报表（period: all | monthly | weekly）
// GET /api/v1/hr/payment-report
func (h *ReportHandler) PaymentReport(c *gin.Context) {
	period := c.DefaultQuery("period", service.PeriodAll)

	items, err := h.reportSvc.PaymentReport(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPeriod) {
			response.BadRequest(c, 14001, "未知的报表周期")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, items)
}

// ExportCSV 导出付款报表 CSV
// GET /api/v1/hr/payment-report/export/csv
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	period := c.DefaultQuery("period", service.PeriodAll)

	buf, filename, err := h.reportSvc.ExportCSV(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPeriod) {
			response.BadRequest(c, 14001, "未知的报表周期")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel 导出付款报表 Excel
// GET /api/v1/hr/payment-report/export/xlsx
func (h *ReportHandler) ExportExcel(c *gin.Context) {
	period := c.DefaultQuery("period", service.PeriodAll)

	buf, filename, err := h.reportSvc.ExportExcel(c.Request.Context(), period)
	if err != nil {
		if errors.Is(err, service.ErrUnknownPeriod) {
			response.BadRequest(c, 14001, "未知的报表周期")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
