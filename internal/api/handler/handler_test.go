package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"contract-claims/internal/dto"
	"contract-claims/internal/model"
	"contract-claims/internal/service"
	"contract-claims/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock ClaimService ──

type mockClaimService struct {
	submitResult *dto.SubmitClaimResponse
	submitErr    error
	getResult    *dto.ClaimResponse
	getErr       error
	listResult   []dto.ClaimResponse
	listErr      error
	myResult     []dto.ClaimResponse
	myErr        error
	bulkResult   *dto.BulkStatusResult
	bulkErr      error
}

func (m *mockClaimService) Submit(_ context.Context, _ *dto.SubmitClaimRequest, _ uint) (*dto.SubmitClaimResponse, error) {
	return m.submitResult, m.submitErr
}
func (m *mockClaimService) GetByID(_ context.Context, _ uint) (*dto.ClaimResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockClaimService) List(_ context.Context, _ *dto.ClaimListRequest) ([]dto.ClaimResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockClaimService) MyClaims(_ context.Context, _ uint) ([]dto.ClaimResponse, error) {
	return m.myResult, m.myErr
}
func (m *mockClaimService) BulkUpdateStatus(_ context.Context, _ *dto.BulkStatusRequest) (*dto.BulkStatusResult, error) {
	return m.bulkResult, m.bulkErr
}

// ── Mock WorkflowService ──

type mockWorkflowService struct {
	transitionResult *dto.TransitionResult
	transitionErr    error
	lastAction       service.WorkflowAction
	lastActor        dto.Actor
	lastReason       string
	reviewResult     *dto.ReviewClaimResponse
	reviewErr        error
	trailResult      []dto.AuditLogResponse
	trailErr         error
}

func (m *mockWorkflowService) Transition(_ context.Context, _ uint, action service.WorkflowAction, actor dto.Actor, reason string) (*dto.TransitionResult, error) {
	m.lastAction = action
	m.lastActor = actor
	m.lastReason = reason
	return m.transitionResult, m.transitionErr
}
func (m *mockWorkflowService) ReviewClaim(_ context.Context, _ uint) (*dto.ReviewClaimResponse, error) {
	return m.reviewResult, m.reviewErr
}
func (m *mockWorkflowService) AuditTrail(_ context.Context, _ uint) ([]dto.AuditLogResponse, error) {
	return m.trailResult, m.trailErr
}

// ── Mock ReportService ──

type mockReportService struct {
	dashboardResult *dto.HRDashboardStats
	dashboardErr    error
	reportResult    []dto.PaymentReportItem
	reportErr       error
	buf             *bytes.Buffer
	filename        string
	exportErr       error
}

func (m *mockReportService) Dashboard(_ context.Context) (*dto.HRDashboardStats, error) {
	return m.dashboardResult, m.dashboardErr
}
func (m *mockReportService) PaymentReport(_ context.Context, _ string) ([]dto.PaymentReportItem, error) {
	return m.reportResult, m.reportErr
}
func (m *mockReportService) ExportCSV(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.exportErr
}
func (m *mockReportService) ExportExcel(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.exportErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context, userID uint, name, role string) {
	c.Set("user_id", userID)
	c.Set("user_name", name)
	c.Set("role", role)
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// ClaimHandler Tests
// ═══════════════════════════════════════════════════════════

func TestClaimHandler_Submit_Success(t *testing.T) {
	svc := &mockClaimService{
		submitResult: &dto.SubmitClaimResponse{
			Claim:      &dto.ClaimResponse{ClaimID: 1, Status: "Pending", TotalAmount: 1000},
			Validation: dto.ValidationResult{IsValid: true, Messages: []string{}},
		},
	}
	h := NewClaimHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	setAuth(c, 1, "Thabo Nkosi", model.RoleLecturer)
	c.Request = httptest.NewRequest(http.MethodPost, "/claims", jsonBody(dto.SubmitClaimRequest{
		NumberOfSessions: 2, NumberOfHours: 10, AmountOfRate: 100,
		ModuleName: "CS101", FacultyName: "Science",
	}))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Submit(c)

	if w.Code != http.StatusCreated {
		t.Errorf("期望201，实际=%d: %s", w.Code, w.Body.String())
	}
}

func TestClaimHandler_Submit_ValidationFailure_422(t *testing.T) {
	svc := &mockClaimService{
		submitResult: &dto.SubmitClaimResponse{
			Validation: dto.ValidationResult{IsValid: false, Messages: []string{"Rate below faculty minimum (R100)"}},
		},
		submitErr: service.ErrValidationFailed,
	}
	h := NewClaimHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	setAuth(c, 1, "Thabo Nkosi", model.RoleLecturer)
	c.Request = httptest.NewRequest(http.MethodPost, "/claims", jsonBody(dto.SubmitClaimRequest{
		NumberOfSessions: 2, NumberOfHours: 10, AmountOfRate: 50,
		ModuleName: "CS101", FacultyName: "Science",
	}))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Submit(c)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("期望422，实际=%d", w.Code)
	}
}

func TestClaimHandler_Submit_Unauthenticated(t *testing.T) {
	h := NewClaimHandler(&mockClaimService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/claims", jsonBody(dto.SubmitClaimRequest{}))

	h.Submit(c)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望401，实际=%d", w.Code)
	}
}

func TestClaimHandler_GetClaim_NotFound(t *testing.T) {
	h := NewClaimHandler(&mockClaimService{getErr: service.ErrClaimNotFound})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/claims/99", nil)

	h.GetClaim(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("期望404，实际=%d", w.Code)
	}
}

func TestClaimHandler_GetClaim_BadID(t *testing.T) {
	h := NewClaimHandler(&mockClaimService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/claims/abc", nil)

	h.GetClaim(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望400，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// WorkflowHandler Tests
// ═══════════════════════════════════════════════════════════

func TestWorkflowHandler_Verify_Success(t *testing.T) {
	svc := &mockWorkflowService{
		transitionResult: &dto.TransitionResult{Success: true, Status: "Verified"},
	}
	h := NewWorkflowHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	setAuth(c, 10, "Jane Mokoena", model.RoleCoordinator)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/claims/1/verify", nil)

	h.Verify(c)

	if w.Code != http.StatusOK {
		t.Errorf("期望200，实际=%d: %s", w.Code, w.Body.String())
	}
	if svc.lastAction != service.ActionVerify {
		t.Errorf("期望 action=Verify，实际=%s", svc.lastAction)
	}
	if svc.lastActor.UserID != 10 || svc.lastActor.Role != model.RoleCoordinator {
		t.Error("操作者信息应从上下文显式传递")
	}
}

func TestWorkflowHandler_Query_PassesReason(t *testing.T) {
	svc := &mockWorkflowService{
		transitionResult: &dto.TransitionResult{Success: true, Status: "Query"},
	}
	h := NewWorkflowHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	setAuth(c, 10, "Jane Mokoena", model.RoleCoordinator)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/claims/1/query",
		jsonBody(dto.TransitionRequest{Reason: "Docs missing"}))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Query(c)

	if w.Code != http.StatusOK {
		t.Errorf("期望200，实际=%d", w.Code)
	}
	if svc.lastReason != "Docs missing" {
		t.Errorf("原因应传递到 Service: %q", svc.lastReason)
	}
}

func TestWorkflowHandler_Reject_MissingReason_400(t *testing.T) {
	h := NewWorkflowHandler(&mockWorkflowService{transitionErr: service.ErrMissingReason})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	setAuth(c, 20, "Sipho Dlamini", model.RoleManager)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/claims/1/reject", nil)

	h.Reject(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望400，实际=%d", w.Code)
	}
}

func TestWorkflowHandler_Approve_WrongRole_403(t *testing.T) {
	h := NewWorkflowHandler(&mockWorkflowService{transitionErr: service.ErrUnauthorizedRole})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	setAuth(c, 1, "Thabo Nkosi", model.RoleLecturer)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/claims/1/approve", nil)

	h.Approve(c)

	if w.Code != http.StatusForbidden {
		t.Errorf("期望403，实际=%d", w.Code)
	}
}

func TestWorkflowHandler_Approve_Conflict_409(t *testing.T) {
	h := NewWorkflowHandler(&mockWorkflowService{transitionErr: service.ErrUpdateConflict})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	setAuth(c, 20, "Sipho Dlamini", model.RoleManager)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/claims/1/approve", nil)

	h.Approve(c)

	if w.Code != http.StatusConflict {
		t.Errorf("期望409，实际=%d", w.Code)
	}
}

func TestWorkflowHandler_Verify_IllegalTransition_409(t *testing.T) {
	h := NewWorkflowHandler(&mockWorkflowService{transitionErr: service.ErrIllegalTransition})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	setAuth(c, 10, "Jane Mokoena", model.RoleCoordinator)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	c.Request = httptest.NewRequest(http.MethodPost, "/claims/1/verify", nil)

	h.Verify(c)

	if w.Code != http.StatusConflict {
		t.Errorf("期望409，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_ExportCSV_Headers(t *testing.T) {
	h := NewReportHandler(&mockReportService{
		buf:      bytes.NewBufferString("ClaimID,LecturerName\n"),
		filename: "PaymentReport_20260315.csv",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/hr/payment-report/export/csv", nil)

	h.ExportCSV(c)

	if w.Code != http.StatusOK {
		t.Errorf("期望200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type 不符: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="PaymentReport_20260315.csv"` {
		t.Errorf("Content-Disposition 不符: %s", cd)
	}
}

func TestReportHandler_PaymentReport_UnknownPeriod_400(t *testing.T) {
	h := NewReportHandler(&mockReportService{reportErr: service.ErrUnknownPeriod})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/hr/payment-report?period=quarterly", nil)

	h.PaymentReport(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("期望400，实际=%d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14001 {
		t.Errorf("业务码不符: %d", resp.Code)
	}
}
