package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult   *dto.RegisterResponse
	registerErr      error
	verifyResult     *dto.VerifyEmailResponse
	loginResult      *dto.TokenResponse
	loginErr         error
	demoErr          error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserResponse
	getCurrentErr    error
	changePassErr    error

	lastRefresh string
	lastAccess  string
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) VerifyEmail(_ context.Context, _ string) (*dto.VerifyEmailResponse, error) {
	return m.verifyResult, nil
}
func (m *mockAuthService) ResendVerification(_ context.Context, _ string) (*dto.ResendVerificationResponse, error) {
	return &dto.ResendVerificationResponse{}, nil
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) DemoLogin(_ context.Context, _ *dto.DemoLoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.demoErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, token string) (*dto.TokenResponse, error) {
	m.lastRefresh = token
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, accessToken, refreshToken string) error {
	m.lastAccess = accessToken
	m.lastRefresh = refreshToken
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}
func (m *mockAuthService) IsEmailVerified(_ context.Context, _ string) (bool, error) {
	return true, nil
}

// ── Mock OrderService ──

type mockOrderService struct {
	formResult   *dto.OrderFormResponse
	formErr      error
	wizardResult *dto.WizardStateResponse
	wizardErr    error
	submitResult *dto.OrderResponse
	submitErr    error
	listResult   []dto.OrderResponse
	getResult    *dto.OrderResponse
	getErr       error
	reminder     *dto.ReminderResponse
	dismissErr   error

	lastDate string
}

func (m *mockOrderService) GetOrderForm(_ context.Context, _, date string) (*dto.OrderFormResponse, error) {
	m.lastDate = date
	return m.formResult, m.formErr
}
func (m *mockOrderService) Wizard(_ context.Context, _, date string, _ *dto.WizardRequest) (*dto.WizardStateResponse, error) {
	m.lastDate = date
	return m.wizardResult, m.wizardErr
}
func (m *mockOrderService) Submit(_ context.Context, _, date string, _ *dto.SubmitOrderRequest) (*dto.OrderResponse, error) {
	m.lastDate = date
	return m.submitResult, m.submitErr
}
func (m *mockOrderService) ListMine(_ context.Context, _ string) ([]dto.OrderResponse, error) {
	return m.listResult, nil
}
func (m *mockOrderService) GetMine(_ context.Context, _, date string) (*dto.OrderResponse, error) {
	m.lastDate = date
	return m.getResult, m.getErr
}
func (m *mockOrderService) Reminder(_ context.Context, _ string) (*dto.ReminderResponse, error) {
	return m.reminder, nil
}
func (m *mockOrderService) DismissReminder(_ context.Context, _ string) error {
	return m.dismissErr
}

// ── Mock ReportService ──

type mockReportService struct {
	buf         *bytes.Buffer
	filename    string
	err         error
	statsResult *dto.RangeStatsResponse
	nutrition   *dto.NutritionStatsResponse
}

func (m *mockReportService) ExportDaily(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockReportService) RangeStats(_ context.Context, _ *dto.RangeRequest) (*dto.RangeStatsResponse, error) {
	return m.statsResult, m.err
}
func (m *mockReportService) ExportRange(_ context.Context, _ *dto.RangeRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockReportService) ExportPersonal(_ context.Context, _ string, _ *dto.RangeRequest) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockReportService) NutritionStats(_ context.Context, _ string, _ *dto.RangeRequest) (*dto.NutritionStatsResponse, error) {
	return m.nutrition, m.err
}

// ── Mock AssistantService ──

type mockAssistantService struct {
	enhanceResult *dto.EnhanceTextResponse
	adviceResult  *dto.NutritionAdviceResponse
	err           error
}

func (m *mockAssistantService) EnhanceNotification(_ context.Context, _ string) (*dto.EnhanceTextResponse, error) {
	return m.enhanceResult, m.err
}
func (m *mockAssistantService) NutritionalAdvice(_ context.Context, _ string, _ *dto.RangeRequest) (*dto.NutritionAdviceResponse, error) {
	return m.adviceResult, m.err
}

// ── Mock LogisticsService ──

type mockLogisticsService struct {
	batchResult *dto.BatchOrderResponse
	batchErr    error
	lastBatch   *dto.BatchOrderRequest
}

func (m *mockLogisticsService) Dashboard(_ context.Context, _ *dto.LogisticsRequest) (*dto.LogisticsResponse, error) {
	return &dto.LogisticsResponse{}, nil
}
func (m *mockLogisticsService) CreateBatchOrders(_ context.Context, req *dto.BatchOrderRequest) (*dto.BatchOrderResponse, error) {
	m.lastBatch = req
	return m.batchResult, m.batchErr
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *httptest.ResponseRecorder) {
	return gin.New(), httptest.NewRecorder()
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "student")
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

// withAuth 包装处理器，先注入认证上下文
func withAuth(fn gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAuth(c)
		fn(c)
	}
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func jsonRequest(method, path string, v interface{}) *http.Request {
	req := httptest.NewRequest(method, path, jsonBody(v))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, wantHTTP, wantCode int) {
	t.Helper()
	if w.Code != wantHTTP {
		t.Errorf("期望 HTTP %d，实际 %d (body=%s)", wantHTTP, w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != wantCode {
		t.Errorf("期望业务码 %d，实际 %d", wantCode, resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Created(t *testing.T) {
	mock := &mockAuthService{registerResult: &dto.RegisterResponse{ID: "u-1", Email: "ana@colegio.edu"}}
	h := NewAuthHandler(mock, nil)

	r, w := setupGin()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/register", dto.RegisterRequest{
		Name: "Ana", Email: "ana@colegio.edu", Password: "secret1", Role: "staff",
	}))

	assertStatus(t, w, http.StatusCreated, 0)
}

func TestAuthHandler_Register_EmailExists(t *testing.T) {
	mock := &mockAuthService{registerErr: service.ErrEmailExists}
	h := NewAuthHandler(mock, nil)

	r, w := setupGin()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/register", dto.RegisterRequest{
		Name: "Ana", Email: "ana@colegio.edu", Password: "secret1", Role: "staff",
	}))

	assertStatus(t, w, http.StatusConflict, 11002)
}

func TestAuthHandler_Login_SessionCookie(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900},
	}
	h := NewAuthHandler(mock, nil)

	r, w := setupGin()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/login", dto.LoginRequest{
		Email: "ana@colegio.edu", Password: "secret1",
	}))

	assertStatus(t, w, http.StatusOK, 0)
	cookie := findCookie(w, "refresh_token")
	if cookie == nil {
		t.Fatal("期望写入 refresh_token Cookie")
	}
	if cookie.Value != "refresh" || !cookie.HttpOnly {
		t.Errorf("Cookie 不符合预期: %+v", cookie)
	}
	if cookie.MaxAge != 0 {
		t.Errorf("未勾选记住我时应为会话 Cookie，实际 MaxAge=%d", cookie.MaxAge)
	}
	if cookie.Path != "/api/v1/auth" {
		t.Errorf("Cookie Path 期望 /api/v1/auth，实际 %s", cookie.Path)
	}
}

func TestAuthHandler_Login_RememberMe(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh"},
	}
	h := NewAuthHandler(mock, nil)

	r, w := setupGin()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/login", dto.LoginRequest{
		Email: "ana@colegio.edu", Password: "secret1", RememberMe: true,
	}))

	cookie := findCookie(w, "refresh_token")
	if cookie == nil || cookie.MaxAge != 7*24*3600 {
		t.Errorf("记住我应写入 7 天 Cookie，实际 %+v", cookie)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials}, nil)

	r, w := setupGin()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/login", dto.LoginRequest{
		Email: "ana@colegio.edu", Password: "wrong",
	}))

	assertStatus(t, w, http.StatusUnauthorized, 11001)
}

func TestAuthHandler_DemoLogin_Disabled(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{demoErr: service.ErrDemoLoginDisabled}, nil)

	r, w := setupGin()
	r.POST("/auth/demo", h.DemoLogin)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/demo", dto.DemoLoginRequest{Role: "student"}))

	assertStatus(t, w, http.StatusForbidden, 11009)
}

func TestAuthHandler_RefreshToken_FromCookie(t *testing.T) {
	mock := &mockAuthService{
		refreshResult: &dto.TokenResponse{AccessToken: "new-access", RefreshToken: "new-refresh"},
	}
	h := NewAuthHandler(mock, nil)

	r, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	assertStatus(t, w, http.StatusOK, 0)
	if mock.lastRefresh != "cookie-refresh" {
		t.Errorf("应优先使用 Cookie 中的 Token，实际 %q", mock.lastRefresh)
	}
	if cookie := findCookie(w, "refresh_token"); cookie == nil || cookie.Value != "new-refresh" {
		t.Errorf("刷新后应轮换 Cookie，实际 %+v", cookie)
	}
}

func TestAuthHandler_RefreshToken_FromBody(t *testing.T) {
	mock := &mockAuthService{refreshResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "b"}}
	h := NewAuthHandler(mock, nil)

	r, w := setupGin()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: "body-refresh"}))

	assertStatus(t, w, http.StatusOK, 0)
	if mock.lastRefresh != "body-refresh" {
		t.Errorf("期望读取请求体中的 Token，实际 %q", mock.lastRefresh)
	}
}

func TestAuthHandler_RefreshToken_Missing(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r, w := setupGin()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, jsonRequest("POST", "/auth/refresh", map[string]string{}))

	assertStatus(t, w, http.StatusUnauthorized, 11005)
}

func TestAuthHandler_RefreshToken_InvalidClearsCookie(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrTokenInvalid}, nil)

	r, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "revoked"})
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	assertStatus(t, w, http.StatusUnauthorized, 11005)
	if cookie := findCookie(w, "refresh_token"); cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("无效 Token 应清除 Cookie，实际 %+v", cookie)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, nil)

	r, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer access-token")
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh-token"})
	r.POST("/auth/logout", withAuth(h.Logout))
	r.ServeHTTP(w, req)

	assertStatus(t, w, http.StatusOK, 0)
	if mock.lastAccess != "access-token" || mock.lastRefresh != "refresh-token" {
		t.Errorf("登出应同时传入两个 Token，实际 access=%q refresh=%q", mock.lastAccess, mock.lastRefresh)
	}
	if cookie := findCookie(w, "refresh_token"); cookie == nil || cookie.MaxAge >= 0 {
		t.Errorf("登出应清除 Cookie，实际 %+v", cookie)
	}
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	mock := &mockAuthService{getCurrentResult: &dto.UserResponse{ID: "test-user-id", Name: "Ana"}}
	h := NewAuthHandler(mock, nil)

	r, w := setupGin()
	r.GET("/auth/me", withAuth(h.GetCurrentUser))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))

	assertStatus(t, w, http.StatusOK, 0)
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	r, w := setupGin()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/auth/me", nil))

	assertStatus(t, w, http.StatusUnauthorized, 10002)
}

func TestAuthHandler_ChangePassword_WrongOld(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{changePassErr: service.ErrOldPasswordWrong}, nil)

	r, w := setupGin()
	r.PUT("/auth/password", withAuth(h.ChangePassword))
	r.ServeHTTP(w, jsonRequest("PUT", "/auth/password", dto.ChangePasswordRequest{
		OldPassword: "old", NewPassword: "newpass1",
	}))

	assertStatus(t, w, http.StatusBadRequest, 11006)
}

// ═══════════════════════════════════════════════════════════
// OrderHandler Tests
// ═══════════════════════════════════════════════════════════

func validSubmit() dto.SubmitOrderRequest {
	return dto.SubmitOrderRequest{
		Selections: []dto.Selection{{CategoryID: "sopa", RecipeID: "r-sopa"}},
	}
}

func TestOrderHandler_Submit_Success(t *testing.T) {
	mock := &mockOrderService{submitResult: &dto.OrderResponse{ID: "o-1", Date: "2026-03-11", Status: "pending"}}
	h := NewOrderHandler(mock)

	r, w := setupGin()
	r.PUT("/orders/:date", withAuth(h.SubmitOrder))
	r.ServeHTTP(w, jsonRequest("PUT", "/orders/2026-03-11", validSubmit()))

	assertStatus(t, w, http.StatusOK, 0)
	if mock.lastDate != "2026-03-11" {
		t.Errorf("日期参数未透传，实际 %q", mock.lastDate)
	}
}

func TestOrderHandler_Submit_EmptySelections(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{})

	r, w := setupGin()
	r.PUT("/orders/:date", withAuth(h.SubmitOrder))
	r.ServeHTTP(w, jsonRequest("PUT", "/orders/2026-03-11", dto.SubmitOrderRequest{}))

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestOrderHandler_Submit_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHTTP int
		wantCode int
	}{
		{"截止", service.ErrOrderClosed, http.StatusBadRequest, 16003},
		{"已确认", service.ErrOrderLocked, http.StatusConflict, 16004},
		{"不在菜单", service.ErrOrderItemNotOnMenu, http.StatusBadRequest, 16006},
		{"必选缺失", service.ErrOrderMandatoryMissing, http.StatusBadRequest, 16009},
		{"无菜单", service.ErrMenuNotFound, http.StatusNotFound, 16001},
		{"日期无效", service.ErrInvalidDate, http.StatusBadRequest, 10006},
		{"未知错误", io.ErrUnexpectedEOF, http.StatusInternalServerError, 50000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOrderHandler(&mockOrderService{submitErr: tt.err})

			r, w := setupGin()
			r.PUT("/orders/:date", withAuth(h.SubmitOrder))
			r.ServeHTTP(w, jsonRequest("PUT", "/orders/2026-03-11", validSubmit()))

			assertStatus(t, w, tt.wantHTTP, tt.wantCode)
		})
	}
}

func TestOrderHandler_Wizard_InvalidAction(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{})

	r, w := setupGin()
	r.POST("/orders/:date/wizard", withAuth(h.Wizard))
	r.ServeHTTP(w, jsonRequest("POST", "/orders/2026-03-11/wizard", dto.WizardRequest{Action: "jump"}))

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestOrderHandler_Wizard_StepOutOfRange(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{wizardErr: service.ErrWizardStepOutOfRange})

	r, w := setupGin()
	r.POST("/orders/:date/wizard", withAuth(h.Wizard))
	r.ServeHTTP(w, jsonRequest("POST", "/orders/2026-03-11/wizard", dto.WizardRequest{Step: 9, Action: "next"}))

	assertStatus(t, w, http.StatusBadRequest, 16101)
}

func TestOrderHandler_ListMyOrders(t *testing.T) {
	mock := &mockOrderService{listResult: []dto.OrderResponse{{ID: "o-2"}, {ID: "o-1"}}}
	h := NewOrderHandler(mock)

	r, w := setupGin()
	r.GET("/orders/mine", withAuth(h.ListMyOrders))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orders/mine", nil))

	assertStatus(t, w, http.StatusOK, 0)
	data, _ := parseResponse(w).Data.(map[string]interface{})
	list, _ := data["list"].([]interface{})
	if len(list) != 2 {
		t.Errorf("期望 2 条订单，实际 %d", len(list))
	}
}

func TestOrderHandler_GetMyOrder_NotFound(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{getErr: service.ErrOrderNotFound})

	r, w := setupGin()
	r.GET("/orders/:date", withAuth(h.GetMyOrder))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orders/2026-03-11", nil))

	assertStatus(t, w, http.StatusNotFound, 16002)
}

func TestOrderHandler_Reminder(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{reminder: &dto.ReminderResponse{Show: true, Date: "2026-03-11"}})

	r, w := setupGin()
	r.GET("/orders/reminder", withAuth(h.Reminder))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/orders/reminder", nil))

	assertStatus(t, w, http.StatusOK, 0)
	data, _ := parseResponse(w).Data.(map[string]interface{})
	if data["show"] != true {
		t.Errorf("期望 show=true，实际 %v", data["show"])
	}
}

// ═══════════════════════════════════════════════════════════
// ReportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReportHandler_ExportDaily_Success(t *testing.T) {
	mock := &mockReportService{
		buf:      bytes.NewBufferString("fake-xlsx"),
		filename: "Pedidos_Cocina_2026-03-11.xlsx",
	}
	h := NewReportHandler(mock)

	r, w := setupGin()
	r.GET("/reports/daily", h.ExportDaily)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/daily?date=2026-03-11", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != response.XLSXContentType {
		t.Errorf("Content-Type 不符合预期: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Pedidos_Cocina_2026-03-11.xlsx") {
		t.Errorf("Content-Disposition 缺少文件名: %s", cd)
	}
	if w.Body.String() != "fake-xlsx" {
		t.Errorf("响应体不符合预期: %s", w.Body.String())
	}
}

func TestReportHandler_ExportDaily_MissingDate(t *testing.T) {
	h := NewReportHandler(&mockReportService{})

	r, w := setupGin()
	r.GET("/reports/daily", h.ExportDaily)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/daily", nil))

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestReportHandler_RangeStats_MissingParams(t *testing.T) {
	h := NewReportHandler(&mockReportService{})

	r, w := setupGin()
	r.GET("/reports/range", h.RangeStats)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/range?start=2026-03-01", nil))

	assertStatus(t, w, http.StatusBadRequest, 10001)
}

func TestReportHandler_RangeStats_InvertedRange(t *testing.T) {
	h := NewReportHandler(&mockReportService{err: service.ErrInvalidRange})

	r, w := setupGin()
	r.GET("/reports/range", h.RangeStats)
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/range?start=2026-03-10&end=2026-03-01", nil))

	assertStatus(t, w, http.StatusBadRequest, 10007)
}

func TestReportHandler_ExportPersonal_NoOrders(t *testing.T) {
	h := NewReportHandler(&mockReportService{err: service.ErrReportNoOrders})

	r, w := setupGin()
	r.GET("/reports/me/export", withAuth(h.ExportPersonal))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/me/export?start=2026-03-01&end=2026-03-31", nil))

	assertStatus(t, w, http.StatusNotFound, 19001)
}

func TestReportHandler_NutritionStats(t *testing.T) {
	mock := &mockReportService{nutrition: &dto.NutritionStatsResponse{AverageCalories: 450, DayCount: 2}}
	h := NewReportHandler(mock)

	r, w := setupGin()
	r.GET("/reports/me/nutrition", withAuth(h.NutritionStats))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/reports/me/nutrition?start=2026-03-01&end=2026-03-31", nil))

	assertStatus(t, w, http.StatusOK, 0)
	data, _ := parseResponse(w).Data.(map[string]interface{})
	if data["average_calories"] != float64(450) {
		t.Errorf("期望平均热量 450，实际 %v", data["average_calories"])
	}
}

// ═══════════════════════════════════════════════════════════
// AssistantHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAssistantHandler_Enhance_Success(t *testing.T) {
	mock := &mockAssistantService{enhanceResult: &dto.EnhanceTextResponse{Text: "Mañana habrá sopa."}}
	h := NewAssistantHandler(mock)

	r, w := setupGin()
	r.POST("/assistant/enhance", withAuth(h.EnhanceNotification))
	r.ServeHTTP(w, jsonRequest("POST", "/assistant/enhance", dto.EnhanceTextRequest{Text: "mañana sopa"}))

	assertStatus(t, w, http.StatusOK, 0)
}

func TestAssistantHandler_Enhance_Unavailable(t *testing.T) {
	h := NewAssistantHandler(&mockAssistantService{err: service.ErrAssistantUnavailable})

	r, w := setupGin()
	r.POST("/assistant/enhance", withAuth(h.EnhanceNotification))
	r.ServeHTTP(w, jsonRequest("POST", "/assistant/enhance", dto.EnhanceTextRequest{Text: "mañana sopa"}))

	assertStatus(t, w, http.StatusServiceUnavailable, 22001)
}

func TestAssistantHandler_NutritionalAdvice_NoOrders(t *testing.T) {
	h := NewAssistantHandler(&mockAssistantService{err: service.ErrReportNoOrders})

	r, w := setupGin()
	r.GET("/assistant/nutrition", withAuth(h.NutritionalAdvice))
	r.ServeHTTP(w, httptest.NewRequest("GET", "/assistant/nutrition?start=2026-03-01&end=2026-03-31", nil))

	assertStatus(t, w, http.StatusNotFound, 22003)
}

// ═══════════════════════════════════════════════════════════
// LogisticsHandler Tests
// ═══════════════════════════════════════════════════════════

func TestLogisticsHandler_CreateBatch_CountAboveSixty(t *testing.T) {
	// 数量上限由服务层按 school.max_batch_size 判断，绑定层只要求 >= 1
	mock := &mockLogisticsService{batchResult: &dto.BatchOrderResponse{Created: 80}}
	h := NewLogisticsHandler(mock)

	r, w := setupGin()
	r.POST("/logistics/batch-orders", withAuth(h.CreateBatchOrders))
	r.ServeHTTP(w, jsonRequest("POST", "/logistics/batch-orders", dto.BatchOrderRequest{
		Date: "2026-03-11", Grade: 4, Count: 80,
	}))

	assertStatus(t, w, http.StatusCreated, 0)
	if mock.lastBatch == nil || mock.lastBatch.Count != 80 {
		t.Errorf("数量应原样交给服务层，实际 %+v", mock.lastBatch)
	}
}

func TestLogisticsHandler_CreateBatch_Errors(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		err      error
		wantHTTP int
		wantCode int
	}{
		{"数量为零", 0, nil, http.StatusBadRequest, 10001},
		{"超出配置上限", 120, service.ErrBatchCountLimit, http.StatusBadRequest, 18003},
		{"无菜单", 5, service.ErrMenuNotFound, http.StatusNotFound, 18001},
		{"无可用菜谱", 5, service.ErrBatchNoRecipes, http.StatusBadRequest, 18002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLogisticsHandler(&mockLogisticsService{batchErr: tt.err})

			r, w := setupGin()
			r.POST("/logistics/batch-orders", withAuth(h.CreateBatchOrders))
			r.ServeHTTP(w, jsonRequest("POST", "/logistics/batch-orders", dto.BatchOrderRequest{
				Date: "2026-03-11", Grade: 4, Count: tt.count,
			}))

			assertStatus(t, w, tt.wantHTTP, tt.wantCode)
		})
	}
}
