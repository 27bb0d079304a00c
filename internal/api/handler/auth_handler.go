package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/config"
	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
	cookie  *config.CookieConfig
}

// NewAuthHandler 创建 AuthHandler；cookie 为 nil 时使用默认（非 Secure、Lax）
func NewAuthHandler(authSvc service.AuthService, cookie *config.CookieConfig) *AuthHandler {
	if cookie == nil {
		cookie = &config.CookieConfig{SameSite: "Lax"}
	}
	return &AuthHandler{authSvc: authSvc, cookie: cookie}
}

// Register 自助注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, result)
}

// VerifyEmail 邮箱验证
// GET /api/v1/auth/verify?token=xxx
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ResendVerification 重新发送验证邮件
// POST /api/v1/auth/verify/resend
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.ResendVerification(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, result)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, req.RememberMe)
	response.OK(c, result)
}

// DemoLogin 演示账号一键登录
// POST /api/v1/auth/demo
func (h *AuthHandler) DemoLogin(c *gin.Context) {
	var req dto.DemoLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.DemoLogin(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, false)
	response.OK(c, result)
}

// RefreshToken 刷新 Token
// POST /api/v1/auth/refresh
// 优先读取 HttpOnly Cookie，其次读取请求体
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(refreshCookieName)
	if token == "" {
		var req dto.RefreshTokenRequest
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	if token == "" {
		response.Unauthorized(c, 11005, "缺少 Refresh Token")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), token)
	if err != nil {
		h.clearRefreshCookie(c)
		h.handleAuthError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, false)
	response.OK(c, result)
}

// Logout 用户登出：Access Token 与 Refresh Token 均加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	accessToken := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	refreshToken, _ := c.Cookie(refreshCookieName)

	if err := h.authSvc.Logout(c.Request.Context(), accessToken, refreshToken); err != nil {
		response.InternalError(c)
		return
	}

	h.clearRefreshCookie(c)
	response.OK(c, nil)
}

// GetCurrentUser 获取当前用户
// GET /api/v1/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, user)
}

// ChangePassword 修改密码
// PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── Cookie ──

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string, rememberMe bool) {
	if token == "" {
		return
	}
	maxAge := 0 // 会话 Cookie
	if rememberMe {
		maxAge = 7 * 24 * 3600
	}
	c.SetSameSite(parseSameSite(h.cookie.SameSite))
	c.SetCookie(refreshCookieName, token, maxAge, refreshCookiePath, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(parseSameSite(h.cookie.SameSite))
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, h.cookie.Domain, h.cookie.Secure, true)
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// handleAuthError 统一处理认证模块业务错误
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, 11001, "邮箱或密码错误")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 11002, "邮箱已被注册")
	case errors.Is(err, service.ErrInvalidEmail):
		response.BadRequest(c, 11003, "邮箱格式无效")
	case errors.Is(err, service.ErrInvalidPhone):
		response.BadRequest(c, 11004, "手机号必须为 10 位数字")
	case errors.Is(err, service.ErrTokenInvalid):
		response.Unauthorized(c, 11005, "Token 无效或已过期")
	case errors.Is(err, service.ErrOldPasswordWrong):
		response.BadRequest(c, 11006, "原密码错误")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 11007, "角色无效")
	case errors.Is(err, service.ErrGradeRequired):
		response.BadRequest(c, 11008, "学生必须填写年级")
	case errors.Is(err, service.ErrDemoLoginDisabled):
		response.Forbidden(c, 11009, "演示登录未开启")
	case errors.Is(err, service.ErrAlreadyVerified):
		response.BadRequest(c, 11010, "邮箱已验证")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11011, "用户不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
