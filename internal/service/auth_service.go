package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/config"
	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
	"github.com/anubclao/Edueat/pkg/jwt"
	"github.com/anubclao/Edueat/pkg/mailer"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidEmail       = errors.New("邮箱格式无效")
	ErrInvalidPhone       = errors.New("手机号必须为 10 位数字")
	ErrInvalidRole        = errors.New("角色无效")
	ErrGradeRequired      = errors.New("学生必须填写年级")
	ErrDemoLoginDisabled  = errors.New("演示登录未开启")
	ErrTokenInvalid       = errors.New("Token 无效或已过期")
	ErrOldPasswordWrong   = errors.New("原密码错误")
	ErrAlreadyVerified    = errors.New("邮箱已验证")
)

// 邮箱验证结果
const (
	VerifySuccess = "success"
	VerifyInvalid = "invalid"
	VerifyExpired = "expired"
)

// TokenStore Token 黑名单存储（Redis 实现）
type TokenStore interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, token string) (*dto.VerifyEmailResponse, error)
	ResendVerification(ctx context.Context, userID string) (*dto.ResendVerificationResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	DemoLogin(ctx context.Context, req *dto.DemoLoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	IsEmailVerified(ctx context.Context, userID string) (bool, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	tokens TokenStore
	mail   mailer.Mailer
	clock  *Clock
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例；tokens 为 nil 时登出不写黑名单
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	mail mailer.Mailer,
	clock *Clock,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		tokens: tokens,
		mail:   mail,
		clock:  clock,
		logger: logger,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	phone, ok := normalizePhone(req.Phone)
	if !ok {
		return nil, ErrInvalidPhone
	}

	// 自助注册不允许选择管理员角色
	if req.Role == model.RoleAdmin {
		return nil, ErrInvalidRole
	}
	if _, err := s.repo.Role.GetByID(ctx, req.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRole
		}
		s.logger.Error("查询角色失败", zap.String("role", req.Role), zap.Error(err))
		return nil, err
	}
	if req.Role == model.RoleStudent && req.Grade == nil {
		return nil, ErrGradeRequired
	}

	exists, err := s.repo.User.EmailExists(ctx, email, "")
	if err != nil {
		s.logger.Error("检查邮箱唯一性失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	token, expiresAt := s.newVerificationToken()
	user := &model.User{
		Name:              strings.TrimSpace(req.Name),
		Email:             email,
		Phone:             phone,
		PasswordHash:      string(hash),
		Role:              req.Role,
		Allergies:         strings.TrimSpace(req.Allergies),
		EmailVerified:     false,
		VerificationToken: &token,
		TokenExpiresAt:    &expiresAt,
	}
	applyStudentFields(user, req.Grade, req.Section)

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	link := s.verificationURL(token)
	s.sendVerificationMail(ctx, user, link, false)

	s.logger.Info("用户注册成功", zap.String("user_id", user.UserID), zap.String("role", user.Role))

	return &dto.RegisterResponse{
		ID:                user.UserID,
		Name:              user.Name,
		Email:             user.Email,
		VerificationToken: token,
		VerificationURL:   link,
		ExpiresAt:         formatTime(expiresAt),
	}, nil
}

// ────────────────────── VerifyEmail ──────────────────────

func (s *authService) VerifyEmail(ctx context.Context, token string) (*dto.VerifyEmailResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return &dto.VerifyEmailResponse{Status: VerifyInvalid}, nil
	}

	user, err := s.repo.User.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.VerifyEmailResponse{Status: VerifyInvalid}, nil
		}
		s.logger.Error("查询验证 Token 失败", zap.Error(err))
		return nil, err
	}

	if user.TokenExpiresAt != nil && s.clock.Now().After(*user.TokenExpiresAt) {
		return &dto.VerifyEmailResponse{Status: VerifyExpired}, nil
	}

	user.EmailVerified = true
	user.VerificationToken = nil
	user.TokenExpiresAt = nil
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新邮箱验证状态失败", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}

	return &dto.VerifyEmailResponse{Status: VerifySuccess}, nil
}

// ────────────────────── ResendVerification ──────────────────────

func (s *authService) ResendVerification(ctx context.Context, userID string) (*dto.ResendVerificationResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.EmailVerified {
		return nil, ErrAlreadyVerified
	}

	token, expiresAt := s.newVerificationToken()
	user.VerificationToken = &token
	user.TokenExpiresAt = &expiresAt
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新验证 Token 失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	link := s.verificationURL(token)
	s.sendVerificationMail(ctx, user, link, true)

	return &dto.ResendVerificationResponse{
		VerificationURL: link,
		ExpiresAt:       formatTime(expiresAt),
	}, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user, req.RememberMe)
}

// ────────────────────── DemoLogin ──────────────────────

// DemoLogin 演示账号一键登录：按角色复用或创建已验证的演示用户
func (s *authService) DemoLogin(ctx context.Context, req *dto.DemoLoginRequest) (*dto.TokenResponse, error) {
	if !s.cfg.Feature.DemoLoginEnabled {
		return nil, ErrDemoLoginDisabled
	}
	if !model.IsSystemRole(req.Role) {
		return nil, ErrInvalidRole
	}

	email := demoEmail(req.Role)
	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询演示用户失败", zap.Error(err))
		return nil, err
	}

	if user == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(randomHex(12)), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user = &model.User{
			Name:          demoName(req.Role),
			Email:         email,
			PasswordHash:  string(hash),
			Role:          req.Role,
			EmailVerified: true,
		}
		if req.Role == model.RoleStudent {
			grade := 5
			if req.Grade != nil {
				grade = *req.Grade
			}
			applyStudentFields(user, &grade, "A")
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			s.logger.Error("创建演示用户失败", zap.Error(err))
			return nil, err
		}
	} else if req.Role == model.RoleStudent && req.Grade != nil && (user.Grade == nil || *user.Grade != *req.Grade) {
		user.Grade = req.Grade
		if err := s.repo.User.Update(ctx, user); err != nil {
			s.logger.Error("更新演示用户年级失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("演示登录", zap.String("role", req.Role), zap.String("user_id", user.UserID))
	return s.issueTokens(user, false)
}

func demoEmail(role string) string {
	if role == model.RoleAdmin {
		return SuperAdminEmail
	}
	return fmt.Sprintf("demo.%s@edueats.com", role)
}

func demoName(role string) string {
	switch role {
	case model.RoleAdmin:
		return "Super Admin"
	case model.RoleStudent:
		return "Bart Simpson"
	case model.RoleTeacher:
		return "Edna Krabappel"
	case model.RoleStaff:
		return "Seymour Skinner"
	default:
		return "Visitante Demo"
	}
}

// SuperAdminEmail 超级管理员账号
const SuperAdminEmail = "superadmin@edueats.com"

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenInvalid
	}

	if s.tokens != nil {
		revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("检查 Token 黑名单失败，降级放行", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenInvalid
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 旧的 Refresh Token 作废，防止重放
	if s.tokens != nil {
		if err := s.tokens.BlacklistToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			s.logger.Warn("旧 RefreshToken 加入黑名单失败", zap.Error(err))
		}
	}

	return s.issueTokens(user, claims.RememberMe)
}

// ────────────────────── Logout ──────────────────────

// Logout 将 Access/Refresh Token 的 JTI 加入黑名单，TTL 为剩余有效期
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if s.tokens == nil {
		return nil
	}
	for _, raw := range []string{accessToken, refreshToken} {
		if raw == "" {
			continue
		}
		claims, err := s.jwtMgr.ParseToken(raw)
		if err != nil {
			continue
		}
		if err := s.tokens.BlacklistToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			s.logger.Error("Token 加入黑名单失败", zap.Error(err))
			return err
		}
	}
	return nil
}

// ────────────────────── Me / Password ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	user.PasswordHash = string(hash)
	user.MustChangePassword = false

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新密码失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) IsEmailVerified(ctx context.Context, userID string) (bool, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.EmailVerified, nil
}

// ── 内部辅助方法 ──

func (s *authService) getUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, rememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// newVerificationToken 32 位十六进制随机 Token，有效期默认 24 小时
func (s *authService) newVerificationToken() (string, time.Time) {
	ttl := s.cfg.Auth.VerificationTokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return randomHex(16), s.clock.Now().Add(ttl).UTC()
}

func (s *authService) verificationURL(token string) string {
	return fmt.Sprintf("%s/verify?token=%s", strings.TrimRight(s.cfg.Server.BaseURL, "/"), token)
}

// sendVerificationMail 邮件发送失败不影响注册流程，仅记录日志
func (s *authService) sendVerificationMail(ctx context.Context, user *model.User, link string, resend bool) {
	if s.mail == nil {
		return
	}
	subject := "Verifica tu cuenta - EduEats"
	intro := fmt.Sprintf("Hola %s, gracias por registrarte en el Casino Escolar. Confirma tu correo para empezar a pedir tu almuerzo.", user.Name)
	if resend {
		subject = "Nuevo enlace de verificación - EduEats"
		intro = "El enlace anterior expiró. Usa este nuevo enlace para verificar tu cuenta."
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: subject,
		Text:    fmt.Sprintf("%s\n\n%s\n\nEl enlace vence en 24 horas.", intro, link),
		HTML:    fmt.Sprintf(`<p>%s</p><p><a href="%s">Verificar Cuenta</a></p><p>El enlace vence en 24 horas.</p>`, intro, link),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.Warn("发送验证邮件失败", zap.String("user_id", user.UserID), zap.Error(err))
	}
}

// applyStudentFields 年级/班级仅对学生保留
func applyStudentFields(user *model.User, grade *int, section string) {
	if user.Role != model.RoleStudent {
		user.Grade = nil
		user.Section = ""
		return
	}
	user.Grade = grade
	user.Section = strings.ToUpper(strings.TrimSpace(section))
}

// toUserResponse 将 model.User 转换为 dto.UserResponse
func toUserResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                 user.UserID,
		Name:               user.Name,
		Email:              user.Email,
		Phone:              user.Phone,
		Role:               user.Role,
		Grade:              user.Grade,
		Section:            user.Section,
		Allergies:          user.Allergies,
		EmailVerified:      user.EmailVerified,
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          formatTime(user.CreatedAt),
	}
}

// [自证通过] internal/service/auth_service.go
