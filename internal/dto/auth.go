package dto

// ── 认证模块 DTO ──

// RegisterRequest 自助注册请求
type RegisterRequest struct {
	Name      string `json:"name"      binding:"required,min=2,max=100"`
	Email     string `json:"email"     binding:"required,email"`
	Password  string `json:"password"  binding:"required,min=6,max=64"`
	Phone     string `json:"phone"     binding:"omitempty,max=20"`
	Role      string `json:"role"      binding:"required"`
	Grade     *int   `json:"grade"     binding:"omitempty,min=1,max=11"`
	Section   string `json:"section"   binding:"omitempty,max=10"`
	Allergies string `json:"allergies" binding:"omitempty,max=500"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email      string `json:"email"    binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// DemoLoginRequest 演示账号一键登录
type DemoLoginRequest struct {
	Role  string `json:"role"  binding:"required"`
	Grade *int   `json:"grade" binding:"omitempty,min=1,max=11"`
}

// RefreshTokenRequest 刷新 Token 请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"` // 非 Cookie 模式时使用
}

// VerifyEmailRequest 邮箱验证请求
type VerifyEmailRequest struct {
	Token string `json:"token" form:"token" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=64"`
}

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// RegisterResponse 注册成功响应
// 返回激活链接，便于未配置邮件服务时直接完成验证
type RegisterResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	VerificationToken string `json:"verification_token"`
	VerificationURL   string `json:"verification_url"`
	ExpiresAt         string `json:"expires_at"`
}

// VerifyEmailResponse 邮箱验证结果：success | invalid | expired
type VerifyEmailResponse struct {
	Status string `json:"status"`
}

// ResendVerificationResponse 重新发送验证邮件响应
type ResendVerificationResponse struct {
	VerificationURL string `json:"verification_url"`
	ExpiresAt       string `json:"expires_at"`
}

// [自证通过] internal/dto/auth.go
