package dto

// ── 用户模块 DTO ──

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,max=50"`
	Grade   *int   `form:"grade"   binding:"omitempty,min=1,max=11"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateUserRequest 管理员创建用户请求；未提供密码时生成临时密码
type CreateUserRequest struct {
	Name      string `json:"name"      binding:"required,min=2,max=100"`
	Email     string `json:"email"     binding:"required,email"`
	Password  string `json:"password"  binding:"omitempty,min=6,max=64"`
	Phone     string `json:"phone"     binding:"omitempty,max=20"`
	Role      string `json:"role"      binding:"required"`
	Grade     *int   `json:"grade"     binding:"omitempty,min=1,max=11"`
	Section   string `json:"section"   binding:"omitempty,max=10"`
	Allergies string `json:"allergies" binding:"omitempty,max=500"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	Name          *string `json:"name"           binding:"omitempty,min=2,max=100"`
	Email         *string `json:"email"          binding:"omitempty,email"`
	Phone         *string `json:"phone"          binding:"omitempty,max=20"`
	Role          *string `json:"role"           binding:"omitempty,max=50"`
	Grade         *int    `json:"grade"          binding:"omitempty,min=1,max=11"`
	Section       *string `json:"section"        binding:"omitempty,max=10"`
	Allergies     *string `json:"allergies"      binding:"omitempty,max=500"`
	EmailVerified *bool   `json:"email_verified"`
}

// SetVerifiedRequest 手动设置邮箱验证状态
type SetVerifiedRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone,omitempty"`
	Role               string `json:"role"`
	Grade              *int   `json:"grade,omitempty"`
	Section            string `json:"section,omitempty"`
	Allergies          string `json:"allergies,omitempty"`
	EmailVerified      bool   `json:"email_verified"`
	MustChangePassword bool   `json:"must_change_password"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// CreateUserResponse 创建用户响应
type CreateUserResponse struct {
	User         UserResponse `json:"user"`
	TempPassword string       `json:"temp_password,omitempty"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}

// ImportUserResponse 批量导入用户响应
type ImportUserResponse struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Errors  []ImportUserError `json:"errors,omitempty"`
}

// ImportUserError 导入错误详情
type ImportUserError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ── 角色模块 DTO ──

// CreateRoleRequest 创建角色请求；ID 为空时由名称生成
type CreateRoleRequest struct {
	ID          string `json:"id"          binding:"omitempty,max=50"`
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateRoleRequest 更新角色请求
type UpdateRoleRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// RoleResponse 角色响应
type RoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsSystem    bool   `json:"is_system"`
}
