package handler

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// maxImportFileSize 导入文件大小上限 5MB
const maxImportFileSize = 5 << 20

// UserHandler 用户模块 HTTP 处理器（管理员）
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers 用户列表
// GET /api/v1/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// GetUser 用户详情
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// CreateUser 创建用户
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateUser 更新用户
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// DeleteUser 删除用户
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, nil)
}

// SetVerified 手动验证 / 撤销邮箱验证
// PUT /api/v1/users/:id/verified
func (h *UserHandler) SetVerified(c *gin.Context) {
	var req dto.SetVerifiedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	user, err := h.userSvc.SetVerified(c.Request.Context(), c.Param("id"), *req.Verified)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, user)
}

// ResetPassword 重置密码
// POST /api/v1/users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	result, err := h.userSvc.ResetPassword(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportUsers 从 Excel 批量导入用户
// POST /api/v1/users/import (multipart/form-data, field: file)
func (h *UserHandler) ImportUsers(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "请上传文件")
		return
	}
	if fh.Size > maxImportFileSize {
		response.BadRequest(c, 12101, "文件大小不能超过 5MB")
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
		response.BadRequest(c, 12102, "仅支持 .xlsx 文件")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.InternalError(c)
		return
	}
	defer f.Close()

	rows, err := h.userSvc.ParseImportFile(f)
	if err != nil {
		h.handleImportError(c, err)
		return
	}

	result, err := h.userSvc.ImportUsers(c.Request.Context(), rows)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ImportTemplate 下载导入模板
// GET /api/v1/users/import/template
func (h *UserHandler) ImportTemplate(c *gin.Context) {
	buf, filename, err := h.userSvc.ImportTemplate()
	if err != nil {
		response.InternalError(c)
		return
	}

	response.XLSX(c, filename, buf)
}

// handleUserError 统一处理用户模块业务错误
func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 12001, "用户不存在")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, 12002, "邮箱已被注册")
	case errors.Is(err, service.ErrInvalidEmail):
		response.BadRequest(c, 12003, "邮箱格式无效")
	case errors.Is(err, service.ErrInvalidPhone):
		response.BadRequest(c, 12004, "手机号必须为 10 位数字")
	case errors.Is(err, service.ErrInvalidRole):
		response.BadRequest(c, 12005, "角色无效")
	case errors.Is(err, service.ErrGradeRequired):
		response.BadRequest(c, 12006, "学生必须填写年级")
	case errors.Is(err, service.ErrUserSelfRoleChange):
		response.Forbidden(c, 12007, "不能修改自己的角色")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.Forbidden(c, 12008, "不能删除自己")
	default:
		response.InternalError(c)
	}
}

func (h *UserHandler) handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, 12103, "Excel文件无数据行")
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, 12104, err.Error())
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 12105, "Excel表头缺少必要列（Nombre/Email）")
	default:
		response.BadRequest(c, 12106, "无法解析Excel文件")
	}
}
