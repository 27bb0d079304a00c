package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// RoleHandler 角色模块 HTTP 处理器
type RoleHandler struct {
	roleSvc service.RoleService
}

// NewRoleHandler 创建 RoleHandler
func NewRoleHandler(roleSvc service.RoleService) *RoleHandler {
	return &RoleHandler{roleSvc: roleSvc}
}

// ListRoles 角色列表
// GET /api/v1/roles
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": roles})
}

// CreateRole 创建角色
// POST /api/v1/roles
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	role, err := h.roleSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.Created(c, role)
}

// UpdateRole 更新角色
// PUT /api/v1/roles/:id
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	role, err := h.roleSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, role)
}

// DeleteRole 删除角色
// DELETE /api/v1/roles/:id
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	if err := h.roleSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleRoleError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *RoleHandler) handleRoleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoleNotFound):
		response.NotFound(c, 13001, "角色不存在")
	case errors.Is(err, service.ErrRoleExists):
		response.Conflict(c, 13002, "角色已存在")
	case errors.Is(err, service.ErrRoleSystem):
		response.Forbidden(c, 13003, "系统角色不可删除")
	case errors.Is(err, service.ErrRoleInUse):
		response.BadRequest(c, 13004, "角色仍有用户使用，无法删除")
	default:
		response.InternalError(c)
	}
}
