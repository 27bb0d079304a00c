package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// MenuHandler 每日菜单 HTTP 处理器
type MenuHandler struct {
	menuSvc service.MenuService
}

// NewMenuHandler 创建 MenuHandler
func NewMenuHandler(menuSvc service.MenuService) *MenuHandler {
	return &MenuHandler{menuSvc: menuSvc}
}

// ListMenus 菜单列表（管理员）
// GET /api/v1/menus?date=2026-03
func (h *MenuHandler) ListMenus(c *gin.Context) {
	var req dto.MenuListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.menuSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ListAvailableDates 今天起已发布菜单的日期
// GET /api/v1/menus/available
func (h *MenuHandler) ListAvailableDates(c *gin.Context) {
	dates, err := h.menuSvc.ListAvailableDates(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": dates})
}

// GetMenu 某日菜单
// GET /api/v1/menus/:date
func (h *MenuHandler) GetMenu(c *gin.Context) {
	menu, err := h.menuSvc.GetByDate(c.Request.Context(), c.Param("date"))
	if err != nil {
		h.handleMenuError(c, err)
		return
	}

	response.OK(c, menu)
}

// SaveMenu 保存并发布某日菜单
// PUT /api/v1/menus/:date
func (h *MenuHandler) SaveMenu(c *gin.Context) {
	var req dto.SaveMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	menu, err := h.menuSvc.Save(c.Request.Context(), c.Param("date"), &req)
	if err != nil {
		h.handleMenuError(c, err)
		return
	}

	response.OK(c, menu)
}

// DeleteMenu 删除某日菜单
// DELETE /api/v1/menus/:date
func (h *MenuHandler) DeleteMenu(c *gin.Context) {
	if err := h.menuSvc.Delete(c.Request.Context(), c.Param("date")); err != nil {
		h.handleMenuError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *MenuHandler) handleMenuError(c *gin.Context, err error) {
	if handleDateError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrMenuNotFound):
		response.NotFound(c, 15001, "该日期暂无菜单")
	case errors.Is(err, service.ErrMenuPastDate):
		response.BadRequest(c, 15002, "不能编辑过去日期的菜单")
	case errors.Is(err, service.ErrMenuEmpty):
		response.BadRequest(c, 15003, "菜单至少需要一个菜品")
	case errors.Is(err, service.ErrRecipeNotFound):
		response.BadRequest(c, 15004, "菜单包含不存在的菜谱")
	default:
		response.InternalError(c)
	}
}
