package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// OrderHandler 订餐模块 HTTP 处理器
type OrderHandler struct {
	orderSvc service.OrderService
}

// NewOrderHandler 创建 OrderHandler
func NewOrderHandler(orderSvc service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// GetOrderForm 订餐表单：步骤、已有订单、自动填充
// GET /api/v1/orders/:date/form
func (h *OrderHandler) GetOrderForm(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	form, err := h.orderSvc.GetOrderForm(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		h.handleOrderError(c, err)
		return
	}

	response.OK(c, form)
}

// Wizard 推进订餐向导一步（无状态）
// POST /api/v1/orders/:date/wizard
func (h *OrderHandler) Wizard(c *gin.Context) {
	var req dto.WizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	state, err := h.orderSvc.Wizard(c.Request.Context(), userID, c.Param("date"), &req)
	if err != nil {
		h.handleOrderError(c, err)
		return
	}

	response.OK(c, state)
}

// SubmitOrder 提交（覆盖）某日订单
// PUT /api/v1/orders/:date
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	order, err := h.orderSvc.Submit(c.Request.Context(), userID, c.Param("date"), &req)
	if err != nil {
		h.handleOrderError(c, err)
		return
	}

	response.OK(c, order)
}

// ListMyOrders 我的订单（日期倒序）
// GET /api/v1/orders/mine
func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.orderSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetMyOrder 我在某日的订单
// GET /api/v1/orders/:date
func (h *OrderHandler) GetMyOrder(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	order, err := h.orderSvc.GetMine(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		h.handleOrderError(c, err)
		return
	}

	response.OK(c, order)
}

// Reminder 明日订餐提醒
// GET /api/v1/orders/reminder
func (h *OrderHandler) Reminder(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.orderSvc.Reminder(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// DismissReminder 关闭明日提醒（当天内有效）
// POST /api/v1/orders/reminder/dismiss
func (h *OrderHandler) DismissReminder(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.orderSvc.DismissReminder(c.Request.Context(), userID); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// handleOrderError 统一处理订餐模块业务错误
func (h *OrderHandler) handleOrderError(c *gin.Context, err error) {
	if handleDateError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrMenuNotFound):
		response.NotFound(c, 16001, "该日期暂无菜单")
	case errors.Is(err, service.ErrOrderNotFound):
		response.NotFound(c, 16002, "订单不存在")
	case errors.Is(err, service.ErrOrderClosed):
		response.BadRequest(c, 16003, "该日期已截止订餐，请至少提前一天下单")
	case errors.Is(err, service.ErrOrderLocked):
		response.Conflict(c, 16004, "订单已确认，无法修改")
	case errors.Is(err, service.ErrOrderEmpty):
		response.BadRequest(c, 16005, "订单至少需要一个菜品")
	case errors.Is(err, service.ErrOrderItemNotOnMenu):
		response.BadRequest(c, 16006, "所选菜品不在当天菜单中")
	case errors.Is(err, service.ErrOrderCategoryMismatch):
		response.BadRequest(c, 16007, "所选菜品与分类不符")
	case errors.Is(err, service.ErrOrderDuplicateCategory):
		response.BadRequest(c, 16008, "同一分类只能选择一个菜品")
	case errors.Is(err, service.ErrOrderMandatoryMissing):
		response.BadRequest(c, 16009, "存在未选择的必选分类")
	case errors.Is(err, service.ErrEmailNotVerified):
		response.Forbidden(c, 16010, "请先完成邮箱验证")
	case errors.Is(err, service.ErrWizardStepOutOfRange):
		response.BadRequest(c, 16101, "向导步骤超出范围")
	case errors.Is(err, service.ErrWizardOptionUnavailable):
		response.BadRequest(c, 16102, "该菜品不在当前步骤的可选范围内")
	case errors.Is(err, service.ErrWizardSelectionRequired):
		response.BadRequest(c, 16103, "请先选择当前步骤的菜品")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 16104, "用户不存在")
	default:
		response.InternalError(c)
	}
}
