package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// LogisticsHandler 后厨物流看板 HTTP 处理器（管理员）
type LogisticsHandler struct {
	logisticsSvc service.LogisticsService
}

// NewLogisticsHandler 创建 LogisticsHandler
func NewLogisticsHandler(logisticsSvc service.LogisticsService) *LogisticsHandler {
	return &LogisticsHandler{logisticsSvc: logisticsSvc}
}

// Dashboard 某日看板
// GET /api/v1/logistics?date=&grade=
func (h *LogisticsHandler) Dashboard(c *gin.Context) {
	var req dto.LogisticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.logisticsSvc.Dashboard(c.Request.Context(), &req)
	if err != nil {
		h.handleLogisticsError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateBatchOrders 批量生成匿名订单
// POST /api/v1/logistics/batch-orders
func (h *LogisticsHandler) CreateBatchOrders(c *gin.Context) {
	var req dto.BatchOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.logisticsSvc.CreateBatchOrders(c.Request.Context(), &req)
	if err != nil {
		h.handleLogisticsError(c, err)
		return
	}

	response.Created(c, result)
}

func (h *LogisticsHandler) handleLogisticsError(c *gin.Context, err error) {
	if handleDateError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrMenuNotFound):
		response.NotFound(c, 18001, "该日期暂无菜单")
	case errors.Is(err, service.ErrBatchNoRecipes):
		response.BadRequest(c, 18002, "该日期菜单中没有可用菜谱")
	case errors.Is(err, service.ErrBatchCountLimit):
		response.BadRequest(c, 18003, "批量下单数量超出上限")
	default:
		response.InternalError(c)
	}
}
