package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// AssistantHandler 智能助手 HTTP 处理器
type AssistantHandler struct {
	assistantSvc service.AssistantService
}

// NewAssistantHandler 创建 AssistantHandler
func NewAssistantHandler(assistantSvc service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantSvc: assistantSvc}
}

// EnhanceNotification 润色公告草稿（管理员）
// POST /api/v1/assistant/enhance
func (h *AssistantHandler) EnhanceNotification(c *gin.Context) {
	var req dto.EnhanceTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.assistantSvc.EnhanceNotification(c.Request.Context(), req.Text)
	if err != nil {
		h.handleAssistantError(c, err)
		return
	}

	response.OK(c, result)
}

// NutritionalAdvice 本人营养建议
// GET /api/v1/assistant/nutrition?start=&end=
func (h *AssistantHandler) NutritionalAdvice(c *gin.Context) {
	var req dto.RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.assistantSvc.NutritionalAdvice(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAssistantError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AssistantHandler) handleAssistantError(c *gin.Context, err error) {
	if handleDateError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrAssistantUnavailable):
		response.ServiceUnavailable(c, 22001, "AI 助手未配置")
	case errors.Is(err, service.ErrAssistantTextTooShort):
		response.BadRequest(c, 22002, "待润色文本过短")
	case errors.Is(err, service.ErrReportNoOrders):
		response.NotFound(c, 22003, "所选日期范围内没有订单")
	default:
		response.InternalError(c)
	}
}
