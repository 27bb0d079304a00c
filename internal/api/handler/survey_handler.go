package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// SurveyHandler 满意度调查 HTTP 处理器
type SurveyHandler struct {
	surveySvc service.SurveyService
}

// NewSurveyHandler 创建 SurveyHandler
func NewSurveyHandler(surveySvc service.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveySvc: surveySvc}
}

// ── 管理端 ──

// ListSurveys 调查列表
// GET /api/v1/surveys
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	list, err := h.surveySvc.ListDefinitions(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateSurvey 创建调查
// POST /api/v1/surveys
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	var req dto.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	survey, err := h.surveySvc.CreateDefinition(c.Request.Context(), &req)
	if err != nil {
		h.handleSurveyError(c, err)
		return
	}

	response.Created(c, survey)
}

// UpdateSurvey 更新调查 / 启停
// PUT /api/v1/surveys/:id
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	var req dto.UpdateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	survey, err := h.surveySvc.UpdateDefinition(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleSurveyError(c, err)
		return
	}

	response.OK(c, survey)
}

// DeleteSurvey 删除调查及其答卷
// DELETE /api/v1/surveys/:id
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	if err := h.surveySvc.DeleteDefinition(c.Request.Context(), c.Param("id")); err != nil {
		h.handleSurveyError(c, err)
		return
	}

	response.OK(c, nil)
}

// Results 答卷与平均分；survey_id 为空时汇总全部
// GET /api/v1/surveys/results?survey_id=
func (h *SurveyHandler) Results(c *gin.Context) {
	result, err := h.surveySvc.Results(c.Request.Context(), c.Query("survey_id"))
	if err != nil {
		h.handleSurveyError(c, err)
		return
	}

	response.OK(c, result)
}

// Reply 回复答卷
// PUT /api/v1/surveys/responses/:id/reply
func (h *SurveyHandler) Reply(c *gin.Context) {
	var req dto.ReplySurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	answer, err := h.surveySvc.Reply(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleSurveyError(c, err)
		return
	}

	response.OK(c, answer)
}

// ── 用户端 ──

// ListOpen 开放中的调查
// GET /api/v1/surveys/open
func (h *SurveyHandler) ListOpen(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.surveySvc.ListOpen(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Submit 提交答卷
// POST /api/v1/surveys/:id/responses
func (h *SurveyHandler) Submit(c *gin.Context) {
	var req dto.SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	answer, err := h.surveySvc.Submit(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleSurveyError(c, err)
		return
	}

	response.Created(c, answer)
}

func (h *SurveyHandler) handleSurveyError(c *gin.Context, err error) {
	if handleDateError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSurveyNotFound):
		response.NotFound(c, 21001, "调查不存在")
	case errors.Is(err, service.ErrSurveyClosed):
		response.BadRequest(c, 21002, "调查未开放")
	case errors.Is(err, service.ErrSurveyAlreadyAnswered):
		response.Conflict(c, 21003, "已提交过该调查")
	case errors.Is(err, service.ErrSurveyInvalidRating):
		response.BadRequest(c, 21004, "评分必须在 1-5 之间")
	case errors.Is(err, service.ErrSurveyInvalidType):
		response.BadRequest(c, 21005, "反馈类型无效")
	case errors.Is(err, service.ErrSurveyResponseNotFound):
		response.NotFound(c, 21006, "答卷不存在")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 21007, "用户不存在")
	default:
		response.InternalError(c)
	}
}
