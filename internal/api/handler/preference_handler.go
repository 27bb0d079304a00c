package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// PreferenceHandler 每周偏好 HTTP 处理器
type PreferenceHandler struct {
	prefSvc service.PreferenceService
}

// NewPreferenceHandler 创建 PreferenceHandler
func NewPreferenceHandler(prefSvc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefSvc: prefSvc}
}

// ListPreferences 我的偏好
// GET /api/v1/preferences
func (h *PreferenceHandler) ListPreferences(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.prefSvc.List(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// SavePreference 保存某星期几的偏好
// PUT /api/v1/preferences/:day
func (h *PreferenceHandler) SavePreference(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		response.BadRequest(c, 10001, "星期参数无效")
		return
	}

	var req dto.SavePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	pref, err := h.prefSvc.Save(c.Request.Context(), userID, day, &req)
	if err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.OK(c, pref)
}

// DeletePreference 删除某星期几的偏好
// DELETE /api/v1/preferences/:day
func (h *PreferenceHandler) DeletePreference(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		response.BadRequest(c, 10001, "星期参数无效")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.prefSvc.Delete(c.Request.Context(), userID, day); err != nil {
		h.handlePreferenceError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *PreferenceHandler) handlePreferenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDayOfWeek):
		response.BadRequest(c, 17001, "星期取值应为 0-6（0=周日）")
	case errors.Is(err, service.ErrPreferenceNotFound):
		response.NotFound(c, 17002, "该日期没有保存偏好")
	default:
		response.InternalError(c)
	}
}
