package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// NotificationHandler 公告模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// ListNotifications 全部公告（管理员）
// GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	list, err := h.notificationSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateNotification 发布公告（管理员）
// POST /api/v1/notifications
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	n, err := h.notificationSvc.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.Created(c, n)
}

// DeleteNotification 删除公告（管理员）
// DELETE /api/v1/notifications/:id
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	if err := h.notificationSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, nil)
}

// ActiveNotifications 当前用户可见的公告
// GET /api/v1/notifications/active
func (h *NotificationHandler) ActiveNotifications(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	list, err := h.notificationSvc.Active(c.Request.Context(), userID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// DismissNotification 关闭公告
// POST /api/v1/notifications/:id/dismiss
func (h *NotificationHandler) DismissNotification(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notificationSvc.Dismiss(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	if handleDateError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, 20001, "公告不存在")
	case errors.Is(err, service.ErrNotificationPastDate):
		response.BadRequest(c, 20002, "公告日期不能早于今天")
	case errors.Is(err, service.ErrNotificationInvalidType):
		response.BadRequest(c, 20003, "公告类型无效")
	case errors.Is(err, service.ErrNotificationInvalidRole):
		response.BadRequest(c, 20004, "公告目标角色无效")
	default:
		response.InternalError(c)
	}
}
