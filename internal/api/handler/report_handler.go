package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// ReportHandler 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// ExportDaily 导出某日后厨报表
// GET /api/v1/reports/daily?date=2026-03-11
func (h *ReportHandler) ExportDaily(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		response.BadRequest(c, 10001, "date 不能为空")
		return
	}

	buf, filename, err := h.reportSvc.ExportDaily(c.Request.Context(), date)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.XLSX(c, filename, buf)
}

// RangeStats 区间参与统计
// GET /api/v1/reports/range?start=&end=
func (h *ReportHandler) RangeStats(c *gin.Context) {
	var req dto.RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reportSvc.RangeStats(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, result)
}

// ExportRange 导出区间综合报表
// GET /api/v1/reports/range/export?start=&end=
func (h *ReportHandler) ExportRange(c *gin.Context) {
	var req dto.RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.reportSvc.ExportRange(c.Request.Context(), &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.XLSX(c, filename, buf)
}

// ExportPersonal 导出本人订单
// GET /api/v1/reports/me/export?start=&end=
func (h *ReportHandler) ExportPersonal(c *gin.Context) {
	var req dto.RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.reportSvc.ExportPersonal(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.XLSX(c, filename, buf)
}

// NutritionStats 本人营养统计
// GET /api/v1/reports/me/nutrition?start=&end=
func (h *ReportHandler) NutritionStats(c *gin.Context) {
	var req dto.RangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reportSvc.NutritionStats(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	if handleDateError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrReportNoOrders):
		response.NotFound(c, 19001, "所选日期范围内没有订单")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 19002, "用户不存在")
	default:
		response.InternalError(c)
	}
}
