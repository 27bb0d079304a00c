package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
)

// ── 报表模块业务错误 ──

var ErrReportNoOrders = errors.New("所选日期范围内没有订单")

// reportTargetRoles 参与率统计的目标角色
var reportTargetRoles = []string{model.RoleStudent, model.RoleTeacher, model.RoleStaff}

// ReportService 报表业务接口
//
// 设计说明：
//   - Excel 以 bytes.Buffer 返回，由 Handler 层设置响应头后写出
//   - 只统计 confirmed 状态的订单；个人订单导出包含全部状态
type ReportService interface {
	ExportDaily(ctx context.Context, date string) (*bytes.Buffer, string, error)
	RangeStats(ctx context.Context, req *dto.RangeRequest) (*dto.RangeStatsResponse, error)
	ExportRange(ctx context.Context, req *dto.RangeRequest) (*bytes.Buffer, string, error)
	ExportPersonal(ctx context.Context, userID string, req *dto.RangeRequest) (*bytes.Buffer, string, error)
	NutritionStats(ctx context.Context, userID string, req *dto.RangeRequest) (*dto.NutritionStatsResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportDaily 后厨日报
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Resumen Cocina"：分类 | 菜品 | 份数
//   - Sheet "Listado por Curso"：年级 | 班级 | 学生 | 过敏 | 每个分类一列

func (s *reportService) ExportDaily(ctx context.Context, date string) (*bytes.Buffer, string, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, "", err
	}

	orders, err := s.repo.Order.ListConfirmedByDate(ctx, day, nil)
	if err != nil {
		s.logger.Error("查询订单失败", zap.String("date", date), zap.Error(err))
		return nil, "", err
	}
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, "", err
	}

	var summary [][]interface{}
	for _, cs := range summarizeKitchen(orders, categories) {
		for _, d := range cs.Dishes {
			summary = append(summary, []interface{}{cs.CategoryName, d.Name, d.Count})
		}
	}

	header := []string{"Grado", "Sección", "Estudiante", "Alergias/Obs"}
	for _, c := range categories {
		header = append(header, c.Name)
	}
	sorted := append([]model.Order(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool { return gradeKey(sorted[i].Grade) < gradeKey(sorted[j].Grade) })

	var detail [][]interface{}
	for _, o := range sorted {
		allergies := o.Allergies
		if allergies == "" {
			allergies = "Ninguna"
		}
		row := []interface{}{gradeCell(o.Grade), dashIfEmpty(o.Section), o.StudentName, allergies}
		row = append(row, categoryCells(&o, categories, "-")...)
		detail = append(detail, row)
	}

	wb := newWorkbook()
	defer wb.Close()
	if err := wb.writeTable("Resumen Cocina", []string{"Categoría", "Plato", "Cantidad Total"}, summary); err != nil {
		return nil, "", s.exportFailed(err)
	}
	if err := wb.writeTable("Listado por Curso", header, detail); err != nil {
		return nil, "", s.exportFailed(err)
	}

	buf, err := wb.buffer()
	if err != nil {
		return nil, "", s.exportFailed(err)
	}
	return buf, fmt.Sprintf("Reporte_Menu_%s.xlsx", formatDate(day)), nil
}

// ═══════════════════════════════════════════════════════════
// RangeStats 区间参与率统计
// ═══════════════════════════════════════════════════════════

// rangeData 区间统计的原始数据
type rangeData struct {
	start, end time.Time
	menuDays   []time.Time
	users      []model.User
	orders     []model.Order
	categories []model.Category
}

func (s *reportService) loadRange(ctx context.Context, req *dto.RangeRequest) (*rangeData, error) {
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	rd := &rangeData{start: start, end: end}

	menus, err := s.repo.Menu.ListPublishedBetween(ctx, start, end)
	if err != nil {
		s.logger.Error("查询菜单失败", zap.Error(err))
		return nil, err
	}
	for _, m := range menus {
		rd.menuDays = append(rd.menuDays, m.MenuDate)
	}

	if rd.users, err = s.repo.User.ListVerifiedByRoles(ctx, reportTargetRoles); err != nil {
		s.logger.Error("查询目标用户失败", zap.Error(err))
		return nil, err
	}
	if rd.orders, err = s.repo.Order.ListConfirmedBetween(ctx, start, end); err != nil {
		s.logger.Error("查询订单失败", zap.Error(err))
		return nil, err
	}
	if rd.categories, err = s.repo.Category.List(ctx); err != nil {
		s.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}
	return rd, nil
}

// stats 参与率 = round(目标用户实际订单 / (菜单天数 × 目标用户数) × 100)
// 批量订单与非目标用户的订单不计入参与率，但计入主菜排行
func (rd *rangeData) stats() *dto.RangeStatsResponse {
	resp := &dto.RangeStatsResponse{
		Start:          formatDate(rd.start),
		End:            formatDate(rd.end),
		MenuDays:       len(rd.menuDays),
		TargetUsers:    len(rd.users),
		ExpectedOrders: len(rd.menuDays) * len(rd.users),
		Daily:          []dto.DailyParticipation{},
		TopMainDishes:  []dto.DishCount{},
		Missing:        []dto.MissingUser{},
	}

	ordered := make(map[string]map[string]bool)
	for _, o := range rd.orders {
		if o.UserID == nil {
			continue
		}
		d := formatDate(o.OrderDate)
		if ordered[d] == nil {
			ordered[d] = make(map[string]bool)
		}
		ordered[d][*o.UserID] = true
	}

	for _, day := range rd.menuDays {
		d := formatDate(day)
		daily := dto.DailyParticipation{Date: d}
		for _, u := range rd.users {
			if ordered[d][u.UserID] {
				daily.Ordered++
				continue
			}
			daily.Missing++
			resp.Missing = append(resp.Missing, dto.MissingUser{
				Date:    d,
				UserID:  u.UserID,
				Name:    u.Name,
				Email:   u.Email,
				Role:    u.Role,
				Grade:   u.Grade,
				Section: u.Section,
			})
		}
		resp.Daily = append(resp.Daily, daily)
		resp.ActualOrders += daily.Ordered
	}
	if resp.ExpectedOrders > 0 {
		resp.ParticipationRate = int(math.Round(float64(resp.ActualOrders) / float64(resp.ExpectedOrders) * 100))
	}

	mainID := mainCategoryID(rd.categories)
	counts := make(map[string]*dto.DishCount)
	for _, o := range rd.orders {
		if mainID == "" {
			break
		}
		for _, it := range o.Items {
			if it.CategoryID != mainID {
				continue
			}
			name := unknownRecipeName
			if it.Recipe != nil {
				name = it.Recipe.Name
			}
			dc, ok := counts[name]
			if !ok {
				dc = &dto.DishCount{RecipeID: it.RecipeID, Name: name}
				counts[name] = dc
			}
			dc.Count++
			break
		}
	}
	for _, dc := range counts {
		resp.TopMainDishes = append(resp.TopMainDishes, *dc)
	}
	sortDishes(resp.TopMainDishes)
	if len(resp.TopMainDishes) > 5 {
		resp.TopMainDishes = resp.TopMainDishes[:5]
	}
	return resp
}

func (s *reportService) RangeStats(ctx context.Context, req *dto.RangeRequest) (*dto.RangeStatsResponse, error) {
	rd, err := s.loadRange(ctx, req)
	if err != nil {
		return nil, err
	}
	return rd.stats(), nil
}

// ═══════════════════════════════════════════════════════════
// ExportRange 区间综合报表
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - "Detalle Completo"：全部订单明细
//   - "Usuarios Sin Pedido"：有菜单但未下单的用户
//   - "Indicadores Consumo"：各菜品总消耗

func (s *reportService) ExportRange(ctx context.Context, req *dto.RangeRequest) (*bytes.Buffer, string, error) {
	rd, err := s.loadRange(ctx, req)
	if err != nil {
		return nil, "", err
	}
	stats := rd.stats()

	// 1. 明细
	detailHeader := []string{"Fecha", "ID Pedido", "Rol", "Grado", "Sección", "Nombre"}
	for _, c := range rd.categories {
		detailHeader = append(detailHeader, c.Name)
	}
	detailHeader = append(detailHeader, "Alergias")

	var detail [][]interface{}
	for i := range rd.orders {
		o := &rd.orders[i]
		role := "Staff/Visitante"
		if o.Grade != nil {
			role = "Estudiante"
		}
		id := o.OrderID
		if len(id) > 8 {
			id = id[:8]
		}
		row := []interface{}{formatDate(o.OrderDate), id, role, gradeCell(o.Grade), dashIfEmpty(o.Section), o.StudentName}
		row = append(row, categoryCells(o, rd.categories, "")...)
		row = append(row, o.Allergies)
		detail = append(detail, row)
	}

	// 2. 未下单
	var missing [][]interface{}
	for _, m := range stats.Missing {
		role := "Staff"
		if m.Role == model.RoleStudent {
			role = "Estudiante"
		}
		missing = append(missing, []interface{}{m.Date, m.Name, m.Email, role, gradeCell(m.Grade)})
	}

	// 3. 消耗指标
	consumed := make(map[string]int)
	for _, o := range rd.orders {
		for _, it := range o.Items {
			name := unknownRecipeName
			if it.Recipe != nil {
				name = it.Recipe.Name
			}
			consumed[name]++
		}
	}
	dishes := make([]dto.DishCount, 0, len(consumed))
	for name, n := range consumed {
		dishes = append(dishes, dto.DishCount{Name: name, Count: n})
	}
	sortDishes(dishes)
	var indicators [][]interface{}
	for _, d := range dishes {
		indicators = append(indicators, []interface{}{d.Name, d.Count})
	}

	wb := newWorkbook()
	defer wb.Close()
	if err := wb.writeTable("Detalle Completo", detailHeader, detail); err != nil {
		return nil, "", s.exportFailed(err)
	}
	if err := wb.writeTable("Usuarios Sin Pedido", []string{"Fecha Faltante", "Usuario", "Email", "Rol", "Grado"}, missing); err != nil {
		return nil, "", s.exportFailed(err)
	}
	if err := wb.writeTable("Indicadores Consumo", []string{"Plato", "Total Consumido"}, indicators); err != nil {
		return nil, "", s.exportFailed(err)
	}

	buf, err := wb.buffer()
	if err != nil {
		return nil, "", s.exportFailed(err)
	}
	return buf, fmt.Sprintf("Reporte_General_%s_al_%s.xlsx", stats.Start, stats.End), nil
}

// ═══════════════════════════════════════════════════════════
// 个人报表
// ═══════════════════════════════════════════════════════════

// ExportPersonal 导出本人区间内的订单
func (s *reportService) ExportPersonal(ctx context.Context, userID string, req *dto.RangeRequest) (*bytes.Buffer, string, error) {
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		return nil, "", err
	}
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", ErrUserNotFound
	}
	orders, err := s.repo.Order.ListByUser(ctx, userID, &start, &end)
	if err != nil {
		s.logger.Error("查询订单失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", err
	}
	if len(orders) == 0 {
		return nil, "", ErrReportNoOrders
	}

	var rows [][]interface{}
	for _, o := range orders {
		status := "Pendiente"
		if o.Status == model.OrderStatusConfirmed {
			status = "Confirmado"
		}
		names := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			if it.Recipe != nil {
				names = append(names, it.Recipe.Name)
			} else {
				names = append(names, unknownRecipeName)
			}
		}
		rows = append(rows, []interface{}{formatDate(o.OrderDate), status, strings.Join(names, ", ")})
	}

	wb := newWorkbook()
	defer wb.Close()
	if err := wb.writeTable("Reporte de Pedidos", []string{"Fecha del Pedido", "Estado", "Items Pedidos"}, rows); err != nil {
		return nil, "", s.exportFailed(err)
	}
	buf, err := wb.buffer()
	if err != nil {
		return nil, "", s.exportFailed(err)
	}

	name := strings.Join(strings.Fields(user.Name), "_")
	return buf, fmt.Sprintf("Reporte_Pedidos_%s_%s_a_%s.xlsx", name, formatDate(start), formatDate(end)), nil
}

// NutritionStats 本人区间内已确认订单的热量统计，按日期升序
func (s *reportService) NutritionStats(ctx context.Context, userID string, req *dto.RangeRequest) (*dto.NutritionStatsResponse, error) {
	start, end, err := parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.Order.ListByUser(ctx, userID, &start, &end)
	if err != nil {
		s.logger.Error("查询订单失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return buildNutritionStats(orders), nil
}

func buildNutritionStats(orders []model.Order) *dto.NutritionStatsResponse {
	resp := &dto.NutritionStatsResponse{Days: []dto.DayNutrition{}}
	total := 0
	for _, o := range orders {
		if o.Status != model.OrderStatusConfirmed {
			continue
		}
		day := dto.DayNutrition{Date: formatDate(o.OrderDate), Items: []string{}}
		for _, it := range o.Items {
			if it.Recipe == nil {
				continue
			}
			day.TotalCalories += it.Recipe.Calories
			day.Items = append(day.Items, it.Recipe.CategoryID)
		}
		total += day.TotalCalories
		resp.Days = append(resp.Days, day)
	}
	sort.Slice(resp.Days, func(i, j int) bool { return resp.Days[i].Date < resp.Days[j].Date })

	resp.DayCount = len(resp.Days)
	if resp.DayCount > 0 {
		resp.AverageCalories = int(math.Round(float64(total) / float64(resp.DayCount)))
	}
	return resp
}

// ── 辅助函数 ──

func (s *reportService) exportFailed(err error) error {
	s.logger.Error("写入 Excel 失败", zap.Error(err))
	return ErrExportGenerateFail
}

// categoryCells 每个分类一列，值为所选菜谱名称
func categoryCells(o *model.Order, categories []model.Category, empty string) []interface{} {
	byCat := make(map[string]string, len(o.Items))
	for _, it := range o.Items {
		name := unknownRecipeName
		if it.Recipe != nil {
			name = it.Recipe.Name
		}
		byCat[it.CategoryID] = name
	}
	cells := make([]interface{}, 0, len(categories))
	for _, c := range categories {
		if name, ok := byCat[c.CategoryID]; ok {
			cells = append(cells, name)
		} else {
			cells = append(cells, empty)
		}
	}
	return cells
}

// gradeKey 排序用：无年级排最后
func gradeKey(g *int) int {
	if g == nil {
		return math.MaxInt32
	}
	return *g
}

func gradeCell(g *int) interface{} {
	if g == nil {
		return "-"
	}
	return *g
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
