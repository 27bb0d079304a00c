package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
	"github.com/anubclao/Edueat/pkg/metrics"
)

var (
	ErrBatchNoRecipes  = errors.New("该日期菜单中没有可用于当前分类的菜谱")
	ErrBatchCountLimit = errors.New("批量下单数量超出上限")
)

// unknownRecipeName 菜谱已不存在时的占位名称
const unknownRecipeName = "Desconocido"

// LogisticsService 后厨物流看板业务接口（管理员）
type LogisticsService interface {
	Dashboard(ctx context.Context, req *dto.LogisticsRequest) (*dto.LogisticsResponse, error)
	CreateBatchOrders(ctx context.Context, req *dto.BatchOrderRequest) (*dto.BatchOrderResponse, error)
}

type logisticsService struct {
	repo     *repository.Repository
	maxBatch int
	clock    *Clock
	logger   *zap.Logger
}

// NewLogisticsService 创建 LogisticsService 实例
func NewLogisticsService(repo *repository.Repository, maxBatch int, clock *Clock, logger *zap.Logger) LogisticsService {
	if maxBatch <= 0 {
		maxBatch = 60
	}
	return &logisticsService{repo: repo, maxBatch: maxBatch, clock: clock, logger: logger}
}

// ────────────────────── Dashboard ──────────────────────

func (s *logisticsService) Dashboard(ctx context.Context, req *dto.LogisticsRequest) (*dto.LogisticsResponse, error) {
	day, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.Order.ListConfirmedByDate(ctx, day, req.Grade)
	if err != nil {
		s.logger.Error("查询订单失败", zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.LogisticsResponse{
		Date:            formatDate(day),
		TotalOrders:     len(orders),
		TotalMainDishes: countMainDishes(orders, categories),
		KitchenSummary:  summarizeKitchen(orders, categories),
		Grades:          summarizeGrades(orders, categories),
		Orders:          make([]dto.OrderResponse, 0, len(orders)),
	}
	for i := range orders {
		resp.Orders = append(resp.Orders, toOrderResponse(&orders[i]))
	}
	return resp, nil
}

// summarizeKitchen 每个分类下各菜谱的份数，按份数降序
func summarizeKitchen(orders []model.Order, categories []model.Category) []dto.CategorySummary {
	type tally struct {
		name  string
		count int
	}
	counts := make(map[string]map[string]*tally, len(categories))
	for _, o := range orders {
		for _, it := range o.Items {
			byRecipe, ok := counts[it.CategoryID]
			if !ok {
				byRecipe = make(map[string]*tally)
				counts[it.CategoryID] = byRecipe
			}
			t, ok := byRecipe[it.RecipeID]
			if !ok {
				t = &tally{name: unknownRecipeName}
				if it.Recipe != nil {
					t.name = it.Recipe.Name
				}
				byRecipe[it.RecipeID] = t
			}
			t.count++
		}
	}

	result := make([]dto.CategorySummary, 0, len(categories))
	for _, c := range categories {
		summary := dto.CategorySummary{CategoryID: c.CategoryID, CategoryName: c.Name, Dishes: []dto.DishCount{}}
		for id, t := range counts[c.CategoryID] {
			summary.Dishes = append(summary.Dishes, dto.DishCount{RecipeID: id, Name: t.name, Count: t.count})
		}
		sortDishes(summary.Dishes)
		result = append(result, summary)
	}
	return result
}

// summarizeGrades 按年级统计订单数及各分类份数；无年级（教职工）排在最后
func summarizeGrades(orders []model.Order, categories []model.Category) []dto.GradeRow {
	const noGrade = 0
	rows := make(map[int]*dto.GradeRow)
	for _, o := range orders {
		key := noGrade
		if o.Grade != nil {
			key = *o.Grade
		}
		row, ok := rows[key]
		if !ok {
			row = &dto.GradeRow{Grade: o.Grade, ByCategory: make(map[string]int, len(categories))}
			for _, c := range categories {
				row.ByCategory[c.CategoryID] = 0
			}
			rows[key] = row
		}
		row.TotalOrders++
		seen := make(map[string]bool, len(o.Items))
		for _, it := range o.Items {
			if !seen[it.CategoryID] {
				seen[it.CategoryID] = true
				row.ByCategory[it.CategoryID]++
			}
		}
	}

	keys := make([]int, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == noGrade || keys[j] == noGrade {
			return keys[j] == noGrade && keys[i] != noGrade
		}
		return keys[i] < keys[j]
	})

	result := make([]dto.GradeRow, 0, len(keys))
	for _, k := range keys {
		result = append(result, *rows[k])
	}
	return result
}

// countMainDishes 含主菜的订单数
func countMainDishes(orders []model.Order, categories []model.Category) int {
	mainID := mainCategoryID(categories)
	if mainID == "" {
		return 0
	}
	total := 0
	for _, o := range orders {
		for _, it := range o.Items {
			if it.CategoryID == mainID {
				total++
				break
			}
		}
	}
	return total
}

func sortDishes(dishes []dto.DishCount) {
	sort.Slice(dishes, func(i, j int) bool {
		if dishes[i].Count != dishes[j].Count {
			return dishes[i].Count > dishes[j].Count
		}
		return dishes[i].Name < dishes[j].Name
	})
}

// ────────────────────── CreateBatchOrders ──────────────────────

// CreateBatchOrders 为某年级班级批量生成匿名订单：每个分类取菜单中该分类的第一个菜谱
func (s *logisticsService) CreateBatchOrders(ctx context.Context, req *dto.BatchOrderRequest) (*dto.BatchOrderResponse, error) {
	day, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if req.Count < 1 || req.Count > s.maxBatch {
		return nil, ErrBatchCountLimit
	}

	menu, err := s.repo.Menu.GetByDate(ctx, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		s.logger.Error("查询菜单失败", zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}

	var items []dto.Selection
	for _, c := range categories {
		for _, it := range menu.Items {
			if it.Recipe != nil && it.Recipe.CategoryID == c.CategoryID {
				items = append(items, dto.Selection{CategoryID: c.CategoryID, RecipeID: it.RecipeID})
				break
			}
		}
	}
	if len(items) == 0 {
		return nil, ErrBatchNoRecipes
	}

	section := strings.ToUpper(strings.TrimSpace(req.Section))
	if section == "" {
		section = "A"
	}
	grade := req.Grade
	now := s.clock.Now().UTC()

	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		for i := 0; i < req.Count; i++ {
			order := &model.Order{
				OrderDate:   day,
				StudentName: fmt.Sprintf("Estudiante %d (%d%s)", i+1, grade, section),
				Grade:       &grade,
				Section:     section,
				Status:      model.OrderStatusConfirmed,
				IsBatch:     true,
				SubmittedAt: now,
			}
			for _, it := range items {
				order.Items = append(order.Items, model.OrderItem{CategoryID: it.CategoryID, RecipeID: it.RecipeID})
			}
			if err := txRepo.Order.Create(ctx, order); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("批量创建订单失败", zap.String("date", req.Date), zap.Error(err))
		return nil, err
	}

	metrics.OrdersSubmitted.WithLabelValues("batch").Add(float64(req.Count))
	s.logger.Info("批量订单已创建",
		zap.String("date", req.Date), zap.Int("grade", grade), zap.String("section", section), zap.Int("count", req.Count))

	return &dto.BatchOrderResponse{Created: req.Count, Items: items}, nil
}
