package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
)

// ── 菜单模块业务错误 ──

var (
	ErrMenuNotFound = errors.New("该日期暂无菜单")
	ErrMenuPastDate = errors.New("不能编辑过去日期的菜单")
	ErrMenuEmpty    = errors.New("菜单至少需要一个菜品")
)

// MenuService 每日菜单业务接口
type MenuService interface {
	List(ctx context.Context, req *dto.MenuListRequest) ([]dto.MenuResponse, error)
	GetByDate(ctx context.Context, date string) (*dto.MenuResponse, error)
	Save(ctx context.Context, date string, req *dto.SaveMenuRequest) (*dto.MenuResponse, error)
	Delete(ctx context.Context, date string) error
	ListAvailableDates(ctx context.Context) ([]string, error)
}

type menuService struct {
	repo   *repository.Repository
	clock  *Clock
	logger *zap.Logger
}

// NewMenuService 创建 MenuService 实例
func NewMenuService(repo *repository.Repository, clock *Clock, logger *zap.Logger) MenuService {
	return &menuService{repo: repo, clock: clock, logger: logger}
}

// List 全部菜单（管理员），日期倒序
func (s *menuService) List(ctx context.Context, req *dto.MenuListRequest) ([]dto.MenuResponse, error) {
	menus, err := s.repo.Menu.List(ctx, req.Date)
	if err != nil {
		s.logger.Error("查询菜单列表失败", zap.Error(err))
		return nil, err
	}
	names, err := categoryNames(ctx, s.repo)
	if err != nil {
		s.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MenuResponse, 0, len(menus))
	for i := range menus {
		result = append(result, toMenuResponse(&menus[i], names))
	}
	return result, nil
}

func (s *menuService) GetByDate(ctx context.Context, date string) (*dto.MenuResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	menu, err := s.repo.Menu.GetByDate(ctx, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		s.logger.Error("查询菜单失败", zap.String("date", date), zap.Error(err))
		return nil, err
	}
	names, err := categoryNames(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	resp := toMenuResponse(menu, names)
	return &resp, nil
}

// Save 新增或覆盖某日菜单；过去的日期拒绝编辑，重复菜谱合并，保存即发布
func (s *menuService) Save(ctx context.Context, date string, req *dto.SaveMenuRequest) (*dto.MenuResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if day.Before(s.clock.Today()) {
		return nil, ErrMenuPastDate
	}

	// 合并重复菜谱：任一条目为必选则视为必选
	var ids []string
	mandatory := make(map[string]bool, len(req.Items))
	for _, it := range req.Items {
		if _, dup := mandatory[it.RecipeID]; !dup {
			ids = append(ids, it.RecipeID)
		}
		mandatory[it.RecipeID] = mandatory[it.RecipeID] || it.IsMandatory
	}
	if len(ids) == 0 {
		return nil, ErrMenuEmpty
	}

	recipes, err := s.repo.Recipe.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询菜谱失败", zap.Error(err))
		return nil, err
	}
	byID := make(map[string]*model.Recipe, len(recipes))
	for i := range recipes {
		byID[recipes[i].RecipeID] = &recipes[i]
	}

	menu := &model.DailyMenu{MenuDate: day, IsPublished: true}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, ErrRecipeNotFound
		}
		menu.Items = append(menu.Items, model.DailyMenuItem{
			RecipeID:    id,
			IsMandatory: mandatory[id],
		})
	}

	if err := s.repo.Menu.Save(ctx, menu); err != nil {
		s.logger.Error("保存菜单失败", zap.String("date", date), zap.Error(err))
		return nil, err
	}
	for i := range menu.Items {
		menu.Items[i].Recipe = byID[menu.Items[i].RecipeID]
	}

	names, err := categoryNames(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	s.logger.Info("菜单已保存", zap.String("date", date), zap.Int("items", len(menu.Items)))

	resp := toMenuResponse(menu, names)
	return &resp, nil
}

func (s *menuService) Delete(ctx context.Context, date string) error {
	day, err := parseDate(date)
	if err != nil {
		return err
	}
	if err := s.repo.Menu.DeleteByDate(ctx, day); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuNotFound
		}
		s.logger.Error("删除菜单失败", zap.String("date", date), zap.Error(err))
		return err
	}
	return nil
}

// ListAvailableDates 今天及以后已发布菜单的日期（升序）
func (s *menuService) ListAvailableDates(ctx context.Context) ([]string, error) {
	menus, err := s.repo.Menu.ListPublishedFrom(ctx, s.clock.Today())
	if err != nil {
		s.logger.Error("查询可订餐日期失败", zap.Error(err))
		return nil, err
	}
	dates := make([]string, 0, len(menus))
	for _, m := range menus {
		dates = append(dates, formatDate(m.MenuDate))
	}
	return dates, nil
}

// ── 辅助函数 ──

// categoryNames 分类 ID -> 名称
func categoryNames(ctx context.Context, repo *repository.Repository) (map[string]string, error) {
	categories, err := repo.Category.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.CategoryID] = c.Name
	}
	return names, nil
}

func toMenuResponse(menu *model.DailyMenu, names map[string]string) dto.MenuResponse {
	resp := dto.MenuResponse{
		ID:          menu.MenuID,
		Date:        formatDate(menu.MenuDate),
		IsPublished: menu.IsPublished,
		Items:       make([]dto.MenuItemResponse, 0, len(menu.Items)),
	}
	for _, it := range menu.Items {
		item := dto.MenuItemResponse{
			RecipeID:    it.RecipeID,
			IsMandatory: it.IsMandatory,
		}
		if it.Recipe != nil {
			item.RecipeName = it.Recipe.Name
			item.CategoryID = it.Recipe.CategoryID
			item.CategoryName = names[it.Recipe.CategoryID]
			item.Calories = it.Recipe.Calories
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
