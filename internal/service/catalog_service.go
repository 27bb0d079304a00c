package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
)

// ── 分类 / 菜谱业务错误 ──

var (
	ErrCategoryNotFound   = errors.New("分类不存在")
	ErrCategoryExists     = errors.New("分类已存在")
	ErrCategoryInUse      = errors.New("分类下仍有菜谱，无法删除")
	ErrCategoryCannotMove = errors.New("分类已在边界，无法继续移动")
	ErrRecipeNotFound     = errors.New("菜谱不存在")
	ErrInvalidCalories    = errors.New("热量不能为负数")
)

// CatalogService 分类与菜谱业务接口
type CatalogService interface {
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error
	MoveCategory(ctx context.Context, id string, direction string) ([]dto.CategoryResponse, error)

	ListRecipes(ctx context.Context, req *dto.RecipeListRequest) ([]dto.RecipeResponse, error)
	GetRecipe(ctx context.Context, id string) (*dto.RecipeResponse, error)
	CreateRecipe(ctx context.Context, req *dto.SaveRecipeRequest) (*dto.RecipeResponse, error)
	UpdateRecipe(ctx context.Context, id string, req *dto.SaveRecipeRequest) (*dto.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, id string) error
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

// ────────────────────── Categories ──────────────────────

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}
	return toCategoryResponses(categories), nil
}

// CreateCategory ID 由名称生成；未指定顺序时追加到末尾
func (s *catalogService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	id := slugify(req.Name)
	if _, err := s.repo.Category.GetByID(ctx, id); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询分类失败", zap.Error(err))
		return nil, err
	}

	order := 0
	if req.SortOrder != nil {
		order = *req.SortOrder
	} else {
		max, err := s.repo.Category.MaxSortOrder(ctx)
		if err != nil {
			s.logger.Error("查询最大排序失败", zap.Error(err))
			return nil, err
		}
		order = max + 1
	}

	category := &model.Category{
		CategoryID: id,
		Name:       strings.TrimSpace(req.Name),
		SortOrder:  order,
	}
	if err := s.repo.Category.Create(ctx, category); err != nil {
		s.logger.Error("创建分类失败", zap.String("category", id), zap.Error(err))
		return nil, err
	}

	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.getCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(req.Name)
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if err := s.repo.Category.Update(ctx, category); err != nil {
		s.logger.Error("更新分类失败", zap.String("category", id), zap.Error(err))
		return nil, err
	}

	resp := toCategoryResponse(category)
	return &resp, nil
}

// DeleteCategory 仍被菜谱引用时拒绝删除
func (s *catalogService) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.getCategory(ctx, id); err != nil {
		return err
	}

	n, err := s.repo.Category.CountRecipes(ctx, id)
	if err != nil {
		s.logger.Error("统计分类菜谱数失败", zap.String("category", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}

	if err := s.repo.Category.Delete(ctx, id); err != nil {
		s.logger.Error("删除分类失败", zap.String("category", id), zap.Error(err))
		return err
	}
	return nil
}

// MoveCategory 与相邻分类交换 sort_order；返回调整后的完整列表
func (s *catalogService) MoveCategory(ctx context.Context, id string, direction string) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}

	idx := -1
	for i := range categories {
		if categories[i].CategoryID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCategoryNotFound
	}

	target := idx - 1
	if direction == "down" {
		target = idx + 1
	}
	if target < 0 || target >= len(categories) {
		return nil, ErrCategoryCannotMove
	}

	a, b := &categories[idx], &categories[target]
	a.SortOrder, b.SortOrder = b.SortOrder, a.SortOrder
	// 两者顺序值相同时按位置重新编号，保证交换生效
	if a.SortOrder == b.SortOrder {
		a.SortOrder, b.SortOrder = target, idx
	}

	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Category.Update(ctx, a); err != nil {
			return err
		}
		return txRepo.Category.Update(ctx, b)
	})
	if err != nil {
		s.logger.Error("调整分类顺序失败", zap.String("category", id), zap.Error(err))
		return nil, err
	}

	categories[idx], categories[target] = categories[target], categories[idx]
	return toCategoryResponses(categories), nil
}

func (s *catalogService) getCategory(ctx context.Context, id string) (*model.Category, error) {
	category, err := s.repo.Category.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		s.logger.Error("查询分类失败", zap.String("category", id), zap.Error(err))
		return nil, err
	}
	return category, nil
}

// ────────────────────── Recipes ──────────────────────

func (s *catalogService) ListRecipes(ctx context.Context, req *dto.RecipeListRequest) ([]dto.RecipeResponse, error) {
	recipes, err := s.repo.Recipe.List(ctx, repository.RecipeFilter{
		Keyword:    req.Keyword,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		s.logger.Error("查询菜谱列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		result = append(result, toRecipeResponse(&recipes[i]))
	}
	return result, nil
}

func (s *catalogService) GetRecipe(ctx context.Context, id string) (*dto.RecipeResponse, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRecipeResponse(recipe)
	return &resp, nil
}

func (s *catalogService) CreateRecipe(ctx context.Context, req *dto.SaveRecipeRequest) (*dto.RecipeResponse, error) {
	category, err := s.validateRecipe(ctx, req)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CategoryID:  category.CategoryID,
		Calories:    req.Calories,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	if err := s.repo.Recipe.Create(ctx, recipe); err != nil {
		s.logger.Error("创建菜谱失败", zap.Error(err))
		return nil, err
	}
	recipe.Category = category

	resp := toRecipeResponse(recipe)
	return &resp, nil
}

func (s *catalogService) UpdateRecipe(ctx context.Context, id string, req *dto.SaveRecipeRequest) (*dto.RecipeResponse, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := s.validateRecipe(ctx, req)
	if err != nil {
		return nil, err
	}

	recipe.Name = strings.TrimSpace(req.Name)
	recipe.Description = strings.TrimSpace(req.Description)
	recipe.CategoryID = category.CategoryID
	recipe.Calories = req.Calories
	recipe.ImageURL = strings.TrimSpace(req.ImageURL)
	recipe.Category = category

	if err := s.repo.Recipe.Update(ctx, recipe); err != nil {
		s.logger.Error("更新菜谱失败", zap.String("recipe", id), zap.Error(err))
		return nil, err
	}

	resp := toRecipeResponse(recipe)
	return &resp, nil
}

// DeleteRecipe 软删除，历史订单仍可引用
func (s *catalogService) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := s.getRecipe(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Recipe.Delete(ctx, id); err != nil {
		s.logger.Error("删除菜谱失败", zap.String("recipe", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *catalogService) getRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	recipe, err := s.repo.Recipe.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		s.logger.Error("查询菜谱失败", zap.String("recipe", id), zap.Error(err))
		return nil, err
	}
	return recipe, nil
}

// validateRecipe 热量非负，分类必须存在
func (s *catalogService) validateRecipe(ctx context.Context, req *dto.SaveRecipeRequest) (*model.Category, error) {
	if req.Calories < 0 {
		return nil, ErrInvalidCalories
	}
	return s.getCategory(ctx, req.CategoryID)
}

// ── 转换 ──

func toCategoryResponse(c *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{ID: c.CategoryID, Name: c.Name, SortOrder: c.SortOrder}
}

func toCategoryResponses(categories []model.Category) []dto.CategoryResponse {
	result := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		result = append(result, toCategoryResponse(&categories[i]))
	}
	return result
}

func toRecipeResponse(r *model.Recipe) dto.RecipeResponse {
	resp := dto.RecipeResponse{
		ID:          r.RecipeID,
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Calories:    r.Calories,
		ImageURL:    r.ImageURL,
	}
	if r.Category != nil {
		resp.CategoryName = r.Category.Name
	}
	return resp
}
