package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/model"
)

// CategoryRepository 菜品分类数据访问接口
type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id string) (*model.Category, error)
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
	MaxSortOrder(ctx context.Context) (int, error)
	CountRecipes(ctx context.Context, id string) (int64, error)
}

// RecipeFilter 菜谱列表筛选条件
type RecipeFilter struct {
	Keyword    string // 匹配菜谱名或分类名
	CategoryID string
}

// RecipeRepository 菜谱数据访问接口
type RecipeRepository interface {
	List(ctx context.Context, filter RecipeFilter) ([]model.Recipe, error)
	GetByID(ctx context.Context, id string) (*model.Recipe, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Recipe, error)
	Create(ctx context.Context, recipe *model.Recipe) error
	Update(ctx context.Context, recipe *model.Recipe) error
	Delete(ctx context.Context, id string) error
}

// ── Category Repository 实现 ──

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建 CategoryRepository 实例
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("category_id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).
		Model(&model.Category{}).
		Where("category_id = ?", category.CategoryID).
		Updates(map[string]interface{}{
			"name":       category.Name,
			"sort_order": category.SortOrder,
		}).Error
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("category_id = ?", id).Delete(&model.Category{}).Error
}

func (r *categoryRepo) MaxSortOrder(ctx context.Context) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil || max == nil {
		return 0, err
	}
	return *max, nil
}

// CountRecipes 统计引用该分类的菜谱数（含已软删除菜谱，外键仍引用）
func (r *categoryRepo) CountRecipes(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&model.Recipe{}).
		Where("category_id = ?", id).
		Count(&n).Error
	return n, err
}

// ── Recipe Repository 实现 ──

type recipeRepo struct {
	db *gorm.DB
}

// NewRecipeRepo 创建 RecipeRepository 实例
func NewRecipeRepo(db *gorm.DB) RecipeRepository {
	return &recipeRepo{db: db}
}

func (r *recipeRepo) List(ctx context.Context, filter RecipeFilter) ([]model.Recipe, error) {
	var recipes []model.Recipe

	db := r.db.WithContext(ctx).
		Preload("Category").
		Joins("LEFT JOIN categories ON categories.category_id = recipes.category_id")
	if filter.CategoryID != "" {
		db = db.Where("recipes.category_id = ?", filter.CategoryID)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		db = db.Where("LOWER(recipes.name) LIKE ? OR LOWER(categories.name) LIKE ?", like, like)
	}

	err := db.Order("categories.sort_order ASC, recipes.name ASC").Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) GetByID(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("recipe_id = ?", id).
		First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).Where("recipe_id IN ?", ids).Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepo) Create(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).Omit("Category").Create(recipe).Error
}

func (r *recipeRepo) Update(ctx context.Context, recipe *model.Recipe) error {
	return r.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("recipe_id = ?", recipe.RecipeID).
		Updates(map[string]interface{}{
			"name":        recipe.Name,
			"description": recipe.Description,
			"category_id": recipe.CategoryID,
			"calories":    recipe.Calories,
			"image_url":   recipe.ImageURL,
		}).Error
}

func (r *recipeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("recipe_id = ?", id).Delete(&model.Recipe{}).Error
}
