package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/anubclao/Edueat/internal/dto"
)

func setupTestCatalogService() (CatalogService, *mockRepos) {
	repos := newMockRepos()
	repos.seedCatalog()
	return NewCatalogService(repos.repo, zap.NewNop()), repos
}

func TestCreateCategory_AppendsToEnd(t *testing.T) {
	svc, _ := setupTestCatalogService()

	resp, err := svc.CreateCategory(context.Background(), &dto.CreateCategoryRequest{Name: "Ensalada Fría"})
	if err != nil {
		t.Fatalf("CreateCategory 应成功: %v", err)
	}
	if resp.ID != "ensalada-fria" {
		t.Errorf("期望 ID=ensalada-fria，实际 %s", resp.ID)
	}
	if resp.SortOrder != 6 {
		t.Errorf("未指定顺序时应追加到末尾（6），实际 %d", resp.SortOrder)
	}

	if _, err := svc.CreateCategory(context.Background(), &dto.CreateCategoryRequest{Name: "Ensalada fria"}); !errors.Is(err, ErrCategoryExists) {
		t.Errorf("期望 ErrCategoryExists，实际: %v", err)
	}
}

func TestDeleteCategory_InUse(t *testing.T) {
	svc, repos := setupTestCatalogService()

	if err := svc.DeleteCategory(context.Background(), "soup"); !errors.Is(err, ErrCategoryInUse) {
		t.Errorf("期望 ErrCategoryInUse，实际: %v", err)
	}

	delete(repos.recipes.recipes, "soup-1")
	delete(repos.recipes.recipes, "soup-2")
	if err := svc.DeleteCategory(context.Background(), "soup"); err != nil {
		t.Fatalf("DeleteCategory 应成功: %v", err)
	}
	if err := svc.DeleteCategory(context.Background(), "soup"); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("期望 ErrCategoryNotFound，实际: %v", err)
	}
}

func TestMoveCategory(t *testing.T) {
	svc, repos := setupTestCatalogService()
	ctx := context.Background()

	list, err := svc.MoveCategory(ctx, "main", "up")
	if err != nil {
		t.Fatalf("MoveCategory 应成功: %v", err)
	}
	if list[0].ID != "main" || list[1].ID != "soup" {
		t.Errorf("上移后顺序应为 main, soup，实际 %s, %s", list[0].ID, list[1].ID)
	}
	if repos.categories.categories["main"].SortOrder != 1 || repos.categories.categories["soup"].SortOrder != 2 {
		t.Error("应交换两个分类的 sort_order")
	}

	if _, err := svc.MoveCategory(ctx, "main", "up"); !errors.Is(err, ErrCategoryCannotMove) {
		t.Errorf("首位上移期望 ErrCategoryCannotMove，实际: %v", err)
	}
	if _, err := svc.MoveCategory(ctx, "dessert", "down"); !errors.Is(err, ErrCategoryCannotMove) {
		t.Errorf("末位下移期望 ErrCategoryCannotMove，实际: %v", err)
	}
	if _, err := svc.MoveCategory(ctx, "nope", "down"); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("期望 ErrCategoryNotFound，实际: %v", err)
	}
}

func TestRecipeCRUD(t *testing.T) {
	svc, _ := setupTestCatalogService()
	ctx := context.Background()

	created, err := svc.CreateRecipe(ctx, &dto.SaveRecipeRequest{
		Name:       "Ajiaco",
		CategoryID: "soup",
		Calories:   420,
	})
	if err != nil {
		t.Fatalf("CreateRecipe 应成功: %v", err)
	}
	if created.CategoryName != "Sopa" {
		t.Errorf("响应应包含分类名称，实际 %q", created.CategoryName)
	}

	updated, err := svc.UpdateRecipe(ctx, created.ID, &dto.SaveRecipeRequest{
		Name:       "Ajiaco Santafereño",
		CategoryID: "main",
		Calories:   500,
	})
	if err != nil {
		t.Fatalf("UpdateRecipe 应成功: %v", err)
	}
	if updated.CategoryID != "main" || updated.Calories != 500 {
		t.Errorf("更新结果不正确: %+v", updated)
	}

	list, _ := svc.ListRecipes(ctx, &dto.RecipeListRequest{Keyword: "ajiaco"})
	if len(list) != 1 {
		t.Errorf("按关键字检索期望 1 条，实际 %d", len(list))
	}

	if err := svc.DeleteRecipe(ctx, created.ID); err != nil {
		t.Fatalf("DeleteRecipe 应成功: %v", err)
	}
	if _, err := svc.GetRecipe(ctx, created.ID); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("期望 ErrRecipeNotFound，实际: %v", err)
	}
}

func TestCreateRecipe_Validation(t *testing.T) {
	svc, _ := setupTestCatalogService()
	ctx := context.Background()

	if _, err := svc.CreateRecipe(ctx, &dto.SaveRecipeRequest{Name: "X", CategoryID: "soup", Calories: -1}); !errors.Is(err, ErrInvalidCalories) {
		t.Errorf("期望 ErrInvalidCalories，实际: %v", err)
	}
	if _, err := svc.CreateRecipe(ctx, &dto.SaveRecipeRequest{Name: "X", CategoryID: "nope"}); !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("期望 ErrCategoryNotFound，实际: %v", err)
	}
}
