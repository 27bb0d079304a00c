package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/service"
	"github.com/anubclao/Edueat/pkg/response"
)

// CatalogHandler 分类与菜谱 HTTP 处理器
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ── 分类 ──

// ListCategories 分类列表（按 sort_order）
// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	list, err := h.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateCategory 创建分类
// POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	category, err := h.catalogSvc.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, category)
}

// UpdateCategory 更新分类
// PUT /api/v1/categories/:id
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	category, err := h.catalogSvc.UpdateCategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, category)
}

// DeleteCategory 删除分类
// DELETE /api/v1/categories/:id
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogSvc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

// MoveCategory 上移 / 下移分类
// PUT /api/v1/categories/:id/move
func (h *CatalogHandler) MoveCategory(c *gin.Context) {
	var req dto.MoveCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.catalogSvc.MoveCategory(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ── 菜谱 ──

// ListRecipes 菜谱列表
// GET /api/v1/recipes?keyword=&category_id=
func (h *CatalogHandler) ListRecipes(c *gin.Context) {
	var req dto.RecipeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.catalogSvc.ListRecipes(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetRecipe 菜谱详情
// GET /api/v1/recipes/:id
func (h *CatalogHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.catalogSvc.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, recipe)
}

// CreateRecipe 创建菜谱
// POST /api/v1/recipes
func (h *CatalogHandler) CreateRecipe(c *gin.Context) {
	var req dto.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	recipe, err := h.catalogSvc.CreateRecipe(c.Request.Context(), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.Created(c, recipe)
}

// UpdateRecipe 更新菜谱
// PUT /api/v1/recipes/:id
func (h *CatalogHandler) UpdateRecipe(c *gin.Context) {
	var req dto.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	recipe, err := h.catalogSvc.UpdateRecipe(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, recipe)
}

// DeleteRecipe 删除菜谱（软删除）
// DELETE /api/v1/recipes/:id
func (h *CatalogHandler) DeleteRecipe(c *gin.Context) {
	if err := h.catalogSvc.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleCatalogError 统一处理分类 / 菜谱业务错误
func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		response.NotFound(c, 14001, "分类不存在")
	case errors.Is(err, service.ErrCategoryExists):
		response.Conflict(c, 14002, "分类已存在")
	case errors.Is(err, service.ErrCategoryInUse):
		response.BadRequest(c, 14003, "分类下仍有菜谱，无法删除")
	case errors.Is(err, service.ErrCategoryCannotMove):
		response.BadRequest(c, 14004, "分类已在边界，无法继续移动")
	case errors.Is(err, service.ErrRecipeNotFound):
		response.NotFound(c, 14101, "菜谱不存在")
	case errors.Is(err, service.ErrInvalidCalories):
		response.BadRequest(c, 14102, "热量不能为负数")
	default:
		response.InternalError(c)
	}
}
