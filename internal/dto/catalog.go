package dto

// ── 分类 / 菜谱 DTO ──

// CreateCategoryRequest 创建分类请求；SortOrder 为空时追加到末尾
type CreateCategoryRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	SortOrder *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// UpdateCategoryRequest 更新分类请求
type UpdateCategoryRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	SortOrder *int   `json:"sort_order" binding:"omitempty,min=0"`
}

// MoveCategoryRequest 调整分类顺序
type MoveCategoryRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// CategoryResponse 分类响应
type CategoryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// RecipeListRequest 菜谱列表查询参数
type RecipeListRequest struct {
	Keyword    string `form:"keyword"     binding:"omitempty,max=100"`
	CategoryID string `form:"category_id" binding:"omitempty,max=60"`
}

// SaveRecipeRequest 创建/更新菜谱请求
type SaveRecipeRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=150"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	CategoryID  string `json:"category_id" binding:"required"`
	Calories    int    `json:"calories"    binding:"min=0"`
	ImageURL    string `json:"image_url"   binding:"omitempty,url,max=500"`
}

// RecipeResponse 菜谱响应
type RecipeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Calories     int    `json:"calories"`
	ImageURL     string `json:"image_url,omitempty"`
}
