package dto

// ── 每日菜单 DTO ──

// MenuItemInput 菜单条目
type MenuItemInput struct {
	RecipeID    string `json:"recipe_id"    binding:"required"`
	IsMandatory bool   `json:"is_mandatory"`
}

// SaveMenuRequest 保存某日菜单请求
type SaveMenuRequest struct {
	Items []MenuItemInput `json:"items" binding:"required,min=1,dive"`
}

// MenuListRequest 菜单列表查询参数；Date 为日期片段，如 2026-03
type MenuListRequest struct {
	Date string `form:"date" binding:"omitempty,max=10"`
}

// MenuItemResponse 菜单条目响应
type MenuItemResponse struct {
	RecipeID     string `json:"recipe_id"`
	RecipeName   string `json:"recipe_name"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name,omitempty"`
	Calories     int    `json:"calories"`
	IsMandatory  bool   `json:"is_mandatory"`
}

// MenuResponse 每日菜单响应
type MenuResponse struct {
	ID          string             `json:"id"`
	Date        string             `json:"date"`
	IsPublished bool               `json:"is_published"`
	Items       []MenuItemResponse `json:"items"`
}
