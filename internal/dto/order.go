package dto

// ── 点餐 DTO ──

// Selection 某一分类下选择的菜谱
type Selection struct {
	CategoryID string `json:"category_id" binding:"required"`
	RecipeID   string `json:"recipe_id"   binding:"required"`
}

// MenuOption 向导某一步可选的菜品
type MenuOption struct {
	RecipeID    string `json:"recipe_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Calories    int    `json:"calories"`
	ImageURL    string `json:"image_url,omitempty"`
	IsMandatory bool   `json:"is_mandatory"`
}

// WizardStep 向导步骤（一个分类一步）
type WizardStep struct {
	CategoryID string       `json:"category_id"`
	Name       string       `json:"name"`
	Options    []MenuOption `json:"options"`
}

// OrderFormResponse 点餐页数据
type OrderFormResponse struct {
	Date          string         `json:"date"`
	Steps         []WizardStep   `json:"steps"`
	ExistingOrder *OrderResponse `json:"existing_order,omitempty"`
	ReadOnly      bool           `json:"read_only"`
	Closed        bool           `json:"closed"`
	AutoFilled    bool           `json:"auto_filled"`
	Selections    []Selection    `json:"selections"`
}

// WizardRequest 向导状态迁移请求
// Action: select（切换当前步骤的选择）| next | back
type WizardRequest struct {
	Step       int         `json:"step"       binding:"min=0"`
	Selections []Selection `json:"selections" binding:"omitempty,dive"`
	Action     string      `json:"action"     binding:"required,oneof=select next back"`
	RecipeID   string      `json:"recipe_id"`
}

// WizardStateResponse 向导状态
type WizardStateResponse struct {
	Step           int         `json:"step"`
	StepCategoryID string      `json:"step_category_id,omitempty"`
	Selections     []Selection `json:"selections"`
	Confirming     bool        `json:"confirming"`
	Exited         bool        `json:"exited"`
}

// SubmitOrderRequest 提交订单请求
type SubmitOrderRequest struct {
	Selections       []Selection `json:"selections"         binding:"required,min=1,dive"`
	SaveAsPreference bool        `json:"save_as_preference"`
}

// OrderItemResponse 订单条目响应
type OrderItemResponse struct {
	CategoryID string `json:"category_id"`
	RecipeID   string `json:"recipe_id"`
	RecipeName string `json:"recipe_name"`
	Calories   int    `json:"calories"`
}

// OrderResponse 订单响应
type OrderResponse struct {
	ID          string              `json:"id"`
	Date        string              `json:"date"`
	StudentName string              `json:"student_name"`
	Grade       *int                `json:"grade,omitempty"`
	Section     string              `json:"section,omitempty"`
	Allergies   string              `json:"allergies,omitempty"`
	Status      string              `json:"status"`
	IsBatch     bool                `json:"is_batch,omitempty"`
	SubmittedAt string              `json:"submitted_at"`
	Items       []OrderItemResponse `json:"items"`
}

// ReminderResponse 明日订餐提醒
type ReminderResponse struct {
	Show bool   `json:"show"`
	Date string `json:"date"`
}

// ── 每周偏好 DTO ──

// SavePreferenceRequest 保存某星期几的偏好
type SavePreferenceRequest struct {
	Items []Selection `json:"items" binding:"required,min=1,dive"`
}

// PreferenceResponse 偏好响应
type PreferenceResponse struct {
	DayOfWeek int         `json:"day_of_week"`
	Items     []Selection `json:"items"`
}

// ── 后厨物流 DTO ──

// LogisticsRequest 物流看板查询参数
type LogisticsRequest struct {
	Date  string `form:"date"  binding:"required"`
	Grade *int   `form:"grade" binding:"omitempty,min=1,max=11"`
}

// DishCount 菜品份数
type DishCount struct {
	RecipeID string `json:"recipe_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// CategorySummary 分类汇总
type CategorySummary struct {
	CategoryID   string      `json:"category_id"`
	CategoryName string      `json:"category_name"`
	Dishes       []DishCount `json:"dishes"`
}

// GradeRow 按年级汇总
type GradeRow struct {
	Grade       *int           `json:"grade"`
	TotalOrders int            `json:"total_orders"`
	ByCategory  map[string]int `json:"by_category"`
}

// LogisticsResponse 物流看板响应
type LogisticsResponse struct {
	Date            string            `json:"date"`
	TotalOrders     int               `json:"total_orders"`
	TotalMainDishes int               `json:"total_main_dishes"`
	KitchenSummary  []CategorySummary `json:"kitchen_summary"`
	Grades          []GradeRow        `json:"grades"`
	Orders          []OrderResponse   `json:"orders"`
}

// BatchOrderRequest 批量创建匿名订单
type BatchOrderRequest struct {
	Date    string `json:"date"    binding:"required"`
	Grade   int    `json:"grade"   binding:"required,min=1,max=11"`
	Section string `json:"section" binding:"omitempty,max=10"`
	Count   int    `json:"count"   binding:"required,min=1"`
}

// BatchOrderResponse 批量下单结果
type BatchOrderResponse struct {
	Created int         `json:"created"`
	Items   []Selection `json:"items"`
}
