package dto

// ── 报表 DTO ──

// RangeRequest 日期区间查询参数
type RangeRequest struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end"   binding:"required"`
}

// DailyParticipation 单日参与情况
type DailyParticipation struct {
	Date    string `json:"date"`
	Ordered int    `json:"ordered"`
	Missing int    `json:"missing"`
}

// MissingUser 未下单记录
type MissingUser struct {
	Date    string `json:"date"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Grade   *int   `json:"grade,omitempty"`
	Section string `json:"section,omitempty"`
}

// RangeStatsResponse 区间统计响应
type RangeStatsResponse struct {
	Start             string               `json:"start"`
	End               string               `json:"end"`
	MenuDays          int                  `json:"menu_days"`
	TargetUsers       int                  `json:"target_users"`
	ExpectedOrders    int                  `json:"expected_orders"`
	ActualOrders      int                  `json:"actual_orders"`
	ParticipationRate int                  `json:"participation_rate"`
	Daily             []DailyParticipation `json:"daily"`
	TopMainDishes     []DishCount          `json:"top_main_dishes"`
	Missing           []MissingUser        `json:"missing"`
}

// DayNutrition 单日营养摄入
type DayNutrition struct {
	Date          string   `json:"date"`
	TotalCalories int      `json:"total_calories"`
	Items         []string `json:"items"`
}

// NutritionStatsResponse 个人营养统计
type NutritionStatsResponse struct {
	Days            []DayNutrition `json:"days"`
	AverageCalories int            `json:"average_calories"`
	DayCount        int            `json:"day_count"`
}

// NutritionAdviceResponse AI 营养建议
type NutritionAdviceResponse struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Score int    `json:"score"`
}
