package model

// Category 菜品分类表 — 对应 categories
// SortOrder 决定点餐向导的步骤顺序
type Category struct {
	CategoryID string `gorm:"type:varchar(60);primaryKey" json:"category_id"`
	Name       string `gorm:"type:varchar(100);not null"  json:"name"`
	SortOrder  int    `gorm:"not null;default:0"          json:"sort_order"`
	BaseModel
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }

// Recipe 菜谱表 — 对应 recipes
type Recipe struct {
	RecipeID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"recipe_id"`
	Name        string `gorm:"type:varchar(150);not null"                     json:"name"`
	Description string `gorm:"type:text;not null;default:''"                  json:"description"`
	CategoryID  string `gorm:"type:varchar(60);not null"                      json:"category_id"`
	Calories    int    `gorm:"not null;default:0"                             json:"calories"`
	ImageURL    string `gorm:"type:varchar(500);not null;default:''"          json:"image_url,omitempty"`
	SoftDeleteModel

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
}

// TableName 指定表名
func (Recipe) TableName() string { return "recipes" }
