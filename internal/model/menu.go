package model

import "time"

// DailyMenu 每日菜单表 — 对应 daily_menus（每个日期最多一份）
type DailyMenu struct {
	MenuID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"menu_id"`
	MenuDate    time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"menu_date"`
	IsPublished bool      `gorm:"not null;default:true"                          json:"is_published"`
	BaseModel

	// 关联
	Items []DailyMenuItem `gorm:"foreignKey:MenuID;references:MenuID" json:"items,omitempty"`
}

// TableName 指定表名
func (DailyMenu) TableName() string { return "daily_menus" }

// DailyMenuItem 菜单条目表 — 对应 daily_menu_items
type DailyMenuItem struct {
	MenuItemID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"menu_item_id"`
	MenuID      string `gorm:"type:uuid;not null"                             json:"menu_id"`
	RecipeID    string `gorm:"type:uuid;not null"                             json:"recipe_id"`
	IsMandatory bool   `gorm:"not null;default:false"                         json:"is_mandatory"`
	Position    int    `gorm:"not null;default:0"                             json:"position"`

	// 关联
	Recipe *Recipe `gorm:"foreignKey:RecipeID;references:RecipeID" json:"recipe,omitempty"`
}

// TableName 指定表名
func (DailyMenuItem) TableName() string { return "daily_menu_items" }
