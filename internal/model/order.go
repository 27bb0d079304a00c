package model

import "time"

// 订单状态
const (
	OrderStatusConfirmed = "confirmed"
	OrderStatusPending   = "pending"
)

// Order 订单表 — 对应 orders
// UserID 为空表示管理员批量创建的匿名订单；姓名/年级/班级/过敏信息为下单时快照
type Order struct {
	OrderID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"order_id"`
	OrderDate   time.Time `gorm:"type:date;not null"                             json:"order_date"`
	UserID      *string   `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	StudentName string    `gorm:"type:varchar(100);not null"                     json:"student_name"`
	Grade       *int      `gorm:"type:int"                                       json:"grade,omitempty"`
	Section     string    `gorm:"type:varchar(10);not null;default:''"           json:"section"`
	Allergies   string    `gorm:"type:text;not null;default:''"                  json:"allergies"`
	Status      string    `gorm:"type:varchar(20);not null;default:'confirmed'"  json:"status"` // confirmed | pending
	IsBatch     bool      `gorm:"not null;default:false"                         json:"is_batch"`
	SubmittedAt time.Time `gorm:"not null"                                       json:"submitted_at"`
	BaseModel

	// 关联
	Items []OrderItem `gorm:"foreignKey:OrderID;references:OrderID" json:"items,omitempty"`
}

// TableName 指定表名
func (Order) TableName() string { return "orders" }

// Selections 订单条目转换为选择列表
func (o *Order) Selections() SelectionList {
	out := make(SelectionList, 0, len(o.Items))
	for _, it := range o.Items {
		out = append(out, SelectionItem{CategoryID: it.CategoryID, RecipeID: it.RecipeID})
	}
	return out
}

// OrderItem 订单条目表 — 对应 order_items
type OrderItem struct {
	OrderItemID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"order_item_id"`
	OrderID     string `gorm:"type:uuid;not null"                             json:"order_id"`
	CategoryID  string `gorm:"type:varchar(60);not null"                      json:"category_id"`
	RecipeID    string `gorm:"type:uuid;not null"                             json:"recipe_id"`

	// 关联
	Recipe *Recipe `gorm:"foreignKey:RecipeID;references:RecipeID" json:"recipe,omitempty"`
}

// TableName 指定表名
func (OrderItem) TableName() string { return "order_items" }

// RecurringPreference 每周固定偏好表 — 对应 recurring_preferences（user_id + day_of_week 联合主键）
type RecurringPreference struct {
	UserID    string        `gorm:"type:uuid;primaryKey"       json:"user_id"`
	DayOfWeek int           `gorm:"type:smallint;primaryKey"   json:"day_of_week"` // 0=周日 ... 6=周六
	Items     SelectionList `gorm:"type:jsonb;not null"        json:"items"`
	BaseModel
}

// TableName 指定表名
func (RecurringPreference) TableName() string { return "recurring_preferences" }
