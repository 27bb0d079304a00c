package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/model"
)

// RoleRepository 角色数据访问接口
type RoleRepository interface {
	List(ctx context.Context) ([]model.Role, error)
	GetByID(ctx context.Context, id string) (*model.Role, error)
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, id string) error
	CountUsers(ctx context.Context, id string) (int64, error)
}

type roleRepo struct {
	db *gorm.DB
}

// NewRoleRepo 创建 RoleRepository 实例
func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).
		Order("is_system DESC, name ASC").
		Find(&roles).Error
	return roles, err
}

func (r *roleRepo) GetByID(ctx context.Context, id string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("role_id = ?", id).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepo) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).
		Model(&model.Role{}).
		Where("role_id = ?", role.RoleID).
		Updates(map[string]interface{}{
			"name":        role.Name,
			"description": role.Description,
		}).Error
}

func (r *roleRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("role_id = ? AND is_system = false", id).
		Delete(&model.Role{}).Error
}

// CountUsers 统计持有该角色的用户数（含已软删除用户，外键仍引用）
func (r *roleRepo) CountUsers(ctx context.Context, id string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().
		Model(&model.User{}).
		Where("role = ?", id).
		Count(&n).Error
	return n, err
}
