package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
)

var (
	ErrRoleNotFound = errors.New("角色不存在")
	ErrRoleExists   = errors.New("角色 ID 已存在")
	ErrRoleSystem   = errors.New("系统角色不可删除")
	ErrRoleInUse    = errors.New("角色仍被用户使用，无法删除")
)

// RoleService 角色管理业务接口
type RoleService interface {
	List(ctx context.Context) ([]dto.RoleResponse, error)
	Create(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error)
	Delete(ctx context.Context, id string) error
}

type roleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoleService 创建 RoleService 实例
func NewRoleService(repo *repository.Repository, logger *zap.Logger) RoleService {
	return &roleService{repo: repo, logger: logger}
}

func (s *roleService) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.repo.Role.List(ctx)
	if err != nil {
		s.logger.Error("查询角色列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		result = append(result, toRoleResponse(&roles[i]))
	}
	return result, nil
}

// Create 创建自定义角色；未给出 ID 时由名称生成
func (s *roleService) Create(ctx context.Context, req *dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = slugify(req.Name)
	} else {
		id = slugify(id)
	}

	if _, err := s.repo.Role.GetByID(ctx, id); err == nil {
		return nil, ErrRoleExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询角色失败", zap.Error(err))
		return nil, err
	}

	role := &model.Role{
		RoleID:      id,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		IsSystem:    false,
	}
	if err := s.repo.Role.Create(ctx, role); err != nil {
		s.logger.Error("创建角色失败", zap.String("role", id), zap.Error(err))
		return nil, err
	}

	resp := toRoleResponse(role)
	return &resp, nil
}

// Update 仅更新名称和描述，is_system 保持不变
func (s *roleService) Update(ctx context.Context, id string, req *dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return nil, err
	}

	role.Name = strings.TrimSpace(req.Name)
	role.Description = strings.TrimSpace(req.Description)
	if err := s.repo.Role.Update(ctx, role); err != nil {
		s.logger.Error("更新角色失败", zap.String("role", id), zap.Error(err))
		return nil, err
	}

	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) Delete(ctx context.Context, id string) error {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem || model.IsSystemRole(role.RoleID) {
		return ErrRoleSystem
	}

	n, err := s.repo.Role.CountUsers(ctx, id)
	if err != nil {
		s.logger.Error("统计角色用户数失败", zap.String("role", id), zap.Error(err))
		return err
	}
	if n > 0 {
		return ErrRoleInUse
	}

	if err := s.repo.Role.Delete(ctx, id); err != nil {
		s.logger.Error("删除角色失败", zap.String("role", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *roleService) getRole(ctx context.Context, id string) (*model.Role, error) {
	role, err := s.repo.Role.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("查询角色失败", zap.String("role", id), zap.Error(err))
		return nil, err
	}
	return role, nil
}

func toRoleResponse(r *model.Role) dto.RoleResponse {
	return dto.RoleResponse{
		ID:          r.RoleID,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
	}
}
