package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
)

func setupTestRoleService() (RoleService, *mockRepos) {
	repos := newMockRepos()
	return NewRoleService(repos.repo, zap.NewNop()), repos
}

func TestCreateRole_SlugID(t *testing.T) {
	svc, _ := setupTestRoleService()

	resp, err := svc.Create(context.Background(), &dto.CreateRoleRequest{Name: "Cocinero Jefe"})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.ID != "cocinero-jefe" {
		t.Errorf("期望 ID=cocinero-jefe，实际 %s", resp.ID)
	}
	if resp.IsSystem {
		t.Error("自定义角色不应为系统角色")
	}

	if _, err := svc.Create(context.Background(), &dto.CreateRoleRequest{Name: "Cocinero Jefe"}); !errors.Is(err, ErrRoleExists) {
		t.Errorf("期望 ErrRoleExists，实际: %v", err)
	}
}

func TestDeleteRole(t *testing.T) {
	svc, repos := setupTestRoleService()
	ctx := context.Background()

	if err := svc.Delete(ctx, model.RoleStudent); !errors.Is(err, ErrRoleSystem) {
		t.Errorf("系统角色期望 ErrRoleSystem，实际: %v", err)
	}

	_, _ = svc.Create(ctx, &dto.CreateRoleRequest{ID: "chef", Name: "Chef"})
	repos.seedUser("c1", "Chef Uno", "chef", nil)
	if err := svc.Delete(ctx, "chef"); !errors.Is(err, ErrRoleInUse) {
		t.Errorf("有用户时期望 ErrRoleInUse，实际: %v", err)
	}

	delete(repos.users.users, "c1")
	if err := svc.Delete(ctx, "chef"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := svc.Delete(ctx, "chef"); !errors.Is(err, ErrRoleNotFound) {
		t.Errorf("期望 ErrRoleNotFound，实际: %v", err)
	}
}

func TestUpdateRole_KeepsSystemFlag(t *testing.T) {
	svc, _ := setupTestRoleService()

	resp, err := svc.Update(context.Background(), model.RoleTeacher, &dto.UpdateRoleRequest{Name: "Profesor", Description: "Docentes"})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if !resp.IsSystem || resp.Name != "Profesor" {
		t.Errorf("更新后应保留系统标记，实际 %+v", resp)
	}
}
