package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
)

func setupTestNotificationService() (NotificationService, *mockRepos) {
	repos := newMockRepos()
	return NewNotificationService(repos.repo, testClock(), zap.NewNop()), repos
}

func newNotificationRequest(date, target string) *dto.CreateNotificationRequest {
	return &dto.CreateNotificationRequest{
		Date:       date,
		Message:    "Mañana no hay servicio de casino",
		Type:       model.NotificationTypeAlert,
		TargetRole: target,
	}
}

func TestCreateNotification(t *testing.T) {
	svc, repos := setupTestNotificationService()

	resp, err := svc.Create(context.Background(), "admin-1", newNotificationRequest("2026-03-10", model.NotificationTargetAll))
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	stored := repos.notifications.items[resp.ID]
	if stored == nil || stored.CreatedBy == nil || *stored.CreatedBy != "admin-1" {
		t.Error("应记录发布人")
	}
}

func TestCreateNotification_Validation(t *testing.T) {
	svc, _ := setupTestNotificationService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", newNotificationRequest("2026-03-09", model.NotificationTargetAll)); !errors.Is(err, ErrNotificationPastDate) {
		t.Errorf("期望 ErrNotificationPastDate，实际: %v", err)
	}
	if _, err := svc.Create(ctx, "", newNotificationRequest("2026-03-12", "parents")); !errors.Is(err, ErrNotificationInvalidRole) {
		t.Errorf("期望 ErrNotificationInvalidRole，实际: %v", err)
	}
	req := newNotificationRequest("2026-03-12", model.NotificationTargetAll)
	req.Type = "urgent"
	if _, err := svc.Create(ctx, "", req); !errors.Is(err, ErrNotificationInvalidType) {
		t.Errorf("期望 ErrNotificationInvalidType，实际: %v", err)
	}
}

func TestActiveNotifications_TargetAndDismiss(t *testing.T) {
	svc, _ := setupTestNotificationService()
	ctx := context.Background()

	all, _ := svc.Create(ctx, "", newNotificationRequest("2026-03-10", model.NotificationTargetAll))
	_, _ = svc.Create(ctx, "", newNotificationRequest("2026-03-11", model.NotificationTargetStudent))
	_, _ = svc.Create(ctx, "", newNotificationRequest("2026-03-11", model.NotificationTargetStaff))

	list, err := svc.Active(ctx, "u-stu", model.RoleStudent)
	if err != nil {
		t.Fatalf("Active 应成功: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("学生应看到 2 条公告，实际 %d", len(list))
	}
	if list[0].ID != all.ID {
		t.Error("公告应按日期升序")
	}

	if err := svc.Dismiss(ctx, "u-stu", all.ID); err != nil {
		t.Fatalf("Dismiss 应成功: %v", err)
	}
	list, _ = svc.Active(ctx, "u-stu", model.RoleStudent)
	if len(list) != 1 {
		t.Errorf("关闭后应剩 1 条，实际 %d", len(list))
	}

	other, _ := svc.Active(ctx, "u-staff", model.RoleStaff)
	if len(other) != 2 {
		t.Errorf("关闭仅对本人生效，staff 期望 2 条，实际 %d", len(other))
	}

	if err := svc.Dismiss(ctx, "u-stu", "ghost"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("期望 ErrNotificationNotFound，实际: %v", err)
	}
}

func TestDeleteNotification(t *testing.T) {
	svc, _ := setupTestNotificationService()
	ctx := context.Background()

	n, _ := svc.Create(ctx, "", newNotificationRequest("2026-03-12", model.NotificationTargetAll))
	if err := svc.Delete(ctx, n.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if err := svc.Delete(ctx, n.ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("期望 ErrNotificationNotFound，实际: %v", err)
	}
	list, _ := svc.List(ctx)
	if len(list) != 0 {
		t.Errorf("删除后列表应为空，实际 %d", len(list))
	}
}
