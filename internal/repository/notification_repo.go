package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anubclao/Edueat/internal/model"
)

// NotificationRepository 系统公告数据访问接口
type NotificationRepository interface {
	List(ctx context.Context) ([]model.SystemNotification, error)
	GetByID(ctx context.Context, id string) (*model.SystemNotification, error)
	Create(ctx context.Context, n *model.SystemNotification) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context, from time.Time, role, userID string) ([]model.SystemNotification, error)
	Dismiss(ctx context.Context, d *model.NotificationDismissal) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) List(ctx context.Context) ([]model.SystemNotification, error) {
	var list []model.SystemNotification
	err := r.db.WithContext(ctx).
		Order("notify_date DESC, created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*model.SystemNotification, error) {
	var n model.SystemNotification
	if err := r.db.WithContext(ctx).Where("notification_id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) Create(ctx context.Context, n *model.SystemNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("notification_id = ?", id).Delete(&model.SystemNotification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListActive 日期不早于 from、面向全体或该角色、且用户未关闭的公告
func (r *notificationRepo) ListActive(ctx context.Context, from time.Time, role, userID string) ([]model.SystemNotification, error) {
	var list []model.SystemNotification
	err := r.db.WithContext(ctx).
		Where("notify_date >= ?", from).
		Where("target_role = ? OR target_role = ?", model.NotificationTargetAll, role).
		Where("NOT EXISTS (SELECT 1 FROM notification_dismissals d WHERE d.notification_id = system_notifications.notification_id AND d.user_id = ?)", userID).
		Order("notify_date ASC, created_at DESC").
		Find(&list).Error
	return list, err
}

// Dismiss 重复关闭视为成功
func (r *notificationRepo) Dismiss(ctx context.Context, d *model.NotificationDismissal) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(d).Error
}
