package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
)

// ── 公告模块业务错误 ──

var (
	ErrNotificationNotFound    = errors.New("公告不存在")
	ErrNotificationPastDate    = errors.New("公告日期不能早于今天")
	ErrNotificationInvalidType = errors.New("公告类型无效")
	ErrNotificationInvalidRole = errors.New("公告目标人群无效")
)

// NotificationService 系统公告业务接口
type NotificationService interface {
	List(ctx context.Context) ([]dto.NotificationResponse, error)
	Create(ctx context.Context, callerID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	Delete(ctx context.Context, id string) error
	// Active 当前用户可见的横幅
	Active(ctx context.Context, userID, role string) ([]dto.NotificationResponse, error)
	Dismiss(ctx context.Context, userID, id string) error
}

type notificationService struct {
	repo   *repository.Repository
	clock  *Clock
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, clock *Clock, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, clock: clock, logger: logger}
}

func (s *notificationService) List(ctx context.Context) ([]dto.NotificationResponse, error) {
	list, err := s.repo.Notification.List(ctx)
	if err != nil {
		s.logger.Error("查询公告列表失败", zap.Error(err))
		return nil, err
	}
	return toNotificationResponses(list), nil
}

func (s *notificationService) Create(ctx context.Context, callerID string, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if date.Before(s.clock.Today()) {
		return nil, ErrNotificationPastDate
	}
	switch req.Type {
	case model.NotificationTypeInfo, model.NotificationTypeAlert, model.NotificationTypeSuccess:
	default:
		return nil, ErrNotificationInvalidType
	}
	switch req.TargetRole {
	case model.NotificationTargetAll, model.NotificationTargetStudent, model.NotificationTargetStaff:
	default:
		return nil, ErrNotificationInvalidRole
	}

	n := &model.SystemNotification{
		NotifyDate:      date,
		Message:         req.Message,
		OriginalMessage: req.OriginalMessage,
		Type:            req.Type,
		TargetRole:      req.TargetRole,
	}
	if callerID != "" {
		n.CreatedBy = &callerID
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Error("创建公告失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("公告已发布",
		zap.String("notification_id", n.NotificationID),
		zap.String("date", formatDate(date)),
		zap.String("target", n.TargetRole),
	)
	resp := toNotificationResponse(n)
	return &resp, nil
}

func (s *notificationService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Notification.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("删除公告失败", zap.String("notification_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) Active(ctx context.Context, userID, role string) ([]dto.NotificationResponse, error) {
	list, err := s.repo.Notification.ListActive(ctx, s.clock.Today(), role, userID)
	if err != nil {
		s.logger.Error("查询有效公告失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return toNotificationResponses(list), nil
}

func (s *notificationService) Dismiss(ctx context.Context, userID, id string) error {
	if _, err := s.repo.Notification.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return s.repo.Notification.Dismiss(ctx, &model.NotificationDismissal{
		NotificationID: id,
		UserID:         userID,
		DismissedAt:    s.clock.Now(),
	})
}

func toNotificationResponse(n *model.SystemNotification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:              n.NotificationID,
		Date:            formatDate(n.NotifyDate),
		Message:         n.Message,
		OriginalMessage: n.OriginalMessage,
		Type:            n.Type,
		TargetRole:      n.TargetRole,
		CreatedAt:       formatTime(n.CreatedAt),
	}
}

func toNotificationResponses(list []model.SystemNotification) []dto.NotificationResponse {
	out := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, toNotificationResponse(&list[i]))
	}
	return out
}
