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

var (
	ErrPreferenceNotFound = errors.New("该日期没有保存偏好")
	ErrInvalidDayOfWeek   = errors.New("星期取值应为 0-6（0=周日）")
)

// PreferenceService 每周固定偏好业务接口
type PreferenceService interface {
	List(ctx context.Context, userID string) ([]dto.PreferenceResponse, error)
	Save(ctx context.Context, userID string, dayOfWeek int, req *dto.SavePreferenceRequest) (*dto.PreferenceResponse, error)
	Delete(ctx context.Context, userID string, dayOfWeek int) error
}

type preferenceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPreferenceService 创建 PreferenceService 实例
func NewPreferenceService(repo *repository.Repository, logger *zap.Logger) PreferenceService {
	return &preferenceService{repo: repo, logger: logger}
}

func (s *preferenceService) List(ctx context.Context, userID string) ([]dto.PreferenceResponse, error) {
	prefs, err := s.repo.Preference.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询偏好列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.PreferenceResponse, 0, len(prefs))
	for _, p := range prefs {
		result = append(result, dto.PreferenceResponse{DayOfWeek: p.DayOfWeek, Items: toSelections(p.Items)})
	}
	return result, nil
}

// Save 覆盖某星期几的偏好；同一分类只保留最后一次选择
func (s *preferenceService) Save(ctx context.Context, userID string, dayOfWeek int, req *dto.SavePreferenceRequest) (*dto.PreferenceResponse, error) {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, ErrInvalidDayOfWeek
	}

	index := make(map[string]int, len(req.Items))
	var items model.SelectionList
	for _, it := range req.Items {
		if i, ok := index[it.CategoryID]; ok {
			items[i].RecipeID = it.RecipeID
			continue
		}
		index[it.CategoryID] = len(items)
		items = append(items, model.SelectionItem{CategoryID: it.CategoryID, RecipeID: it.RecipeID})
	}

	pref := &model.RecurringPreference{UserID: userID, DayOfWeek: dayOfWeek, Items: items}
	if err := s.repo.Preference.Save(ctx, pref); err != nil {
		s.logger.Error("保存偏好失败", zap.String("user_id", userID), zap.Int("day", dayOfWeek), zap.Error(err))
		return nil, err
	}
	return &dto.PreferenceResponse{DayOfWeek: dayOfWeek, Items: toSelections(items)}, nil
}

func (s *preferenceService) Delete(ctx context.Context, userID string, dayOfWeek int) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ErrInvalidDayOfWeek
	}
	if err := s.repo.Preference.Delete(ctx, userID, dayOfWeek); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPreferenceNotFound
		}
		s.logger.Error("删除偏好失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}
