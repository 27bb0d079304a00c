package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anubclao/Edueat/internal/model"
)

// PreferenceRepository 每周固定偏好数据访问接口
type PreferenceRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.RecurringPreference, error)
	Get(ctx context.Context, userID string, dayOfWeek int) (*model.RecurringPreference, error)
	Save(ctx context.Context, pref *model.RecurringPreference) error
	Delete(ctx context.Context, userID string, dayOfWeek int) error
}

type preferenceRepo struct {
	db *gorm.DB
}

// NewPreferenceRepo 创建 PreferenceRepository 实例
func NewPreferenceRepo(db *gorm.DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

func (r *preferenceRepo) ListByUser(ctx context.Context, userID string) ([]model.RecurringPreference, error) {
	var prefs []model.RecurringPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day_of_week ASC").
		Find(&prefs).Error
	return prefs, err
}

func (r *preferenceRepo) Get(ctx context.Context, userID string, dayOfWeek int) (*model.RecurringPreference, error) {
	var pref model.RecurringPreference
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day_of_week = ?", userID, dayOfWeek).
		First(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// Save 同一用户同一星期几仅保留一条，存在则覆盖
func (r *preferenceRepo) Save(ctx context.Context, pref *model.RecurringPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
		}).
		Create(pref).Error
}

func (r *preferenceRepo) Delete(ctx context.Context, userID string, dayOfWeek int) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND day_of_week = ?", userID, dayOfWeek).
		Delete(&model.RecurringPreference{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
