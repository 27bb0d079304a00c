package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/model"
)

// SurveyRepository 满意度调查数据访问接口
type SurveyRepository interface {
	ListDefinitions(ctx context.Context) ([]model.SurveyDefinition, error)
	GetDefinition(ctx context.Context, id string) (*model.SurveyDefinition, error)
	CreateDefinition(ctx context.Context, s *model.SurveyDefinition) error
	UpdateDefinition(ctx context.Context, s *model.SurveyDefinition) error
	DeleteDefinition(ctx context.Context, id string) error

	ListResponses(ctx context.Context, surveyID string) ([]model.SurveyResponse, error)
	GetResponse(ctx context.Context, id string) (*model.SurveyResponse, error)
	CreateResponse(ctx context.Context, resp *model.SurveyResponse) error
	UpdateResponse(ctx context.Context, resp *model.SurveyResponse) error
	HasResponded(ctx context.Context, surveyID, userID string) (bool, error)
	ListRespondedSurveyIDs(ctx context.Context, userID string) ([]string, error)
}

type surveyRepo struct {
	db *gorm.DB
}

// NewSurveyRepo 创建 SurveyRepository 实例
func NewSurveyRepo(db *gorm.DB) SurveyRepository {
	return &surveyRepo{db: db}
}

func (r *surveyRepo) ListDefinitions(ctx context.Context) ([]model.SurveyDefinition, error) {
	var list []model.SurveyDefinition
	err := r.db.WithContext(ctx).
		Order("start_date DESC, created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *surveyRepo) GetDefinition(ctx context.Context, id string) (*model.SurveyDefinition, error) {
	var s model.SurveyDefinition
	if err := r.db.WithContext(ctx).Where("survey_id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *surveyRepo) CreateDefinition(ctx context.Context, s *model.SurveyDefinition) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *surveyRepo) UpdateDefinition(ctx context.Context, s *model.SurveyDefinition) error {
	return r.db.WithContext(ctx).
		Model(&model.SurveyDefinition{}).
		Where("survey_id = ?", s.SurveyID).
		Updates(map[string]interface{}{
			"title":      s.Title,
			"start_date": s.StartDate,
			"end_date":   s.EndDate,
			"is_active":  s.IsActive,
		}).Error
}

// DeleteDefinition 答卷经外键 ON DELETE CASCADE 一并删除
func (r *surveyRepo) DeleteDefinition(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("survey_id = ?", id).Delete(&model.SurveyDefinition{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListResponses surveyID 为空时返回全部答卷，提交时间倒序
func (r *surveyRepo) ListResponses(ctx context.Context, surveyID string) ([]model.SurveyResponse, error) {
	var list []model.SurveyResponse
	db := r.db.WithContext(ctx)
	if surveyID != "" {
		db = db.Where("survey_id = ?", surveyID)
	}
	err := db.Order("submitted_at DESC").Find(&list).Error
	return list, err
}

func (r *surveyRepo) GetResponse(ctx context.Context, id string) (*model.SurveyResponse, error) {
	var resp model.SurveyResponse
	if err := r.db.WithContext(ctx).Where("response_id = ?", id).First(&resp).Error; err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *surveyRepo) CreateResponse(ctx context.Context, resp *model.SurveyResponse) error {
	return r.db.WithContext(ctx).Create(resp).Error
}

func (r *surveyRepo) UpdateResponse(ctx context.Context, resp *model.SurveyResponse) error {
	return r.db.WithContext(ctx).
		Model(&model.SurveyResponse{}).
		Where("response_id = ?", resp.ResponseID).
		Updates(map[string]interface{}{
			"admin_response": resp.AdminResponse,
			"status":         resp.Status,
			"responded_at":   resp.RespondedAt,
		}).Error
}

func (r *surveyRepo) HasResponded(ctx context.Context, surveyID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.SurveyResponse{}).
		Where("survey_id = ? AND user_id = ?", surveyID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *surveyRepo) ListRespondedSurveyIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.SurveyResponse{}).
		Where("user_id = ?", userID).
		Pluck("survey_id", &ids).Error
	return ids, err
}
