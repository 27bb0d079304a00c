package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
)

// ── 满意度调查业务错误 ──

var (
	ErrSurveyNotFound         = errors.New("调查不存在")
	ErrSurveyClosed           = errors.New("调查未开放")
	ErrSurveyAlreadyAnswered  = errors.New("已提交过该调查")
	ErrSurveyInvalidRating    = errors.New("评分必须在 1-5 之间")
	ErrSurveyInvalidType      = errors.New("反馈类型无效")
	ErrSurveyResponseNotFound = errors.New("答卷不存在")
)

// SurveyService 满意度调查业务接口
type SurveyService interface {
	// ── 管理端 ──
	ListDefinitions(ctx context.Context) ([]dto.SurveyResponse, error)
	CreateDefinition(ctx context.Context, req *dto.CreateSurveyRequest) (*dto.SurveyResponse, error)
	UpdateDefinition(ctx context.Context, id string, req *dto.UpdateSurveyRequest) (*dto.SurveyResponse, error)
	DeleteDefinition(ctx context.Context, id string) error
	Results(ctx context.Context, surveyID string) (*dto.SurveyResultsResponse, error)
	Reply(ctx context.Context, responseID string, req *dto.ReplySurveyRequest) (*dto.SurveyAnswerResponse, error)

	// ── 用户端 ──
	ListOpen(ctx context.Context, userID string) ([]dto.OpenSurveyResponse, error)
	Submit(ctx context.Context, surveyID, userID string, req *dto.SubmitSurveyRequest) (*dto.SurveyAnswerResponse, error)
}

type surveyService struct {
	repo   *repository.Repository
	clock  *Clock
	logger *zap.Logger
}

// NewSurveyService 创建 SurveyService 实例
func NewSurveyService(repo *repository.Repository, clock *Clock, logger *zap.Logger) SurveyService {
	return &surveyService{repo: repo, clock: clock, logger: logger}
}

// ── 管理端 ──

func (s *surveyService) ListDefinitions(ctx context.Context) ([]dto.SurveyResponse, error) {
	list, err := s.repo.Survey.ListDefinitions(ctx)
	if err != nil {
		s.logger.Error("查询调查列表失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.SurveyResponse, 0, len(list))
	for i := range list {
		out = append(out, toSurveyResponse(&list[i]))
	}
	return out, nil
}

func (s *surveyService) CreateDefinition(ctx context.Context, req *dto.CreateSurveyRequest) (*dto.SurveyResponse, error) {
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	def := &model.SurveyDefinition{
		Title:     req.Title,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
	if req.IsActive != nil {
		def.IsActive = *req.IsActive
	}
	if err := s.repo.Survey.CreateDefinition(ctx, def); err != nil {
		s.logger.Error("创建调查失败", zap.Error(err))
		return nil, err
	}
	resp := toSurveyResponse(def)
	return &resp, nil
}

func (s *surveyService) UpdateDefinition(ctx context.Context, id string, req *dto.UpdateSurveyRequest) (*dto.SurveyResponse, error) {
	def, err := s.repo.Survey.GetDefinition(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		def.Title = *req.Title
	}
	startStr, endStr := formatDate(def.StartDate), formatDate(def.EndDate)
	if req.StartDate != nil {
		startStr = *req.StartDate
	}
	if req.EndDate != nil {
		endStr = *req.EndDate
	}
	if def.StartDate, def.EndDate, err = parseRange(startStr, endStr); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		def.IsActive = *req.IsActive
	}

	if err := s.repo.Survey.UpdateDefinition(ctx, def); err != nil {
		s.logger.Error("更新调查失败", zap.String("survey_id", id), zap.Error(err))
		return nil, err
	}
	resp := toSurveyResponse(def)
	return &resp, nil
}

func (s *surveyService) DeleteDefinition(ctx context.Context, id string) error {
	if err := s.repo.Survey.DeleteDefinition(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSurveyNotFound
		}
		s.logger.Error("删除调查失败", zap.String("survey_id", id), zap.Error(err))
		return err
	}
	return nil
}

// Results surveyID 为空时汇总全部答卷
func (s *surveyService) Results(ctx context.Context, surveyID string) (*dto.SurveyResultsResponse, error) {
	if surveyID != "" {
		if _, err := s.repo.Survey.GetDefinition(ctx, surveyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSurveyNotFound
			}
			return nil, err
		}
	}
	list, err := s.repo.Survey.ListResponses(ctx, surveyID)
	if err != nil {
		s.logger.Error("查询答卷失败", zap.String("survey_id", surveyID), zap.Error(err))
		return nil, err
	}

	resp := &dto.SurveyResultsResponse{
		Responses: make([]dto.SurveyAnswerResponse, 0, len(list)),
		Total:     len(list),
	}
	var quality, quantity int
	for i := range list {
		quality += list[i].QualityRating
		quantity += list[i].QuantityRating
		resp.Responses = append(resp.Responses, toSurveyAnswerResponse(&list[i]))
	}
	if len(list) > 0 {
		resp.AverageQuality = roundOneDecimal(float64(quality) / float64(len(list)))
		resp.AverageQuantity = roundOneDecimal(float64(quantity) / float64(len(list)))
	}
	return resp, nil
}

func (s *surveyService) Reply(ctx context.Context, responseID string, req *dto.ReplySurveyRequest) (*dto.SurveyAnswerResponse, error) {
	answer, err := s.repo.Survey.GetResponse(ctx, responseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyResponseNotFound
		}
		return nil, err
	}

	now := s.clock.Now()
	answer.AdminResponse = req.Response
	answer.Status = model.ResponseStatusResolved
	answer.RespondedAt = &now
	if err := s.repo.Survey.UpdateResponse(ctx, answer); err != nil {
		s.logger.Error("回复答卷失败", zap.String("response_id", responseID), zap.Error(err))
		return nil, err
	}
	resp := toSurveyAnswerResponse(answer)
	return &resp, nil
}

// ── 用户端 ──

// ListOpen 已启用且今天位于 [start, end] 内的调查
func (s *surveyService) ListOpen(ctx context.Context, userID string) ([]dto.OpenSurveyResponse, error) {
	list, err := s.repo.Survey.ListDefinitions(ctx)
	if err != nil {
		s.logger.Error("查询调查列表失败", zap.Error(err))
		return nil, err
	}
	ids, err := s.repo.Survey.ListRespondedSurveyIDs(ctx, userID)
	if err != nil {
		s.logger.Error("查询已答调查失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	responded := make(map[string]bool, len(ids))
	for _, id := range ids {
		responded[id] = true
	}

	out := []dto.OpenSurveyResponse{}
	for i := range list {
		if !s.isOpen(&list[i]) {
			continue
		}
		out = append(out, dto.OpenSurveyResponse{
			SurveyResponse: toSurveyResponse(&list[i]),
			Responded:      responded[list[i].SurveyID],
		})
	}
	return out, nil
}

func (s *surveyService) Submit(ctx context.Context, surveyID, userID string, req *dto.SubmitSurveyRequest) (*dto.SurveyAnswerResponse, error) {
	if !validRating(req.QualityRating) || !validRating(req.QuantityRating) {
		return nil, ErrSurveyInvalidRating
	}
	switch req.Type {
	case model.FeedbackSuggestion, model.FeedbackComplaint, model.FeedbackClaim, model.FeedbackCongratulation:
	default:
		return nil, ErrSurveyInvalidType
	}

	def, err := s.repo.Survey.GetDefinition(ctx, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	if !s.isOpen(def) {
		return nil, ErrSurveyClosed
	}

	done, err := s.repo.Survey.HasResponded(ctx, surveyID, userID)
	if err != nil {
		return nil, err
	}
	if done {
		return nil, ErrSurveyAlreadyAnswered
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	answer := &model.SurveyResponse{
		SurveyID:       surveyID,
		UserID:         userID,
		UserName:       user.Name,
		UserRole:       user.Role,
		QualityRating:  req.QualityRating,
		QuantityRating: req.QuantityRating,
		Type:           req.Type,
		Comment:        req.Comment,
		Status:         model.ResponseStatusPending,
		SubmittedAt:    s.clock.Now(),
	}
	if err := s.repo.Survey.CreateResponse(ctx, answer); err != nil {
		s.logger.Error("提交答卷失败", zap.String("survey_id", surveyID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("收到调查答卷",
		zap.String("survey_id", surveyID),
		zap.String("user_id", userID),
		zap.String("type", req.Type),
	)
	resp := toSurveyAnswerResponse(answer)
	return &resp, nil
}

// ── 辅助函数 ──

func (s *surveyService) isOpen(def *model.SurveyDefinition) bool {
	today := s.clock.Today()
	return def.IsActive && !today.Before(def.StartDate) && !today.After(def.EndDate)
}

func validRating(r int) bool { return r >= 1 && r <= 5 }

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}

func toSurveyResponse(def *model.SurveyDefinition) dto.SurveyResponse {
	return dto.SurveyResponse{
		ID:        def.SurveyID,
		Title:     def.Title,
		StartDate: formatDate(def.StartDate),
		EndDate:   formatDate(def.EndDate),
		IsActive:  def.IsActive,
		CreatedAt: formatTime(def.CreatedAt),
	}
}

func toSurveyAnswerResponse(r *model.SurveyResponse) dto.SurveyAnswerResponse {
	return dto.SurveyAnswerResponse{
		ID:             r.ResponseID,
		SurveyID:       r.SurveyID,
		UserID:         r.UserID,
		UserName:       r.UserName,
		UserRole:       r.UserRole,
		QualityRating:  r.QualityRating,
		QuantityRating: r.QuantityRating,
		Type:           r.Type,
		Comment:        r.Comment,
		AdminResponse:  r.AdminResponse,
		Status:         r.Status,
		SubmittedAt:    formatTime(r.SubmittedAt),
	}
}
