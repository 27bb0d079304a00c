package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/anubclao/Edueat/internal/dto"
)

// ── 智能助手业务错误 ──

var (
	ErrAssistantUnavailable  = errors.New("AI 助手未配置")
	ErrAssistantTextTooShort = errors.New("待润色文本过短")
)

const minEnhanceTextLen = 3

// Generator 生成式 AI 能力，*ai.Client 实现该接口
type Generator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, out interface{}) error
}

// AssistantService 智能助手接口
type AssistantService interface {
	// EnhanceNotification 润色公告草稿；模型出错时原样返回
	EnhanceNotification(ctx context.Context, text string) (*dto.EnhanceTextResponse, error)
	// NutritionalAdvice 根据区间内的营养统计生成建议；模型出错时返回兜底建议
	NutritionalAdvice(ctx context.Context, userID string, req *dto.RangeRequest) (*dto.NutritionAdviceResponse, error)
}

type assistantService struct {
	ai          Generator
	reports     ReportService
	temperature float32
	logger      *zap.Logger
}

// NewAssistantService 创建 AssistantService 实例；ai 为 nil 表示未配置 API Key
func NewAssistantService(ai Generator, reports ReportService, temperature float32, logger *zap.Logger) AssistantService {
	if temperature <= 0 {
		temperature = 0.7
	}
	return &assistantService{ai: ai, reports: reports, temperature: temperature, logger: logger}
}

// adviceSchema 营养建议的响应结构
var adviceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title": {Type: genai.TypeString},
		"text":  {Type: genai.TypeString},
		"score": {Type: genai.TypeInteger},
	},
	Required: []string{"title", "text", "score"},
}

func fallbackAdvice() *dto.NutritionAdviceResponse {
	return &dto.NutritionAdviceResponse{
		Title: "Análisis no disponible",
		Text:  "No pudimos conectar con el experto virtual en este momento.",
		Score: 0,
	}
}

func (s *assistantService) EnhanceNotification(ctx context.Context, text string) (*dto.EnhanceTextResponse, error) {
	original := strings.TrimSpace(text)
	if len([]rune(original)) < minEnhanceTextLen {
		return nil, ErrAssistantTextTooShort
	}
	if s.ai == nil {
		return nil, ErrAssistantUnavailable
	}

	prompt := fmt.Sprintf(
		"Actúa como una secretaria escolar profesional y amable. Reescribe el siguiente anuncio para que sea claro, cordial y breve (máximo 2 oraciones). Mantén la información original intacta: %q",
		original,
	)
	rewritten, err := s.ai.GenerateText(ctx, prompt, s.temperature)
	if err != nil {
		s.logger.Warn("AI 润色失败，返回原文", zap.Error(err))
		return &dto.EnhanceTextResponse{Text: original, Original: original}, nil
	}
	return &dto.EnhanceTextResponse{Text: strings.TrimSpace(rewritten), Original: original}, nil
}

func (s *assistantService) NutritionalAdvice(ctx context.Context, userID string, req *dto.RangeRequest) (*dto.NutritionAdviceResponse, error) {
	stats, err := s.reports.NutritionStats(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if stats.DayCount == 0 {
		return nil, ErrReportNoOrders
	}
	if s.ai == nil {
		return nil, ErrAssistantUnavailable
	}

	data, err := json.Marshal(stats.Days)
	if err != nil {
		return nil, err
	}
	prompt := "Analiza los siguientes datos de almuerzos escolares de un estudiante de los últimos 7 días:\n" +
		string(data) +
		"\n\nProvee un consejo nutricional breve, un título motivador y una puntuación de salud del 1 al 100.\n" +
		"Responde estrictamente en formato JSON."

	var advice dto.NutritionAdviceResponse
	if err := s.ai.GenerateJSON(ctx, prompt, adviceSchema, &advice); err != nil {
		s.logger.Warn("AI 营养分析失败，返回兜底建议", zap.String("user_id", userID), zap.Error(err))
		return fallbackAdvice(), nil
	}
	return &advice, nil
}
