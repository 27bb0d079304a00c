package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/anubclao/Edueat/config"
	"github.com/anubclao/Edueat/pkg/metrics"
)

// ErrEmptyResponse 模型未返回任何文本
var ErrEmptyResponse = errors.New("AI 未返回内容")

// Client Gemini 生成式 AI 客户端封装
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient 创建 Gemini 客户端；未配置 API Key 时返回 nil, nil（调用方按“AI 不可用”处理）
func NewClient(ctx context.Context, cfg *config.AIConfig, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	logger.Info("Gemini 客户端已初始化", zap.String("model", cfg.Model))

	return &Client{client: client, model: cfg.Model, timeout: timeout, logger: logger}, nil
}

// GenerateText 生成纯文本
func (c *Client) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	})
	if err != nil {
		metrics.AICalls.WithLabelValues("text", "error").Inc()
		return "", fmt.Errorf("Gemini 生成失败: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		metrics.AICalls.WithLabelValues("text", "empty").Inc()
		return "", ErrEmptyResponse
	}
	metrics.AICalls.WithLabelValues("text", "ok").Inc()
	return text, nil
}

// GenerateJSON 按 schema 约束生成 JSON 并解码到 out
func (c *Client) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		metrics.AICalls.WithLabelValues("json", "error").Inc()
		return fmt.Errorf("Gemini 生成失败: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		metrics.AICalls.WithLabelValues("json", "empty").Inc()
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		metrics.AICalls.WithLabelValues("json", "invalid").Inc()
		return fmt.Errorf("解析 Gemini JSON 响应失败: %w", err)
	}
	metrics.AICalls.WithLabelValues("json", "ok").Inc()
	return nil
}
