package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	"github.com/anubclao/Edueat/config"
	"github.com/anubclao/Edueat/pkg/metrics"
)

// Message 待发送邮件
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer 邮件发送接口
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New 根据 mail.driver 创建邮件发送器
func New(ctx context.Context, cfg *config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Driver {
	case "ses":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("加载 AWS 配置失败: %w", err)
		}
		return NewSESMailer(ses.NewFromConfig(awsCfg), cfg, logger), nil
	default:
		return NewLogMailer(logger), nil
	}
}

// ── 日志驱动 ──

// LogMailer 仅将邮件写入日志（开发环境）
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer 创建日志驱动
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send 输出邮件内容到日志
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("邮件（log 驱动，未实际发送）",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	metrics.EmailsSent.WithLabelValues("log", "ok").Inc()
	return nil
}

// ── SES 驱动 ──

// SESAPI SES 客户端的最小接口，便于测试替换
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer 通过 AWS SES 发送邮件
type SESMailer struct {
	client SESAPI
	source string
	logger *zap.Logger
}

// NewSESMailer 创建 SES 驱动
func NewSESMailer(client SESAPI, cfg *config.MailConfig, logger *zap.Logger) *SESMailer {
	source := cfg.From
	if cfg.FromName != "" {
		source = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From)
	}
	return &SESMailer{client: client, source: source, logger: logger}
}

// Send 调用 SES SendEmail
func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	body := &types.Body{
		Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
	}
	if msg.HTML != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")}
	}

	out, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
		Source: aws.String(m.source),
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues("ses", "error").Inc()
		return fmt.Errorf("SES 发送邮件失败: %w", err)
	}

	metrics.EmailsSent.WithLabelValues("ses", "ok").Inc()
	m.logger.Debug("邮件已发送", zap.String("to", msg.To), zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
