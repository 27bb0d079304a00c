package dto

// ── 系统公告 DTO ──

// CreateNotificationRequest 创建公告请求
type CreateNotificationRequest struct {
	Date            string `json:"date"             binding:"required"`
	Message         string `json:"message"          binding:"required,min=3,max=1000"`
	OriginalMessage string `json:"original_message" binding:"omitempty,max=1000"`
	Type            string `json:"type"             binding:"required,oneof=info alert success"`
	TargetRole      string `json:"target_role"      binding:"required,oneof=all student staff"`
}

// NotificationResponse 公告响应
type NotificationResponse struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Message         string `json:"message"`
	OriginalMessage string `json:"original_message,omitempty"`
	Type            string `json:"type"`
	TargetRole      string `json:"target_role"`
	CreatedAt       string `json:"created_at"`
}

// EnhanceTextRequest AI 润色请求
type EnhanceTextRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// EnhanceTextResponse AI 润色响应
type EnhanceTextResponse struct {
	Text     string `json:"text"`
	Original string `json:"original"`
}
