package model

import "time"

// 反馈类型
const (
	FeedbackSuggestion     = "suggestion"
	FeedbackComplaint      = "complaint"
	FeedbackClaim          = "claim"
	FeedbackCongratulation = "congratulation"
)

// 反馈处理状态
const (
	ResponseStatusPending  = "pending"
	ResponseStatusResolved = "resolved"
)

// SurveyDefinition 满意度调查定义表 — 对应 survey_definitions
type SurveyDefinition struct {
	SurveyID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"survey_id"`
	Title     string    `gorm:"type:varchar(200);not null"                     json:"title"`
	StartDate time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsActive  bool      `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (SurveyDefinition) TableName() string { return "survey_definitions" }

// SurveyResponse 调查答卷表 — 对应 survey_responses（每人每份调查仅一份）
type SurveyResponse struct {
	ResponseID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"response_id"`
	SurveyID       string     `gorm:"type:uuid;not null"                             json:"survey_id"`
	UserID         string     `gorm:"type:uuid;not null"                             json:"user_id"`
	UserName       string     `gorm:"type:varchar(100);not null"                     json:"user_name"`
	UserRole       string     `gorm:"type:varchar(50);not null"                      json:"user_role"`
	QualityRating  int        `gorm:"type:smallint;not null"                         json:"quality_rating"`
	QuantityRating int        `gorm:"type:smallint;not null"                         json:"quantity_rating"`
	Type           string     `gorm:"type:varchar(20);not null"                      json:"type"` // suggestion | complaint | claim | congratulation
	Comment        string     `gorm:"type:text;not null;default:''"                  json:"comment"`
	AdminResponse  string     `gorm:"type:text;not null;default:''"                  json:"admin_response,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | resolved
	SubmittedAt    time.Time  `gorm:"not null"                                       json:"submitted_at"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
}

// TableName 指定表名
func (SurveyResponse) TableName() string { return "survey_responses" }
