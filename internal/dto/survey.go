package dto

// ── 满意度调查 DTO ──

// CreateSurveyRequest 创建调查请求
type CreateSurveyRequest struct {
	Title     string `json:"title"      binding:"required,min=3,max=200"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date"   binding:"required"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateSurveyRequest 更新调查请求
type UpdateSurveyRequest struct {
	Title     *string `json:"title"      binding:"omitempty,min=3,max=200"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	IsActive  *bool   `json:"is_active"`
}

// SurveyResponse 调查定义响应
type SurveyResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// OpenSurveyResponse 用户可填写的调查
type OpenSurveyResponse struct {
	SurveyResponse
	Responded bool `json:"responded"`
}

// SubmitSurveyRequest 提交答卷请求
type SubmitSurveyRequest struct {
	QualityRating  int    `json:"quality_rating"  binding:"required,min=1,max=5"`
	QuantityRating int    `json:"quantity_rating" binding:"required,min=1,max=5"`
	Type           string `json:"type"            binding:"required,oneof=suggestion complaint claim congratulation"`
	Comment        string `json:"comment"         binding:"omitempty,max=2000"`
}

// ReplySurveyRequest 管理员回复请求
type ReplySurveyRequest struct {
	Response string `json:"response" binding:"required,min=2,max=2000"`
}

// SurveyAnswerResponse 答卷响应
type SurveyAnswerResponse struct {
	ID             string `json:"id"`
	SurveyID       string `json:"survey_id"`
	UserID         string `json:"user_id"`
	UserName       string `json:"user_name"`
	UserRole       string `json:"user_role"`
	QualityRating  int    `json:"quality_rating"`
	QuantityRating int    `json:"quantity_rating"`
	Type           string `json:"type"`
	Comment        string `json:"comment"`
	AdminResponse  string `json:"admin_response,omitempty"`
	Status         string `json:"status"`
	SubmittedAt    string `json:"submitted_at"`
}

// SurveyResultsResponse 答卷列表及平均分
type SurveyResultsResponse struct {
	Responses       []SurveyAnswerResponse `json:"responses"`
	Total           int                    `json:"total"`
	AverageQuality  float64                `json:"average_quality"`
	AverageQuantity float64                `json:"average_quantity"`
}
