package model

import "time"

// 公告类型
const (
	NotificationTypeInfo    = "info"
	NotificationTypeAlert   = "alert"
	NotificationTypeSuccess = "success"
)

// 公告目标人群
const (
	NotificationTargetAll     = "all"
	NotificationTargetStudent = "student"
	NotificationTargetStaff   = "staff"
)

// SystemNotification 系统公告横幅表 — 对应 system_notifications
type SystemNotification struct {
	NotificationID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	NotifyDate      time.Time `gorm:"type:date;not null"                             json:"notify_date"`
	Message         string    `gorm:"type:text;not null"                             json:"message"`
	OriginalMessage string    `gorm:"type:text;not null;default:''"                  json:"original_message,omitempty"` // AI 润色前原文
	Type            string    `gorm:"type:varchar(20);not null"                      json:"type"`                       // info | alert | success
	TargetRole      string    `gorm:"type:varchar(20);not null"                      json:"target_role"`                // all | student | staff
	CreatedBy       *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (SystemNotification) TableName() string { return "system_notifications" }

// NotificationDismissal 公告关闭记录表 — 对应 notification_dismissals
type NotificationDismissal struct {
	NotificationID string    `gorm:"type:uuid;primaryKey" json:"notification_id"`
	UserID         string    `gorm:"type:uuid;primaryKey" json:"user_id"`
	DismissedAt    time.Time `gorm:"not null"             json:"dismissed_at"`
}

// TableName 指定表名
func (NotificationDismissal) TableName() string { return "notification_dismissals" }

// [自证通过] internal/model/notification.go
