package model

// 系统内置角色
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleStaff   = "staff"
	RoleVisitor = "visitor"
)

// SystemRoles 系统角色，不可删除
var SystemRoles = []string{RoleAdmin, RoleStudent, RoleTeacher, RoleStaff, RoleVisitor}

// IsSystemRole 判断是否为系统角色
func IsSystemRole(roleID string) bool {
	for _, r := range SystemRoles {
		if r == roleID {
			return true
		}
	}
	return false
}

// Role 角色表 — 对应 roles
type Role struct {
	RoleID      string `gorm:"type:varchar(50);primaryKey"    json:"role_id"`
	Name        string `gorm:"type:varchar(100);not null"     json:"name"`
	Description string `gorm:"type:varchar(500);not null"     json:"description"`
	IsSystem    bool   `gorm:"not null;default:false"         json:"is_system"`
	BaseModel
}

// TableName 指定表名
func (Role) TableName() string { return "roles" }
