package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anubclao/Edueat/internal/model"
)

//go:embed default.yaml
var defaultData []byte

// recipeNamespace 菜谱 ID 的 UUIDv5 命名空间，保证重复执行时 ID 稳定
var recipeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://edueats.com/seed/recipes"))

// Data 初始化数据文件结构
type Data struct {
	Roles      []RoleSeed     `yaml:"roles"`
	Categories []CategorySeed `yaml:"categories"`
	Recipes    []RecipeSeed   `yaml:"recipes"`
	Admin      AdminSeed      `yaml:"admin"`
}

// RoleSeed 角色
type RoleSeed struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// CategorySeed 分类；顺序即点餐向导的步骤顺序
type CategorySeed struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// RecipeSeed 菜谱
type RecipeSeed struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Calories    int    `yaml:"calories"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
}

// AdminSeed 超级管理员
type AdminSeed struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Result 本次写入的记录数（已存在的记录不计）
type Result struct {
	Roles      int64
	Categories int64
	Recipes    int64
	Admin      bool
}

// Default 解析内置的初始化数据
func Default() (*Data, error) {
	return Parse(defaultData)
}

// Parse 解析 YAML 并校验
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("解析初始化数据失败: %w", err)
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Validate 校验引用关系与必填字段
func (d *Data) Validate() error {
	roles := make(map[string]bool, len(d.Roles))
	for _, r := range d.Roles {
		if r.ID == "" || r.Name == "" {
			return errors.New("初始化数据无效: 角色 id/name 不能为空")
		}
		roles[r.ID] = true
	}

	categories := make(map[string]bool, len(d.Categories))
	for _, c := range d.Categories {
		if c.ID == "" || c.Name == "" {
			return errors.New("初始化数据无效: 分类 id/name 不能为空")
		}
		if categories[c.ID] {
			return fmt.Errorf("初始化数据无效: 分类 %q 重复", c.ID)
		}
		categories[c.ID] = true
	}

	for _, r := range d.Recipes {
		if r.Name == "" {
			return errors.New("初始化数据无效: 菜谱名称不能为空")
		}
		if !categories[r.Category] {
			return fmt.Errorf("初始化数据无效: 菜谱 %q 引用了不存在的分类 %q", r.Name, r.Category)
		}
		if r.Calories < 0 {
			return fmt.Errorf("初始化数据无效: 菜谱 %q 热量不能为负数", r.Name)
		}
	}

	if d.Admin.Email != "" {
		if !roles[model.RoleAdmin] {
			return errors.New("初始化数据无效: 创建管理员需要 admin 角色")
		}
		if len(d.Admin.Password) < 8 {
			return errors.New("初始化数据无效: 管理员密码不能少于 8 位")
		}
	}
	return nil
}

// RecipeID 菜谱的确定性 ID
func RecipeID(category, name string) string {
	key := category + "/" + strings.ToLower(strings.TrimSpace(name))
	return uuid.NewSHA1(recipeNamespace, []byte(key)).String()
}

// Run 在一个事务内写入初始化数据；已存在的记录保持不变，可重复执行
func Run(ctx context.Context, db *gorm.DB, data *Data, logger *zap.Logger) (*Result, error) {
	result := &Result{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// ── 角色 ──
		for _, r := range data.Roles {
			role := model.Role{
				RoleID:      r.ID,
				Name:        r.Name,
				Description: r.Description,
				IsSystem:    model.IsSystemRole(r.ID),
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&role)
			if res.Error != nil {
				return fmt.Errorf("写入角色 %s 失败: %w", r.ID, res.Error)
			}
			result.Roles += res.RowsAffected
		}

		// ── 分类 ──
		for i, c := range data.Categories {
			category := model.Category{CategoryID: c.ID, Name: c.Name, SortOrder: i + 1}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&category)
			if res.Error != nil {
				return fmt.Errorf("写入分类 %s 失败: %w", c.ID, res.Error)
			}
			result.Categories += res.RowsAffected
		}

		// ── 菜谱 ──
		for _, r := range data.Recipes {
			recipe := model.Recipe{
				RecipeID:    RecipeID(r.Category, r.Name),
				Name:        r.Name,
				Description: r.Description,
				CategoryID:  r.Category,
				Calories:    r.Calories,
				ImageURL:    r.ImageURL,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&recipe)
			if res.Error != nil {
				return fmt.Errorf("写入菜谱 %s 失败: %w", r.Name, res.Error)
			}
			result.Recipes += res.RowsAffected
		}

		// ── 超级管理员 ──
		if data.Admin.Email == "" {
			return nil
		}
		email := strings.ToLower(strings.TrimSpace(data.Admin.Email))

		var count int64
		if err := tx.Model(&model.User{}).Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("查询管理员失败: %w", err)
		}
		if count > 0 {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(data.Admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("生成密码哈希失败: %w", err)
		}
		admin := model.User{
			Name:               data.Admin.Name,
			Email:              email,
			PasswordHash:       string(hash),
			Role:               model.RoleAdmin,
			EmailVerified:      true,
			MustChangePassword: true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("创建管理员失败: %w", err)
		}
		result.Admin = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("初始化数据写入完成",
		zap.Int64("roles", result.Roles),
		zap.Int64("categories", result.Categories),
		zap.Int64("recipes", result.Recipes),
		zap.Bool("admin_created", result.Admin),
	)
	return result, nil
}
