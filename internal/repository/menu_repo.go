package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/model"
)

// MenuRepository 每日菜单数据访问接口
type MenuRepository interface {
	GetByDate(ctx context.Context, date time.Time) (*model.DailyMenu, error)
	List(ctx context.Context, dateFilter string) ([]model.DailyMenu, error)
	ListPublishedFrom(ctx context.Context, from time.Time) ([]model.DailyMenu, error)
	ListPublishedBetween(ctx context.Context, start, end time.Time) ([]model.DailyMenu, error)
	Save(ctx context.Context, menu *model.DailyMenu) error
	DeleteByDate(ctx context.Context, date time.Time) error
}

type menuRepo struct {
	db *gorm.DB
}

// NewMenuRepo 创建 MenuRepository 实例
func NewMenuRepo(db *gorm.DB) MenuRepository {
	return &menuRepo{db: db}
}

// withItems 预加载菜单条目及菜谱（按录入顺序）
func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Items.Recipe")
}

func (r *menuRepo) GetByDate(ctx context.Context, date time.Time) (*model.DailyMenu, error) {
	var menu model.DailyMenu
	err := withItems(r.db.WithContext(ctx)).
		Where("menu_date = ?", date).
		First(&menu).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

// List 全部菜单，日期倒序；dateFilter 为日期字符串片段（如 2026-03）
func (r *menuRepo) List(ctx context.Context, dateFilter string) ([]model.DailyMenu, error) {
	var menus []model.DailyMenu
	db := withItems(r.db.WithContext(ctx))
	if f := strings.TrimSpace(dateFilter); f != "" {
		db = db.Where("TO_CHAR(menu_date, 'YYYY-MM-DD') LIKE ?", "%"+f+"%")
	}
	err := db.Order("menu_date DESC").Find(&menus).Error
	return menus, err
}

func (r *menuRepo) ListPublishedFrom(ctx context.Context, from time.Time) ([]model.DailyMenu, error) {
	var menus []model.DailyMenu
	err := r.db.WithContext(ctx).
		Where("is_published = true AND menu_date >= ?", from).
		Order("menu_date ASC").
		Find(&menus).Error
	return menus, err
}

func (r *menuRepo) ListPublishedBetween(ctx context.Context, start, end time.Time) ([]model.DailyMenu, error) {
	var menus []model.DailyMenu
	err := r.db.WithContext(ctx).
		Where("is_published = true AND menu_date BETWEEN ? AND ?", start, end).
		Order("menu_date ASC").
		Find(&menus).Error
	return menus, err
}

// Save 按日期新增或覆盖菜单，条目整体替换
func (r *menuRepo) Save(ctx context.Context, menu *model.DailyMenu) error {
	items := menu.Items
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.DailyMenu
		err := tx.Where("menu_date = ?", menu.MenuDate).First(&existing).Error
		switch {
		case err == nil:
			menu.MenuID = existing.MenuID
			menu.CreatedAt = existing.CreatedAt
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"is_published": menu.IsPublished,
				"updated_at":   time.Now(),
			}).Error; err != nil {
				return err
			}
			if err := tx.Where("menu_id = ?", menu.MenuID).Delete(&model.DailyMenuItem{}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Omit("Items").Create(menu).Error; err != nil {
				return err
			}
		default:
			return err
		}

		for i := range items {
			items[i].MenuItemID = ""
			items[i].MenuID = menu.MenuID
			items[i].Position = i
		}
		if len(items) > 0 {
			if err := tx.Omit("Recipe").Create(&items).Error; err != nil {
				return err
			}
		}
		menu.Items = items
		return nil
	})
}

func (r *menuRepo) DeleteByDate(ctx context.Context, date time.Time) error {
	result := r.db.WithContext(ctx).Where("menu_date = ?", date).Delete(&model.DailyMenu{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
