package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/model"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.Order, error)
	Save(ctx context.Context, order *model.Order) error
	Create(ctx context.Context, order *model.Order) error
	ListByUser(ctx context.Context, userID string, start, end *time.Time) ([]model.Order, error)
	ListConfirmedByDate(ctx context.Context, date time.Time, grade *int) ([]model.Order, error)
	ListConfirmedBetween(ctx context.Context, start, end time.Time) ([]model.Order, error)
}

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepo 创建 OrderRepository 实例
func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

// withOrderItems 预加载订单条目；菜谱包含已软删除的，保证历史订单可展示菜名
func withOrderItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items").
		Preload("Items.Recipe", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped()
		})
}

func (r *orderRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.Order, error) {
	var order model.Order
	err := withOrderItems(r.db.WithContext(ctx)).
		Where("user_id = ? AND order_date = ?", userID, date).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Save 按（用户, 日期）新增或覆盖订单，条目整体替换
func (r *orderRepo) Save(ctx context.Context, order *model.Order) error {
	items := order.Items
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Order
		err := tx.Where("user_id = ? AND order_date = ?", order.UserID, order.OrderDate).First(&existing).Error
		switch {
		case err == nil:
			order.OrderID = existing.OrderID
			order.CreatedAt = existing.CreatedAt
			if err := tx.Model(&existing).Updates(map[string]interface{}{
				"student_name": order.StudentName,
				"grade":        order.Grade,
				"section":      order.Section,
				"allergies":    order.Allergies,
				"status":       order.Status,
				"submitted_at": order.SubmittedAt,
				"updated_at":   time.Now(),
			}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", order.OrderID).Delete(&model.OrderItem{}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Omit("Items").Create(order).Error; err != nil {
				return err
			}
		default:
			return err
		}

		for i := range items {
			items[i].OrderItemID = ""
			items[i].OrderID = order.OrderID
		}
		if len(items) > 0 {
			if err := tx.Omit("Recipe").Create(&items).Error; err != nil {
				return err
			}
		}
		order.Items = items
		return nil
	})
}

// Create 直接新增订单（批量匿名订单使用）
func (r *orderRepo) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit("Items.Recipe").Create(order).Error
}

// ListByUser 用户订单，日期倒序；start/end 为可选闭区间
func (r *orderRepo) ListByUser(ctx context.Context, userID string, start, end *time.Time) ([]model.Order, error) {
	var orders []model.Order
	db := withOrderItems(r.db.WithContext(ctx)).Where("user_id = ?", userID)
	if start != nil {
		db = db.Where("order_date >= ?", *start)
	}
	if end != nil {
		db = db.Where("order_date <= ?", *end)
	}
	err := db.Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ListConfirmedByDate(ctx context.Context, date time.Time, grade *int) ([]model.Order, error) {
	var orders []model.Order
	db := withOrderItems(r.db.WithContext(ctx)).
		Where("order_date = ? AND status = ?", date, model.OrderStatusConfirmed)
	if grade != nil {
		db = db.Where("grade = ?", *grade)
	}
	err := db.Order("grade ASC NULLS LAST, section ASC, student_name ASC").Find(&orders).Error
	return orders, err
}

func (r *orderRepo) ListConfirmedBetween(ctx context.Context, start, end time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := withOrderItems(r.db.WithContext(ctx)).
		Where("order_date BETWEEN ? AND ? AND status = ?", start, end, model.OrderStatusConfirmed).
		Order("order_date ASC, grade ASC NULLS LAST, student_name ASC").
		Find(&orders).Error
	return orders, err
}
