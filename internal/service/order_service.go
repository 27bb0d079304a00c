package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
	"github.com/anubclao/Edueat/pkg/metrics"
)

// ── 点餐模块业务错误 ──

var (
	ErrOrderNotFound          = errors.New("订单不存在")
	ErrOrderClosed            = errors.New("该日期已截止订餐，请至少提前一天下单")
	ErrOrderLocked            = errors.New("订单已确认，无法修改")
	ErrOrderEmpty             = errors.New("订单至少需要一个菜品")
	ErrOrderItemNotOnMenu     = errors.New("所选菜品不在当天菜单中")
	ErrOrderCategoryMismatch  = errors.New("所选菜品与分类不符")
	ErrOrderDuplicateCategory = errors.New("同一分类只能选择一个菜品")
	ErrOrderMandatoryMissing  = errors.New("存在未选择的必选分类")
	ErrEmailNotVerified       = errors.New("请先完成邮箱验证")
)

// ReminderStore 明日提醒关闭状态存储（Redis 实现）
type ReminderStore interface {
	DismissReminder(ctx context.Context, userID, date string, until time.Time) error
	IsReminderDismissed(ctx context.Context, userID, date string) (bool, error)
}

// OrderService 点餐业务接口
type OrderService interface {
	GetOrderForm(ctx context.Context, userID, date string) (*dto.OrderFormResponse, error)
	Wizard(ctx context.Context, userID, date string, req *dto.WizardRequest) (*dto.WizardStateResponse, error)
	Submit(ctx context.Context, userID, date string, req *dto.SubmitOrderRequest) (*dto.OrderResponse, error)
	ListMine(ctx context.Context, userID string) ([]dto.OrderResponse, error)
	GetMine(ctx context.Context, userID, date string) (*dto.OrderResponse, error)
	Reminder(ctx context.Context, userID string) (*dto.ReminderResponse, error)
	DismissReminder(ctx context.Context, userID string) error
}

type orderService struct {
	repo      *repository.Repository
	reminders ReminderStore
	clock     *Clock
	logger    *zap.Logger
}

// NewOrderService 创建 OrderService 实例；reminders 为 nil 时提醒无法关闭
func NewOrderService(repo *repository.Repository, reminders ReminderStore, clock *Clock, logger *zap.Logger) OrderService {
	return &orderService{repo: repo, reminders: reminders, clock: clock, logger: logger}
}

// orderContext 某用户某日期的点餐上下文
type orderContext struct {
	day        time.Time
	categories []model.Category
	menu       *model.DailyMenu // 无已发布菜单时为 nil
	existing   *model.Order     // 无订单时为 nil
}

func (s *orderService) load(ctx context.Context, userID string, day time.Time) (*orderContext, error) {
	oc := &orderContext{day: day}

	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}
	oc.categories = categories

	menu, err := s.repo.Menu.GetByDate(ctx, day)
	switch {
	case err == nil:
		if menu.IsPublished {
			oc.menu = menu
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("查询菜单失败", zap.Time("date", day), zap.Error(err))
		return nil, err
	}

	order, err := s.repo.Order.GetByUserAndDate(ctx, userID, day)
	switch {
	case err == nil:
		oc.existing = order
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("查询订单失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return oc, nil
}

// steps 按分类顺序生成向导步骤，每步的可选项为当天菜单中该分类的菜谱
func (oc *orderContext) steps() []WizardStep {
	steps := make([]WizardStep, 0, len(oc.categories))
	for _, c := range oc.categories {
		step := WizardStep{CategoryID: c.CategoryID, Name: c.Name}
		if oc.menu != nil {
			for _, it := range oc.menu.Items {
				if it.Recipe != nil && it.Recipe.CategoryID == c.CategoryID {
					step.Options = append(step.Options, it.RecipeID)
				}
			}
		}
		steps = append(steps, step)
	}
	return steps
}

// menuItem 返回当天菜单中的条目
func (oc *orderContext) menuItem(recipeID string) *model.DailyMenuItem {
	if oc.menu == nil {
		return nil
	}
	for i := range oc.menu.Items {
		if oc.menu.Items[i].RecipeID == recipeID {
			return &oc.menu.Items[i]
		}
	}
	return nil
}

// ────────────────────── GetOrderForm ──────────────────────

func (s *orderService) GetOrderForm(ctx context.Context, userID, date string) (*dto.OrderFormResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	oc, err := s.load(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if oc.menu == nil && oc.existing == nil {
		return nil, ErrMenuNotFound
	}

	pastOrToday := !day.After(s.clock.Today())
	resp := &dto.OrderFormResponse{
		Date:       formatDate(day),
		Steps:      make([]dto.WizardStep, 0, len(oc.categories)),
		Selections: []dto.Selection{},
		Closed:     pastOrToday && oc.existing == nil,
	}

	for _, c := range oc.categories {
		step := dto.WizardStep{CategoryID: c.CategoryID, Name: c.Name, Options: []dto.MenuOption{}}
		if oc.menu != nil {
			for _, it := range oc.menu.Items {
				if it.Recipe == nil || it.Recipe.CategoryID != c.CategoryID {
					continue
				}
				step.Options = append(step.Options, dto.MenuOption{
					RecipeID:    it.RecipeID,
					Name:        it.Recipe.Name,
					Description: it.Recipe.Description,
					Calories:    it.Recipe.Calories,
					ImageURL:    it.Recipe.ImageURL,
					IsMandatory: it.IsMandatory,
				})
			}
		}
		resp.Steps = append(resp.Steps, step)
	}

	switch {
	case oc.existing != nil:
		order := toOrderResponse(oc.existing)
		resp.ExistingOrder = &order
		resp.Selections = toSelections(oc.existing.Selections())
		resp.ReadOnly = oc.existing.Status == model.OrderStatusConfirmed || pastOrToday
	case pastOrToday:
		resp.ReadOnly = true
	default:
		selections, err := s.autoFill(ctx, userID, oc)
		if err != nil {
			return nil, err
		}
		resp.Selections = toSelections(selections)
		resp.AutoFilled = len(selections) > 0
	}

	return resp, nil
}

// autoFill 用该星期几的固定偏好预选当天菜单中存在的菜品
func (s *orderService) autoFill(ctx context.Context, userID string, oc *orderContext) (model.SelectionList, error) {
	if oc.menu == nil {
		return nil, nil
	}
	pref, err := s.repo.Preference.Get(ctx, userID, int(oc.day.Weekday()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询偏好失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	var matched model.SelectionList
	for _, it := range pref.Items {
		if oc.menuItem(it.RecipeID) != nil {
			matched = append(matched, it)
		}
	}
	return matched, nil
}

// ────────────────────── Wizard ──────────────────────

// Wizard 无状态向导：接收当前步骤与选择，执行动作后返回新状态
func (s *orderService) Wizard(ctx context.Context, userID, date string, req *dto.WizardRequest) (*dto.WizardStateResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if !day.After(s.clock.Today()) {
		return nil, ErrOrderClosed
	}
	oc, err := s.load(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if oc.menu == nil {
		return nil, ErrMenuNotFound
	}
	if oc.existing != nil && oc.existing.Status == model.OrderStatusConfirmed {
		return nil, ErrOrderLocked
	}

	w := NewWizard(oc.steps(), fromSelections(req.Selections))
	if err := w.Goto(req.Step); err != nil {
		return nil, err
	}

	switch req.Action {
	case "select":
		err = w.Select(req.RecipeID)
	case "next":
		err = w.Next()
	case "back":
		w.Back()
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.WizardStateResponse{
		Step:       w.Step(),
		Selections: toSelections(w.Selections()),
		Confirming: w.Confirming(),
		Exited:     w.Exited(),
	}
	if step := w.Current(); step != nil {
		resp.StepCategoryID = step.CategoryID
	}
	return resp, nil
}

// ────────────────────── Submit ──────────────────────

func (s *orderService) Submit(ctx context.Context, userID, date string, req *dto.SubmitOrderRequest) (*dto.OrderResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if !day.After(s.clock.Today()) {
		return nil, ErrOrderClosed
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	oc, err := s.load(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	if oc.menu == nil {
		return nil, ErrMenuNotFound
	}
	if oc.existing != nil && oc.existing.Status == model.OrderStatusConfirmed {
		return nil, ErrOrderLocked
	}

	selections, err := validateSelections(oc, req.Selections)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderDate:   day,
		UserID:      &user.UserID,
		StudentName: user.Name,
		Grade:       user.Grade,
		Section:     user.Section,
		Allergies:   user.Allergies,
		Status:      model.OrderStatusConfirmed,
		SubmittedAt: s.clock.Now().UTC(),
	}
	for _, sel := range selections {
		order.Items = append(order.Items, model.OrderItem{CategoryID: sel.CategoryID, RecipeID: sel.RecipeID})
	}

	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Order.Save(ctx, order); err != nil {
			return err
		}
		if req.SaveAsPreference {
			return txRepo.Preference.Save(ctx, &model.RecurringPreference{
				UserID:    user.UserID,
				DayOfWeek: int(day.Weekday()),
				Items:     selections,
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("保存订单失败", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
		return nil, err
	}

	metrics.OrdersSubmitted.WithLabelValues("wizard").Inc()
	s.logger.Info("订单已确认",
		zap.String("user_id", userID), zap.String("date", date), zap.Int("items", len(order.Items)))

	// 回填菜谱信息用于响应
	for i := range order.Items {
		if it := oc.menuItem(order.Items[i].RecipeID); it != nil {
			order.Items[i].Recipe = it.Recipe
		}
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// validateSelections 校验菜品均在当天菜单且分类一致，应用素食互斥，检查必选分类
// 返回按分类顺序排列的选择
func validateSelections(oc *orderContext, input []dto.Selection) (model.SelectionList, error) {
	chosen := make(map[string]string, len(input))
	for _, sel := range input {
		if sel.RecipeID == "" {
			continue
		}
		item := oc.menuItem(sel.RecipeID)
		if item == nil || item.Recipe == nil {
			return nil, ErrOrderItemNotOnMenu
		}
		if item.Recipe.CategoryID != sel.CategoryID {
			return nil, ErrOrderCategoryMismatch
		}
		if _, dup := chosen[sel.CategoryID]; dup {
			return nil, ErrOrderDuplicateCategory
		}
		chosen[sel.CategoryID] = sel.RecipeID
	}

	applyExclusivity(chosen)
	if len(chosen) == 0 {
		return nil, ErrOrderEmpty
	}

	vegetarian := false
	for cat := range chosen {
		if isVegetarianCategory(cat) {
			vegetarian = true
		}
	}
	for _, it := range oc.menu.Items {
		if !it.IsMandatory || it.Recipe == nil {
			continue
		}
		cat := it.Recipe.CategoryID
		if vegetarian && savoryCategoryIDs[cat] {
			continue
		}
		if _, ok := chosen[cat]; !ok {
			return nil, ErrOrderMandatoryMissing
		}
	}

	order := make(map[string]int, len(oc.categories))
	for i, c := range oc.categories {
		order[c.CategoryID] = i
	}
	out := make(model.SelectionList, 0, len(chosen))
	for cat, recipe := range chosen {
		out = append(out, model.SelectionItem{CategoryID: cat, RecipeID: recipe})
	}
	sort.Slice(out, func(i, j int) bool {
		return order[out[i].CategoryID] < order[out[j].CategoryID]
	})
	return out, nil
}

// ────────────────────── 我的订单 ──────────────────────

func (s *orderService) ListMine(ctx context.Context, userID string) ([]dto.OrderResponse, error) {
	orders, err := s.repo.Order.ListByUser(ctx, userID, nil, nil)
	if err != nil {
		s.logger.Error("查询订单列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, toOrderResponse(&orders[i]))
	}
	return result, nil
}

func (s *orderService) GetMine(ctx context.Context, userID, date string) (*dto.OrderResponse, error) {
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.Order.GetByUserAndDate(ctx, userID, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		s.logger.Error("查询订单失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// ────────────────────── 明日提醒 ──────────────────────

// Reminder 明日有已发布菜单、用户尚未确认订单且未关闭提醒时显示
func (s *orderService) Reminder(ctx context.Context, userID string) (*dto.ReminderResponse, error) {
	tomorrow := s.clock.Today().AddDate(0, 0, 1)
	date := formatDate(tomorrow)
	resp := &dto.ReminderResponse{Date: date}

	menu, err := s.repo.Menu.GetByDate(ctx, tomorrow)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		s.logger.Error("查询菜单失败", zap.String("date", date), zap.Error(err))
		return nil, err
	}
	if !menu.IsPublished {
		return resp, nil
	}

	order, err := s.repo.Order.GetByUserAndDate(ctx, userID, tomorrow)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询订单失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if order != nil && order.Status == model.OrderStatusConfirmed {
		return resp, nil
	}

	if s.reminders != nil {
		dismissed, err := s.reminders.IsReminderDismissed(ctx, userID, date)
		if err != nil {
			s.logger.Warn("查询提醒关闭状态失败", zap.Error(err))
		} else if dismissed {
			return resp, nil
		}
	}

	resp.Show = true
	return resp, nil
}

// DismissReminder 关闭明日提醒，有效期到明天结束
func (s *orderService) DismissReminder(ctx context.Context, userID string) error {
	if s.reminders == nil {
		s.logger.Warn("未配置 Redis，无法记录提醒关闭状态", zap.String("user_id", userID))
		return nil
	}
	tomorrow := s.clock.Today().AddDate(0, 0, 1)
	if err := s.reminders.DismissReminder(ctx, userID, formatDate(tomorrow), s.clock.EndOfDay(tomorrow)); err != nil {
		s.logger.Error("记录提醒关闭状态失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// ── 转换 ──

func toSelections(list model.SelectionList) []dto.Selection {
	out := make([]dto.Selection, 0, len(list))
	for _, it := range list {
		out = append(out, dto.Selection{CategoryID: it.CategoryID, RecipeID: it.RecipeID})
	}
	return out
}

func fromSelections(list []dto.Selection) model.SelectionList {
	out := make(model.SelectionList, 0, len(list))
	for _, it := range list {
		out = append(out, model.SelectionItem{CategoryID: it.CategoryID, RecipeID: it.RecipeID})
	}
	return out
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:          o.OrderID,
		Date:        formatDate(o.OrderDate),
		StudentName: o.StudentName,
		Grade:       o.Grade,
		Section:     o.Section,
		Allergies:   o.Allergies,
		Status:      o.Status,
		IsBatch:     o.IsBatch,
		SubmittedAt: formatTime(o.SubmittedAt),
		Items:       make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		item := dto.OrderItemResponse{CategoryID: it.CategoryID, RecipeID: it.RecipeID}
		if it.Recipe != nil {
			item.RecipeName = it.Recipe.Name
			item.Calories = it.Recipe.Calories
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
