package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/internal/repository"
)

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	roles map[string]*model.Role
	users *mockUserRepo
}

func newMockRoleRepo(users *mockUserRepo) *mockRoleRepo {
	m := &mockRoleRepo{roles: make(map[string]*model.Role), users: users}
	for _, id := range model.SystemRoles {
		m.roles[id] = &model.Role{RoleID: id, Name: id, IsSystem: true}
	}
	return m
}

func (m *mockRoleRepo) List(_ context.Context) ([]model.Role, error) {
	var result []model.Role
	for _, r := range m.roles {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RoleID < result[j].RoleID })
	return result, nil
}

func (m *mockRoleRepo) GetByID(_ context.Context, id string) (*model.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) Create(_ context.Context, role *model.Role) error {
	m.roles[role.RoleID] = role
	return nil
}

func (m *mockRoleRepo) Update(_ context.Context, role *model.Role) error {
	m.roles[role.RoleID] = role
	return nil
}

func (m *mockRoleRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.roles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.roles, id)
	return nil
}

func (m *mockRoleRepo) CountUsers(_ context.Context, id string) (int64, error) {
	var n int64
	for _, u := range m.users.users {
		if u.Role == id {
			n++
		}
	}
	return n, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByVerificationToken(_ context.Context, token string) (*model.User, error) {
	for _, u := range m.users {
		if u.VerificationToken != nil && *u.VerificationToken == token {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) EmailExists(_ context.Context, email, excludeID string) (bool, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) && u.UserID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Grade != nil && (u.Grade == nil || *u.Grade != *filter.Grade) {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(u.Name, filter.Keyword) && !strings.Contains(u.Email, filter.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) ListVerifiedByRoles(_ context.Context, roles []string) ([]model.User, error) {
	want := make(map[string]bool, len(roles))
	for _, r := range roles {
		want[r] = true
	}
	var result []model.User
	for _, u := range m.users {
		if u.EmailVerified && want[u.Role] {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	categories map[string]*model.Category
	recipes    *mockRecipeRepo
}

func newMockCategoryRepo(recipes *mockRecipeRepo) *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]*model.Category), recipes: recipes}
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var result []model.Category
	for _, c := range m.categories {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	if c, ok := m.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.Category) error {
	m.categories[category.CategoryID] = category
	return nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *model.Category) error {
	cp := *category
	m.categories[category.CategoryID] = &cp
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) MaxSortOrder(_ context.Context) (int, error) {
	max := 0
	for _, c := range m.categories {
		if c.SortOrder > max {
			max = c.SortOrder
		}
	}
	return max, nil
}

func (m *mockCategoryRepo) CountRecipes(_ context.Context, id string) (int64, error) {
	var n int64
	for _, r := range m.recipes.recipes {
		if r.CategoryID == id {
			n++
		}
	}
	return n, nil
}

// ── Mock RecipeRepository ──

type mockRecipeRepo struct {
	recipes map[string]*model.Recipe
	seq     int
}

func newMockRecipeRepo() *mockRecipeRepo {
	return &mockRecipeRepo{recipes: make(map[string]*model.Recipe)}
}

func (m *mockRecipeRepo) List(_ context.Context, filter repository.RecipeFilter) ([]model.Recipe, error) {
	var result []model.Recipe
	for _, r := range m.recipes {
		if filter.CategoryID != "" && r.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockRecipeRepo) GetByID(_ context.Context, id string) (*model.Recipe, error) {
	if r, ok := m.recipes[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRecipeRepo) GetByIDs(_ context.Context, ids []string) ([]model.Recipe, error) {
	var result []model.Recipe
	for _, id := range ids {
		if r, ok := m.recipes[id]; ok {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRecipeRepo) Create(_ context.Context, recipe *model.Recipe) error {
	if recipe.RecipeID == "" {
		m.seq++
		recipe.RecipeID = fmt.Sprintf("recipe-%d", m.seq)
	}
	m.recipes[recipe.RecipeID] = recipe
	return nil
}

func (m *mockRecipeRepo) Update(_ context.Context, recipe *model.Recipe) error {
	m.recipes[recipe.RecipeID] = recipe
	return nil
}

func (m *mockRecipeRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.recipes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.recipes, id)
	return nil
}

// ── Mock MenuRepository ──

type mockMenuRepo struct {
	menus   map[string]*model.DailyMenu // key: YYYY-MM-DD
	recipes *mockRecipeRepo
}

func newMockMenuRepo(recipes *mockRecipeRepo) *mockMenuRepo {
	return &mockMenuRepo{menus: make(map[string]*model.DailyMenu), recipes: recipes}
}

// hydrate 模拟 Preload("Items.Recipe")
func (m *mockMenuRepo) hydrate(menu *model.DailyMenu) *model.DailyMenu {
	cp := *menu
	cp.Items = make([]model.DailyMenuItem, len(menu.Items))
	for i, it := range menu.Items {
		if r, ok := m.recipes.recipes[it.RecipeID]; ok {
			it.Recipe = r
		}
		cp.Items[i] = it
	}
	return &cp
}

func (m *mockMenuRepo) GetByDate(_ context.Context, date time.Time) (*model.DailyMenu, error) {
	if menu, ok := m.menus[formatDate(date)]; ok {
		return m.hydrate(menu), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMenuRepo) sorted(keep func(*model.DailyMenu) bool) []model.DailyMenu {
	var result []model.DailyMenu
	for _, menu := range m.menus {
		if keep(menu) {
			result = append(result, *m.hydrate(menu))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].MenuDate.Before(result[j].MenuDate) })
	return result
}

func (m *mockMenuRepo) List(_ context.Context, dateFilter string) ([]model.DailyMenu, error) {
	return m.sorted(func(menu *model.DailyMenu) bool {
		return strings.HasPrefix(formatDate(menu.MenuDate), dateFilter)
	}), nil
}

func (m *mockMenuRepo) ListPublishedFrom(_ context.Context, from time.Time) ([]model.DailyMenu, error) {
	return m.sorted(func(menu *model.DailyMenu) bool {
		return menu.IsPublished && !menu.MenuDate.Before(from)
	}), nil
}

func (m *mockMenuRepo) ListPublishedBetween(_ context.Context, start, end time.Time) ([]model.DailyMenu, error) {
	return m.sorted(func(menu *model.DailyMenu) bool {
		return menu.IsPublished && !menu.MenuDate.Before(start) && !menu.MenuDate.After(end)
	}), nil
}

func (m *mockMenuRepo) Save(_ context.Context, menu *model.DailyMenu) error {
	key := formatDate(menu.MenuDate)
	if old, ok := m.menus[key]; ok {
		menu.MenuID = old.MenuID
	} else if menu.MenuID == "" {
		menu.MenuID = "menu-" + key
	}
	m.menus[key] = menu
	return nil
}

func (m *mockMenuRepo) DeleteByDate(_ context.Context, date time.Time) error {
	key := formatDate(date)
	if _, ok := m.menus[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.menus, key)
	return nil
}

// ── Mock OrderRepository ──

type mockOrderRepo struct {
	orders  []*model.Order
	recipes *mockRecipeRepo
	seq     int
}

func newMockOrderRepo(recipes *mockRecipeRepo) *mockOrderRepo {
	return &mockOrderRepo{recipes: recipes}
}

// hydrate 模拟 Preload("Items.Recipe")
func (m *mockOrderRepo) hydrate(o *model.Order) model.Order {
	cp := *o
	cp.Items = make([]model.OrderItem, len(o.Items))
	for i, it := range o.Items {
		if r, ok := m.recipes.recipes[it.RecipeID]; ok {
			it.Recipe = r
		}
		cp.Items[i] = it
	}
	return cp
}

func (m *mockOrderRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*model.Order, error) {
	for _, o := range m.orders {
		if o.UserID != nil && *o.UserID == userID && o.OrderDate.Equal(date) {
			cp := m.hydrate(o)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockOrderRepo) Save(ctx context.Context, order *model.Order) error {
	for i, o := range m.orders {
		if o.UserID != nil && order.UserID != nil && *o.UserID == *order.UserID && o.OrderDate.Equal(order.OrderDate) {
			order.OrderID = o.OrderID
			m.orders[i] = order
			return nil
		}
	}
	return m.Create(ctx, order)
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	if order.OrderID == "" {
		m.seq++
		order.OrderID = fmt.Sprintf("order-%04d-0000", m.seq)
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID string, start, end *time.Time) ([]model.Order, error) {
	var result []model.Order
	for _, o := range m.orders {
		if o.UserID == nil || *o.UserID != userID {
			continue
		}
		if start != nil && o.OrderDate.Before(*start) {
			continue
		}
		if end != nil && o.OrderDate.After(*end) {
			continue
		}
		result = append(result, m.hydrate(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OrderDate.After(result[j].OrderDate) })
	return result, nil
}

func (m *mockOrderRepo) ListConfirmedByDate(_ context.Context, date time.Time, grade *int) ([]model.Order, error) {
	var result []model.Order
	for _, o := range m.orders {
		if o.Status != model.OrderStatusConfirmed || !o.OrderDate.Equal(date) {
			continue
		}
		if grade != nil && (o.Grade == nil || *o.Grade != *grade) {
			continue
		}
		result = append(result, m.hydrate(o))
	}
	return result, nil
}

func (m *mockOrderRepo) ListConfirmedBetween(_ context.Context, start, end time.Time) ([]model.Order, error) {
	var result []model.Order
	for _, o := range m.orders {
		if o.Status != model.OrderStatusConfirmed || o.OrderDate.Before(start) || o.OrderDate.After(end) {
			continue
		}
		result = append(result, m.hydrate(o))
	}
	return result, nil
}

// ── Mock PreferenceRepository ──

type mockPreferenceRepo struct {
	prefs map[string]*model.RecurringPreference // key: user_id/day
}

func newMockPreferenceRepo() *mockPreferenceRepo {
	return &mockPreferenceRepo{prefs: make(map[string]*model.RecurringPreference)}
}

func prefKey(userID string, day int) string { return fmt.Sprintf("%s/%d", userID, day) }

func (m *mockPreferenceRepo) ListByUser(_ context.Context, userID string) ([]model.RecurringPreference, error) {
	var result []model.RecurringPreference
	for _, p := range m.prefs {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DayOfWeek < result[j].DayOfWeek })
	return result, nil
}

func (m *mockPreferenceRepo) Get(_ context.Context, userID string, dayOfWeek int) (*model.RecurringPreference, error) {
	if p, ok := m.prefs[prefKey(userID, dayOfWeek)]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPreferenceRepo) Save(_ context.Context, pref *model.RecurringPreference) error {
	m.prefs[prefKey(pref.UserID, pref.DayOfWeek)] = pref
	return nil
}

func (m *mockPreferenceRepo) Delete(_ context.Context, userID string, dayOfWeek int) error {
	key := prefKey(userID, dayOfWeek)
	if _, ok := m.prefs[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.prefs, key)
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	items      map[string]*model.SystemNotification
	dismissals map[string]bool // key: notification_id/user_id
	seq        int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{
		items:      make(map[string]*model.SystemNotification),
		dismissals: make(map[string]bool),
	}
}

func (m *mockNotificationRepo) List(_ context.Context) ([]model.SystemNotification, error) {
	var result []model.SystemNotification
	for _, n := range m.items {
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].NotifyDate.After(result[j].NotifyDate) })
	return result, nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.SystemNotification, error) {
	if n, ok := m.items[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) Create(_ context.Context, n *model.SystemNotification) error {
	if n.NotificationID == "" {
		m.seq++
		n.NotificationID = fmt.Sprintf("notif-%d", m.seq)
	}
	m.items[n.NotificationID] = n
	return nil
}

func (m *mockNotificationRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockNotificationRepo) ListActive(_ context.Context, from time.Time, role, userID string) ([]model.SystemNotification, error) {
	var result []model.SystemNotification
	for _, n := range m.items {
		if n.NotifyDate.Before(from) {
			continue
		}
		if n.TargetRole != model.NotificationTargetAll && n.TargetRole != role {
			continue
		}
		if m.dismissals[n.NotificationID+"/"+userID] {
			continue
		}
		result = append(result, *n)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].NotifyDate.Before(result[j].NotifyDate) })
	return result, nil
}

func (m *mockNotificationRepo) Dismiss(_ context.Context, d *model.NotificationDismissal) error {
	m.dismissals[d.NotificationID+"/"+d.UserID] = true
	return nil
}

// ── Mock SurveyRepository ──

type mockSurveyRepo struct {
	surveys   map[string]*model.SurveyDefinition
	responses []*model.SurveyResponse
	seq       int
}

func newMockSurveyRepo() *mockSurveyRepo {
	return &mockSurveyRepo{surveys: make(map[string]*model.SurveyDefinition)}
}

func (m *mockSurveyRepo) ListDefinitions(_ context.Context) ([]model.SurveyDefinition, error) {
	var result []model.SurveyDefinition
	for _, s := range m.surveys {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.After(result[j].StartDate) })
	return result, nil
}

func (m *mockSurveyRepo) GetDefinition(_ context.Context, id string) (*model.SurveyDefinition, error) {
	if s, ok := m.surveys[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSurveyRepo) CreateDefinition(_ context.Context, s *model.SurveyDefinition) error {
	if s.SurveyID == "" {
		m.seq++
		s.SurveyID = fmt.Sprintf("survey-%d", m.seq)
	}
	m.surveys[s.SurveyID] = s
	return nil
}

func (m *mockSurveyRepo) UpdateDefinition(_ context.Context, s *model.SurveyDefinition) error {
	cp := *s
	m.surveys[s.SurveyID] = &cp
	return nil
}

func (m *mockSurveyRepo) DeleteDefinition(_ context.Context, id string) error {
	if _, ok := m.surveys[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.surveys, id)
	kept := m.responses[:0]
	for _, r := range m.responses {
		if r.SurveyID != id {
			kept = append(kept, r)
		}
	}
	m.responses = kept
	return nil
}

func (m *mockSurveyRepo) ListResponses(_ context.Context, surveyID string) ([]model.SurveyResponse, error) {
	var result []model.SurveyResponse
	for _, r := range m.responses {
		if surveyID == "" || r.SurveyID == surveyID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SubmittedAt.After(result[j].SubmittedAt) })
	return result, nil
}

func (m *mockSurveyRepo) GetResponse(_ context.Context, id string) (*model.SurveyResponse, error) {
	for _, r := range m.responses {
		if r.ResponseID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSurveyRepo) CreateResponse(_ context.Context, resp *model.SurveyResponse) error {
	if resp.ResponseID == "" {
		m.seq++
		resp.ResponseID = fmt.Sprintf("resp-%d", m.seq)
	}
	m.responses = append(m.responses, resp)
	return nil
}

func (m *mockSurveyRepo) UpdateResponse(_ context.Context, resp *model.SurveyResponse) error {
	for i, r := range m.responses {
		if r.ResponseID == resp.ResponseID {
			cp := *resp
			m.responses[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockSurveyRepo) HasResponded(_ context.Context, surveyID, userID string) (bool, error) {
	for _, r := range m.responses {
		if r.SurveyID == surveyID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSurveyRepo) ListRespondedSurveyIDs(_ context.Context, userID string) ([]string, error) {
	var ids []string
	for _, r := range m.responses {
		if r.UserID == userID {
			ids = append(ids, r.SurveyID)
		}
	}
	return ids, nil
}

// ── 测试夹具 ──

// mockRepos 组装好的 mock 集合
type mockRepos struct {
	repo          *repository.Repository
	roles         *mockRoleRepo
	users         *mockUserRepo
	categories    *mockCategoryRepo
	recipes       *mockRecipeRepo
	menus         *mockMenuRepo
	orders        *mockOrderRepo
	preferences   *mockPreferenceRepo
	notifications *mockNotificationRepo
	surveys       *mockSurveyRepo
}

func newMockRepos() *mockRepos {
	users := newMockUserRepo()
	recipes := newMockRecipeRepo()
	m := &mockRepos{
		roles:         newMockRoleRepo(users),
		users:         users,
		categories:    newMockCategoryRepo(recipes),
		recipes:       recipes,
		menus:         newMockMenuRepo(recipes),
		orders:        newMockOrderRepo(recipes),
		preferences:   newMockPreferenceRepo(),
		notifications: newMockNotificationRepo(),
		surveys:       newMockSurveyRepo(),
	}
	m.repo = &repository.Repository{
		Role:         m.roles,
		User:         m.users,
		Category:     m.categories,
		Recipe:       m.recipes,
		Menu:         m.menus,
		Order:        m.orders,
		Preference:   m.preferences,
		Notification: m.notifications,
		Survey:       m.surveys,
	}
	return m
}

// testToday 测试统一使用的“今天”：2026-03-10（周二）
var testToday = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func testClock() *Clock { return NewFixedClock(testToday) }

func mustDate(s string) time.Time {
	t, err := parseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }

// seedCatalog 写入 5 个分类和每类两道菜
//
//	soup: soup-1, soup-2 / main: main-1, main-2 / vegetarian: veg-1, veg-2
//	drink: drink-1, drink-2 / dessert: dessert-1, dessert-2
func (m *mockRepos) seedCatalog() {
	cats := []struct{ id, name string }{
		{"soup", "Sopa"},
		{"main", "Plato Fuerte"},
		{"vegetarian", "Vegetariano"},
		{"drink", "Bebida"},
		{"dessert", "Postre"},
	}
	for i, c := range cats {
		m.categories.categories[c.id] = &model.Category{CategoryID: c.id, Name: c.name, SortOrder: i + 1}
		for n := 1; n <= 2; n++ {
			id := fmt.Sprintf("%s-%d", c.id, n)
			if c.id == "vegetarian" {
				id = fmt.Sprintf("veg-%d", n)
			}
			m.recipes.recipes[id] = &model.Recipe{
				RecipeID:   id,
				Name:       fmt.Sprintf("%s %d", c.name, n),
				CategoryID: c.id,
				Calories:   100 * n,
			}
		}
	}
}

// seedSchoolCatalog 写入与内置初始化数据相同 ID 的分类与菜谱
//
//	vegetariano: veg-1 / sopa: sopa-1 / entrada: entrada-1
//	plato-fuerte: pf-1, pf-2 / postre: postre-1 / refrigerio: refri-1
func (m *mockRepos) seedSchoolCatalog() {
	cats := []struct{ id, name string }{
		{"vegetariano", "Vegetariano"},
		{"sopa", "Sopa"},
		{"entrada", "Entrada"},
		{"plato-fuerte", "Plato Fuerte"},
		{"postre", "Postre"},
		{"refrigerio", "Refrigerio"},
	}
	for i, c := range cats {
		m.categories.categories[c.id] = &model.Category{CategoryID: c.id, Name: c.name, SortOrder: i + 1}
	}
	recipes := []struct{ id, name, cat string }{
		{"veg-1", "Lasaña de Vegetales", "vegetariano"},
		{"sopa-1", "Sopa de Verduras", "sopa"},
		{"entrada-1", "Ensalada Mixta", "entrada"},
		{"pf-1", "Pollo a la Plancha", "plato-fuerte"},
		{"pf-2", "Carne Guisada", "plato-fuerte"},
		{"postre-1", "Gelatina", "postre"},
		{"refri-1", "Fruta Picada", "refrigerio"},
	}
	for _, r := range recipes {
		m.recipes.recipes[r.id] = &model.Recipe{RecipeID: r.id, Name: r.name, CategoryID: r.cat, Calories: 200}
	}
}

// seedMenu 发布某日菜单；mandatory 中的菜谱标记为必选
func (m *mockRepos) seedMenu(date string, recipeIDs []string, mandatory ...string) {
	must := make(map[string]bool, len(mandatory))
	for _, id := range mandatory {
		must[id] = true
	}
	menu := &model.DailyMenu{MenuID: "menu-" + date, MenuDate: mustDate(date), IsPublished: true}
	for i, id := range recipeIDs {
		menu.Items = append(menu.Items, model.DailyMenuItem{
			MenuID:      menu.MenuID,
			RecipeID:    id,
			IsMandatory: must[id],
			Position:    i,
		})
	}
	m.menus.menus[date] = menu
}

// seedUser 写入已验证的用户
func (m *mockRepos) seedUser(id, name, role string, grade *int) *model.User {
	u := &model.User{
		UserID:        id,
		Name:          name,
		Email:         id + "@edueats.test",
		Role:          role,
		Grade:         grade,
		EmailVerified: true,
	}
	if grade != nil {
		u.Section = "A"
	}
	m.users.users[id] = u
	return u
}

// seedOrder 写入已确认订单
func (m *mockRepos) seedOrder(userID *string, name string, grade *int, date string, recipeIDs ...string) *model.Order {
	o := &model.Order{
		OrderDate:   mustDate(date),
		UserID:      userID,
		StudentName: name,
		Grade:       grade,
		Status:      model.OrderStatusConfirmed,
		SubmittedAt: testToday,
	}
	for _, id := range recipeIDs {
		o.Items = append(o.Items, model.OrderItem{CategoryID: m.recipes.recipes[id].CategoryID, RecipeID: id})
	}
	_ = m.orders.Create(context.Background(), o)
	return o
}
