package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/anubclao/Edueat/internal/dto"
	"github.com/anubclao/Edueat/internal/model"
)

func setupTestLogisticsService(maxBatch int) (LogisticsService, *mockRepos) {
	repos := newMockRepos()
	repos.seedCatalog()
	return NewLogisticsService(repos.repo, maxBatch, testClock(), zap.NewNop()), repos
}

func TestDashboard_Summaries(t *testing.T) {
	svc, repos := setupTestLogisticsService(60)
	a, b := "u-a", "u-b"
	repos.seedOrder(&a, "Ana", intPtr(5), tomorrow, "soup-1", "main-1", "drink-1")
	repos.seedOrder(&b, "Beto", intPtr(3), tomorrow, "soup-1", "main-2")
	repos.seedOrder(nil, "Profe", nil, tomorrow, "veg-1", "drink-1")
	pending := repos.seedOrder(nil, "Otro", intPtr(3), tomorrow, "main-1")
	pending.Status = model.OrderStatusPending

	resp, err := svc.Dashboard(context.Background(), &dto.LogisticsRequest{Date: tomorrow})
	if err != nil {
		t.Fatalf("Dashboard 应成功: %v", err)
	}
	if resp.TotalOrders != 3 {
		t.Errorf("仅统计已确认订单，期望 3，实际 %d", resp.TotalOrders)
	}
	if resp.TotalMainDishes != 2 {
		t.Errorf("期望主菜 2 份，实际 %d", resp.TotalMainDishes)
	}

	if len(resp.KitchenSummary) != 5 {
		t.Fatalf("每个分类应有一行汇总，实际 %d", len(resp.KitchenSummary))
	}
	soup := resp.KitchenSummary[0]
	if soup.CategoryID != "soup" || len(soup.Dishes) != 1 || soup.Dishes[0].Count != 2 {
		t.Errorf("汤类汇总不正确: %+v", soup)
	}
	if len(resp.KitchenSummary[4].Dishes) != 0 {
		t.Error("无人点的分类应为空列表")
	}

	if len(resp.Grades) != 3 {
		t.Fatalf("期望 3 个年级行，实际 %d", len(resp.Grades))
	}
	if *resp.Grades[0].Grade != 3 || *resp.Grades[1].Grade != 5 || resp.Grades[2].Grade != nil {
		t.Error("年级应升序排列，无年级排在最后")
	}
	if resp.Grades[0].ByCategory["main"] != 1 || resp.Grades[0].ByCategory["dessert"] != 0 {
		t.Errorf("三年级分类统计不正确: %+v", resp.Grades[0].ByCategory)
	}
}

func TestDashboard_GradeFilter(t *testing.T) {
	svc, repos := setupTestLogisticsService(60)
	repos.seedOrder(nil, "Ana", intPtr(5), tomorrow, "main-1")
	repos.seedOrder(nil, "Beto", intPtr(3), tomorrow, "main-2")

	resp, err := svc.Dashboard(context.Background(), &dto.LogisticsRequest{Date: tomorrow, Grade: intPtr(5)})
	if err != nil {
		t.Fatalf("Dashboard 应成功: %v", err)
	}
	if resp.TotalOrders != 1 || resp.Orders[0].StudentName != "Ana" {
		t.Errorf("年级筛选不正确: %+v", resp.Orders)
	}
}

func TestCreateBatchOrders(t *testing.T) {
	svc, repos := setupTestLogisticsService(60)
	repos.seedMenu(tomorrow, []string{"main-1", "soup-2", "main-2", "drink-1"})

	resp, err := svc.CreateBatchOrders(context.Background(), &dto.BatchOrderRequest{
		Date: tomorrow, Grade: 4, Section: "b", Count: 3,
	})
	if err != nil {
		t.Fatalf("CreateBatchOrders 应成功: %v", err)
	}
	if resp.Created != 3 {
		t.Errorf("期望创建 3 条，实际 %d", resp.Created)
	}
	want := []dto.Selection{
		{CategoryID: "soup", RecipeID: "soup-2"},
		{CategoryID: "main", RecipeID: "main-1"},
		{CategoryID: "drink", RecipeID: "drink-1"},
	}
	if len(resp.Items) != len(want) {
		t.Fatalf("期望 %d 个分类，实际 %+v", len(want), resp.Items)
	}
	for i := range want {
		if resp.Items[i] != want[i] {
			t.Errorf("第 %d 项期望 %+v，实际 %+v", i, want[i], resp.Items[i])
		}
	}

	if len(repos.orders.orders) != 3 {
		t.Fatalf("期望写入 3 条订单，实际 %d", len(repos.orders.orders))
	}
	first := repos.orders.orders[0]
	if first.StudentName != "Estudiante 1 (4B)" || !first.IsBatch || first.UserID != nil {
		t.Errorf("批量订单字段不正确: %+v", first)
	}
}

func TestCreateBatchOrders_ConfiguredLimit(t *testing.T) {
	svc, repos := setupTestLogisticsService(100)
	repos.seedMenu(tomorrow, []string{"main-1"})
	ctx := context.Background()

	resp, err := svc.CreateBatchOrders(ctx, &dto.BatchOrderRequest{Date: tomorrow, Grade: 2, Count: 80})
	if err != nil {
		t.Fatalf("上限为 100 时 80 份应成功: %v", err)
	}
	if resp.Created != 80 || len(repos.orders.orders) != 80 {
		t.Errorf("期望创建 80 条，实际 %d / %d", resp.Created, len(repos.orders.orders))
	}
	if _, err := svc.CreateBatchOrders(ctx, &dto.BatchOrderRequest{Date: tomorrow, Grade: 2, Count: 101}); !errors.Is(err, ErrBatchCountLimit) {
		t.Errorf("期望 ErrBatchCountLimit，实际: %v", err)
	}
}

func TestCreateBatchOrders_Errors(t *testing.T) {
	svc, repos := setupTestLogisticsService(10)
	ctx := context.Background()

	if _, err := svc.CreateBatchOrders(ctx, &dto.BatchOrderRequest{Date: tomorrow, Grade: 4, Count: 11}); !errors.Is(err, ErrBatchCountLimit) {
		t.Errorf("期望 ErrBatchCountLimit，实际: %v", err)
	}
	if _, err := svc.CreateBatchOrders(ctx, &dto.BatchOrderRequest{Date: tomorrow, Grade: 4, Count: 2}); !errors.Is(err, ErrMenuNotFound) {
		t.Errorf("期望 ErrMenuNotFound，实际: %v", err)
	}

	repos.seedMenu(tomorrow, []string{"ghost"})
	if _, err := svc.CreateBatchOrders(ctx, &dto.BatchOrderRequest{Date: tomorrow, Grade: 4, Count: 2}); !errors.Is(err, ErrBatchNoRecipes) {
		t.Errorf("期望 ErrBatchNoRecipes，实际: %v", err)
	}
}
