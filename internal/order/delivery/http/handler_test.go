package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	alertdomain "github.com/tair/smart-inventory/internal/alert/domain"
	"github.com/tair/smart-inventory/internal/alert/engine"
	alertrepository "github.com/tair/smart-inventory/internal/alert/repository"
	"github.com/tair/smart-inventory/internal/authz"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	itemrepository "github.com/tair/smart-inventory/internal/item/repository"
	"github.com/tair/smart-inventory/internal/order/domain"
	orderrepository "github.com/tair/smart-inventory/internal/order/repository"
	"github.com/tair/smart-inventory/internal/order/usecase/command"
	"github.com/tair/smart-inventory/internal/order/usecase/query"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/pkg/auth"
	"github.com/tair/smart-inventory/pkg/cache"
)

type routerFixture struct {
	router *mux.Router
	items  *itemrepository.GormItemRepository
	orders *orderrepository.GormOrderRepository
	redis  *miniredis.Miniredis
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&itemdomain.Item{},
		&txdomain.Transaction{},
		&alertdomain.Alert{},
		&domain.Order{},
		&domain.OrderLine{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	items := itemrepository.NewGormItemRepository(db)
	orders := orderrepository.NewGormOrderRepository(db)
	alerts := alertrepository.NewGormAlertRepository(db)
	eng := engine.New(alerts, items, nil, engine.DefaultConfig())

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	router := mux.NewRouter()
	NewOrderHandler(
		command.NewCreateOrderHandler(orders, items),
		command.NewUpdateStatusHandler(orders, items, eng, nil),
		query.NewGetOrderHandler(orders),
		query.NewListOrdersHandler(orders),
		client,
	).RegisterRoutes(router)

	return &routerFixture{router: router, items: items, orders: orders, redis: mr}
}

func (f *routerFixture) seedItem(t *testing.T, sku string, stock int) *itemdomain.Item {
	t.Helper()

	item := &itemdomain.Item{Name: "Test " + sku, SKU: sku, Active: true}
	if err := f.items.Create(item); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	if stock > 0 {
		if _, _, err := f.items.AdjustStock(context.Background(), itemdomain.StockAdjustment{
			ItemID: item.ID,
			Delta:  stock,
			Type:   txdomain.TypeStockIn,
		}); err != nil {
			t.Fatalf("failed to seed stock: %v", err)
		}
	}
	return item
}

func (f *routerFixture) seedProcessingOrder(t *testing.T, number string, item *itemdomain.Item, quantity int) *domain.Order {
	t.Helper()

	lines := []domain.OrderLine{{ItemID: item.ID, Quantity: quantity, UnitPrice: 1}}
	order := &domain.Order{
		OrderNumber: number,
		Type:        domain.TypeSale,
		Status:      domain.StatusProcessing,
		Lines:       lines,
		TotalAmount: domain.ComputeTotal(lines),
	}
	if err := f.orders.Create(order); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	return order
}

func bearer(t *testing.T, role string) string {
	t.Helper()

	token, err := auth.GenerateToken(1, "tester", role, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return "Bearer " + token
}

func doRequest(t *testing.T, router *mux.Router, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCompleteOrderEvictsItemCache(t *testing.T) {
	f := newRouterFixture(t)
	item := f.seedItem(t, "ODH-1", 10)
	order := f.seedProcessingOrder(t, "ORD-ODH-1", item, 4)

	f.redis.Set(cache.ItemsPrefix+":stale", `{"success":true}`)

	rec := doRequest(t, f.router, "PATCH",
		fmt.Sprintf("/api/orders/%d/status", order.ID),
		bearer(t, authz.RoleManager), `{"status":"COMPLETED"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	if f.redis.Exists(cache.ItemsPrefix + ":stale") {
		t.Error("item cache survived order fulfillment")
	}

	got, err := f.items.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.CurrentStock != 6 {
		t.Errorf("stock = %d, want 6", got.CurrentStock)
	}
}

func TestCancelOrderKeepsItemCache(t *testing.T) {
	f := newRouterFixture(t)
	item := f.seedItem(t, "ODH-2", 10)
	order := f.seedProcessingOrder(t, "ORD-ODH-2", item, 4)

	f.redis.Set(cache.ItemsPrefix+":fresh", `{"success":true}`)

	// Cancellation never moves stock, so the cache stays valid.
	rec := doRequest(t, f.router, "PATCH",
		fmt.Sprintf("/api/orders/%d/status", order.ID),
		bearer(t, authz.RoleManager), `{"status":"CANCELLED"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	if !f.redis.Exists(cache.ItemsPrefix + ":fresh") {
		t.Error("cancellation evicted the item cache")
	}
}

func TestUpdateStatusRequiresManager(t *testing.T) {
	f := newRouterFixture(t)
	item := f.seedItem(t, "ODH-3", 10)
	order := f.seedProcessingOrder(t, "ORD-ODH-3", item, 4)

	rec := doRequest(t, f.router, "PATCH",
		fmt.Sprintf("/api/orders/%d/status", order.ID),
		bearer(t, authz.RoleEmployee), `{"status":"COMPLETED"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("employee status = %d, want 403", rec.Code)
	}
}
