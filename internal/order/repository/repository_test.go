package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	itemrepository "github.com/tair/smart-inventory/internal/item/repository"
	"github.com/tair/smart-inventory/internal/order/domain"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

func newTestDB(t *testing.T) (*gorm.DB, *GormOrderRepository, *itemrepository.GormItemRepository) {
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
		&domain.Order{},
		&domain.OrderLine{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db, NewGormOrderRepository(db), itemrepository.NewGormItemRepository(db)
}

func seedItem(t *testing.T, items *itemrepository.GormItemRepository, sku string, stock int) *itemdomain.Item {
	t.Helper()

	item := &itemdomain.Item{Name: "Test " + sku, SKU: sku, Active: true}
	if err := items.Create(item); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	if stock > 0 {
		if _, _, err := items.AdjustStock(context.Background(), itemdomain.StockAdjustment{
			ItemID: item.ID,
			Delta:  stock,
			Type:   txdomain.TypeStockIn,
		}); err != nil {
			t.Fatalf("failed to seed stock: %v", err)
		}
	}
	return item
}

func seedOrder(t *testing.T, orders *GormOrderRepository, orderType, status string, lines []domain.OrderLine) *domain.Order {
	t.Helper()

	order := &domain.Order{
		OrderNumber: "ORD-" + status + "-" + orderType,
		Type:        orderType,
		Status:      status,
		Lines:       lines,
		TotalAmount: domain.ComputeTotal(lines),
	}
	if err := orders.Create(order); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}
	return order
}

func TestCompleteSaleAppliesEveryLine(t *testing.T) {
	db, orders, items := newTestDB(t)
	first := seedItem(t, items, "ORD-1", 10)
	second := seedItem(t, items, "ORD-2", 8)

	order := seedOrder(t, orders, domain.TypeSale, domain.StatusProcessing, []domain.OrderLine{
		{ItemID: first.ID, Quantity: 4, UnitPrice: 2},
		{ItemID: second.ID, Quantity: 3, UnitPrice: 5},
	})

	completed, records, err := orders.Complete(context.Background(), order.ID, 7)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Status != domain.StatusCompleted {
		t.Errorf("Status = %q, want COMPLETED", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	for _, record := range records {
		if record.Type != txdomain.TypeOrderFulfillment {
			t.Errorf("record.Type = %q, want ORDER_FULFILLMENT", record.Type)
		}
		if record.OrderID == nil || *record.OrderID != order.ID {
			t.Errorf("record.OrderID = %v, want %d", record.OrderID, order.ID)
		}
	}

	got, err := items.FindByID(first.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.CurrentStock != 6 {
		t.Errorf("first stock = %d, want 6", got.CurrentStock)
	}
	got, err = items.FindByID(second.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.CurrentStock != 5 {
		t.Errorf("second stock = %d, want 5", got.CurrentStock)
	}

	var count int64
	db.Model(&txdomain.Transaction{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 2 {
		t.Errorf("fulfillment rows = %d, want 2", count)
	}
}

func TestCompletePurchaseAddsStock(t *testing.T) {
	_, orders, items := newTestDB(t)
	item := seedItem(t, items, "ORD-3", 2)

	order := seedOrder(t, orders, domain.TypePurchase, domain.StatusProcessing, []domain.OrderLine{
		{ItemID: item.ID, Quantity: 9, UnitPrice: 1},
	})

	if _, _, err := orders.Complete(context.Background(), order.ID, 7); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	got, err := items.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.CurrentStock != 11 {
		t.Errorf("stock = %d, want 11", got.CurrentStock)
	}
}

func TestCompleteRollsBackOnInsufficientStock(t *testing.T) {
	db, orders, items := newTestDB(t)
	rich := seedItem(t, items, "ORD-4", 10)
	poor := seedItem(t, items, "ORD-5", 1)

	order := seedOrder(t, orders, domain.TypeSale, domain.StatusProcessing, []domain.OrderLine{
		{ItemID: rich.ID, Quantity: 5, UnitPrice: 1},
		{ItemID: poor.ID, Quantity: 5, UnitPrice: 1},
	})

	_, _, err := orders.Complete(context.Background(), order.ID, 7)
	if !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// Nothing may have been applied: no status flip, no stock change,
	// no ledger rows.
	reloaded, err := orders.FindByID(order.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if reloaded.Status != domain.StatusProcessing {
		t.Errorf("Status = %q, want PROCESSING", reloaded.Status)
	}

	got, err := items.FindByID(rich.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.CurrentStock != 10 {
		t.Errorf("rich stock = %d, want 10", got.CurrentStock)
	}

	var count int64
	db.Model(&txdomain.Transaction{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 0 {
		t.Errorf("fulfillment rows = %d, want 0", count)
	}
}

func TestCompleteRejectsNonProcessing(t *testing.T) {
	_, orders, items := newTestDB(t)
	item := seedItem(t, items, "ORD-6", 10)

	order := seedOrder(t, orders, domain.TypeSale, domain.StatusPending, []domain.OrderLine{
		{ItemID: item.ID, Quantity: 1, UnitPrice: 1},
	})

	_, _, err := orders.Complete(context.Background(), order.ID, 7)
	if !errors.Is(err, apperr.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusGuardsExpectedValue(t *testing.T) {
	_, orders, items := newTestDB(t)
	item := seedItem(t, items, "ORD-7", 10)

	order := seedOrder(t, orders, domain.TypeSale, domain.StatusPending, []domain.OrderLine{
		{ItemID: item.ID, Quantity: 1, UnitPrice: 1},
	})

	if err := orders.UpdateStatus(order.ID, domain.StatusPending, domain.StatusProcessing); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	// The order is no longer PENDING, so the same transition loses.
	err := orders.UpdateStatus(order.ID, domain.StatusPending, domain.StatusCancelled)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	if err := orders.UpdateStatus(99999, domain.StatusPending, domain.StatusCancelled); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
