package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/smart-inventory/internal/item/domain"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps every session on the same in-memory
	// database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.Item{}, &txdomain.Transaction{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createItem(t *testing.T, repo *GormItemRepository, sku string, stock, minimum int) *domain.Item {
	t.Helper()

	item := &domain.Item{
		Name:         "Test " + sku,
		SKU:          sku,
		CurrentStock: 0,
		MinimumStock: minimum,
		Active:       true,
	}
	if err := repo.Create(item); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	if stock > 0 {
		if _, _, err := repo.AdjustStock(context.Background(), domain.StockAdjustment{
			ItemID: item.ID,
			Delta:  stock,
			Type:   txdomain.TypeStockIn,
			Reason: "Initial stock",
		}); err != nil {
			t.Fatalf("failed to seed stock: %v", err)
		}
		item.CurrentStock = stock
	}
	return item
}

func ledgerSum(t *testing.T, db *gorm.DB, itemID uint) int64 {
	t.Helper()

	var sum int64
	err := db.Model(&txdomain.Transaction{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	if err != nil {
		t.Fatalf("failed to sum ledger: %v", err)
	}
	return sum
}

func TestAdjustStockAppendsLedger(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	item := createItem(t, repo, "WIDGET-1", 10, 2)

	updated, record, err := repo.AdjustStock(context.Background(), domain.StockAdjustment{
		ItemID: item.ID,
		Delta:  -4,
		Type:   txdomain.TypeStockOut,
		Reason: "Sold",
	})
	if err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}
	if updated.CurrentStock != 6 {
		t.Errorf("CurrentStock = %d, want 6", updated.CurrentStock)
	}
	if record.Quantity != -4 {
		t.Errorf("record.Quantity = %d, want -4", record.Quantity)
	}
	if record.Type != txdomain.TypeStockOut {
		t.Errorf("record.Type = %q, want %q", record.Type, txdomain.TypeStockOut)
	}

	if sum := ledgerSum(t, db, item.ID); sum != 6 {
		t.Errorf("ledger sum = %d, want 6", sum)
	}

	var count int64
	db.Model(&txdomain.Transaction{}).Where("item_id = ?", item.ID).Count(&count)
	if count != 2 {
		t.Errorf("transaction count = %d, want 2", count)
	}
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	item := createItem(t, repo, "WIDGET-2", 5, 2)

	_, _, err := repo.AdjustStock(context.Background(), domain.StockAdjustment{
		ItemID: item.ID,
		Delta:  -8,
		Type:   txdomain.TypeStockOut,
	})
	if !errors.Is(err, apperr.ErrInvalidStockOperation) {
		t.Fatalf("err = %v, want ErrInvalidStockOperation", err)
	}

	// The failed mutation must leave no trace.
	reloaded, err := repo.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if reloaded.CurrentStock != 5 {
		t.Errorf("CurrentStock = %d, want 5", reloaded.CurrentStock)
	}
	if sum := ledgerSum(t, db, item.ID); sum != 5 {
		t.Errorf("ledger sum = %d, want 5", sum)
	}
}

func TestAdjustStockRejectsZeroDelta(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	item := createItem(t, repo, "WIDGET-3", 5, 2)

	_, _, err := repo.AdjustStock(context.Background(), domain.StockAdjustment{
		ItemID: item.ID,
		Delta:  0,
		Type:   txdomain.TypeAdjustment,
	})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestAdjustStockRejectsDeactivatedItem(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	item := createItem(t, repo, "WIDGET-4", 5, 2)

	if err := repo.Deactivate(item.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	_, _, err := repo.AdjustStock(context.Background(), domain.StockAdjustment{
		ItemID: item.ID,
		Delta:  3,
		Type:   txdomain.TypeStockIn,
	})
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestAdjustStockConcurrentNeverNegative(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	item := createItem(t, repo, "WIDGET-5", 5, 0)

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := repo.AdjustStock(context.Background(), domain.StockAdjustment{
				ItemID: item.ID,
				Delta:  -1,
				Type:   txdomain.TypeStockOut,
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else if !errors.Is(err, apperr.ErrInvalidStockOperation) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 5 {
		t.Errorf("succeeded = %d, want 5", succeeded)
	}

	reloaded, err := repo.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if reloaded.CurrentStock != 0 {
		t.Errorf("CurrentStock = %d, want 0", reloaded.CurrentStock)
	}
	if sum := ledgerSum(t, db, item.ID); sum != 0 {
		t.Errorf("ledger sum = %d, want 0", sum)
	}
}

func TestAdjustStockBatchAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	rich := createItem(t, repo, "WIDGET-6", 10, 0)
	poor := createItem(t, repo, "WIDGET-7", 1, 0)

	_, err := repo.AdjustStockBatch(context.Background(), []domain.StockAdjustment{
		{ItemID: rich.ID, Delta: -5, Type: txdomain.TypeStockOut},
		{ItemID: poor.ID, Delta: -5, Type: txdomain.TypeStockOut},
	})
	if !errors.Is(err, apperr.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	// The first line must have rolled back with the second.
	reloaded, err := repo.FindByID(rich.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if reloaded.CurrentStock != 10 {
		t.Errorf("CurrentStock = %d, want 10", reloaded.CurrentStock)
	}
	if sum := ledgerSum(t, db, rich.ID); sum != 10 {
		t.Errorf("ledger sum = %d, want 10", sum)
	}
}

func TestAdjustStockBatchApplies(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	first := createItem(t, repo, "WIDGET-8", 10, 0)
	second := createItem(t, repo, "WIDGET-9", 8, 0)

	items, err := repo.AdjustStockBatch(context.Background(), []domain.StockAdjustment{
		{ItemID: first.ID, Delta: -3, Type: txdomain.TypeStockOut},
		{ItemID: second.ID, Delta: -2, Type: txdomain.TypeStockOut},
	})
	if err != nil {
		t.Fatalf("AdjustStockBatch failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].CurrentStock != 7 || items[1].CurrentStock != 6 {
		t.Errorf("stocks = %d, %d, want 7, 6", items[0].CurrentStock, items[1].CurrentStock)
	}
}

func TestFindBySKUIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	createItem(t, repo, "widget-10", 1, 0)

	item, err := repo.FindBySKU("Widget-10")
	if err != nil {
		t.Fatalf("FindBySKU failed: %v", err)
	}
	if item.SKU != "WIDGET-10" {
		t.Errorf("SKU = %q, want stored upper-case", item.SKU)
	}

	if _, err := repo.FindBySKU("missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFindLowStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormItemRepository(db)
	low := createItem(t, repo, "WIDGET-11", 2, 5)
	createItem(t, repo, "WIDGET-12", 50, 5)
	inactive := createItem(t, repo, "WIDGET-13", 1, 5)
	if err := repo.Deactivate(inactive.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	items, err := repo.FindLowStock()
	if err != nil {
		t.Fatalf("FindLowStock failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != low.ID {
		t.Errorf("FindLowStock returned %d items, want only the low active one", len(items))
	}
}
