package query

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/smart-inventory/internal/item/domain"
	itemrepository "github.com/tair/smart-inventory/internal/item/repository"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	txrepository "github.com/tair/smart-inventory/internal/transaction/repository"
	"github.com/tair/smart-inventory/pkg/apperr"
)

func newVerifyHandler(t *testing.T) (*VerifyStockHandler, *itemrepository.GormItemRepository, *gorm.DB) {
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

	if err := db.AutoMigrate(&domain.Item{}, &txdomain.Transaction{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	items := itemrepository.NewGormItemRepository(db)
	ledger := txrepository.NewGormTransactionRepository(db)
	return NewVerifyStockHandler(items, ledger), items, db
}

func TestVerifyStockConsistent(t *testing.T) {
	handler, items, _ := newVerifyHandler(t)

	item := &domain.Item{Name: "Bolt", SKU: "BLT-001", Active: true}
	if err := items.Create(item); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, delta := range []int{10, -3, 5} {
		txType := txdomain.TypeStockIn
		if delta < 0 {
			txType = txdomain.TypeStockOut
		}
		if _, _, err := items.AdjustStock(context.Background(), domain.StockAdjustment{
			ItemID: item.ID, Delta: delta, Type: txType,
		}); err != nil {
			t.Fatalf("AdjustStock failed: %v", err)
		}
	}

	report, err := handler.Handle(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !report.Consistent {
		t.Error("report.Consistent = false, want true")
	}
	if report.CurrentStock != 12 || report.LedgerSum != 12 {
		t.Errorf("stock/sum = %d/%d, want 12/12", report.CurrentStock, report.LedgerSum)
	}
}

func TestVerifyStockDetectsDrift(t *testing.T) {
	handler, items, db := newVerifyHandler(t)

	item := &domain.Item{Name: "Nut", SKU: "NUT-001", Active: true}
	if err := items.Create(item); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, _, err := items.AdjustStock(context.Background(), domain.StockAdjustment{
		ItemID: item.ID, Delta: 10, Type: txdomain.TypeStockIn,
	}); err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}

	// Corrupt the materialized counter behind the ledger's back.
	if err := db.Model(&domain.Item{}).Where("id = ?", item.ID).
		Update("current_stock", 7).Error; err != nil {
		t.Fatalf("failed to corrupt stock: %v", err)
	}

	report, err := handler.Handle(context.Background(), item.ID)
	if !errors.Is(err, apperr.ErrIntegrity) {
		t.Fatalf("err = %v, want ErrIntegrity", err)
	}
	if report == nil {
		t.Fatal("report is nil, want mismatch details")
	}
	if report.Consistent {
		t.Error("report.Consistent = true, want false")
	}
	if report.CurrentStock != 7 || report.LedgerSum != 10 {
		t.Errorf("stock/sum = %d/%d, want 7/10", report.CurrentStock, report.LedgerSum)
	}
}
