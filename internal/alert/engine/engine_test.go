package engine

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/smart-inventory/internal/alert/domain"
	alertrepository "github.com/tair/smart-inventory/internal/alert/repository"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	itemrepository "github.com/tair/smart-inventory/internal/item/repository"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
)

func newTestEngine(t *testing.T) (*Engine, *itemrepository.GormItemRepository, *alertrepository.GormAlertRepository) {
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

	if err := db.AutoMigrate(&itemdomain.Item{}, &txdomain.Transaction{}, &domain.Alert{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	items := itemrepository.NewGormItemRepository(db)
	alerts := alertrepository.NewGormAlertRepository(db)
	return New(alerts, items, nil, DefaultConfig()), items, alerts
}

func seedItem(t *testing.T, items *itemrepository.GormItemRepository, sku string, stock, minimum int, expiry *time.Time) *itemdomain.Item {
	t.Helper()

	item := &itemdomain.Item{
		Name:         "Test " + sku,
		SKU:          sku,
		MinimumStock: minimum,
		ExpiryDate:   expiry,
		Active:       true,
	}
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

func activeAlert(t *testing.T, alerts *alertrepository.GormAlertRepository, itemID uint, alertType string) *domain.Alert {
	t.Helper()

	alert, err := alerts.FindActive(itemID, alertType)
	if err != nil {
		t.Fatalf("expected active %s alert: %v", alertType, err)
	}
	return alert
}

func TestEvaluateRaisesLowStockOnce(t *testing.T) {
	eng, items, alerts := newTestEngine(t)
	item := seedItem(t, items, "ENG-1", 3, 5, nil)

	raised, err := eng.EvaluateItem(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}
	if raised != 1 {
		t.Errorf("raised = %d, want 1", raised)
	}

	alert := activeAlert(t, alerts, item.ID, domain.TypeLowStock)
	want := "Low stock alert: Test ENG-1 has only 3 units left (minimum: 5)"
	if alert.Message != want {
		t.Errorf("message = %q, want %q", alert.Message, want)
	}

	// Re-evaluation of an unchanged item must not duplicate.
	raised, err = eng.EvaluateItem(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("second EvaluateItem failed: %v", err)
	}
	if raised != 0 {
		t.Errorf("second raised = %d, want 0", raised)
	}

	all, err := alerts.FindAll(domain.Filter{ItemID: item.ID})
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("alert count = %d, want 1", len(all))
	}
}

func TestOutOfStockSupersedesLowStock(t *testing.T) {
	eng, items, alerts := newTestEngine(t)
	item := seedItem(t, items, "ENG-2", 2, 5, nil)

	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}
	activeAlert(t, alerts, item.ID, domain.TypeLowStock)

	// Drain the stock entirely.
	if _, _, err := items.AdjustStock(context.Background(), itemdomain.StockAdjustment{
		ItemID: item.ID, Delta: -2, Type: txdomain.TypeStockOut,
	}); err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}
	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}

	activeAlert(t, alerts, item.ID, domain.TypeOutOfStock)

	resolved, err := alerts.FindAll(domain.Filter{ItemID: item.ID, Type: domain.TypeLowStock})
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(resolved) != 1 || resolved[0].Status != domain.StatusResolved {
		t.Fatalf("low stock alert not auto-resolved: %+v", resolved)
	}
	if resolved[0].ResolvedBy != domain.SystemResolver {
		t.Errorf("ResolvedBy = %q, want %q", resolved[0].ResolvedBy, domain.SystemResolver)
	}
}

func TestRestockAutoResolves(t *testing.T) {
	eng, items, alerts := newTestEngine(t)
	item := seedItem(t, items, "ENG-3", 1, 5, nil)

	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}
	activeAlert(t, alerts, item.ID, domain.TypeLowStock)

	if _, _, err := items.AdjustStock(context.Background(), itemdomain.StockAdjustment{
		ItemID: item.ID, Delta: 20, Type: txdomain.TypeStockIn,
	}); err != nil {
		t.Fatalf("AdjustStock failed: %v", err)
	}
	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}

	count, err := alerts.CountActive()
	if err != nil {
		t.Fatalf("CountActive failed: %v", err)
	}
	if count != 0 {
		t.Errorf("active alerts = %d, want 0", count)
	}
}

func TestExpiredSupersedesApproaching(t *testing.T) {
	eng, items, alerts := newTestEngine(t)

	soon := time.Now().Add(10 * 24 * time.Hour)
	item := seedItem(t, items, "ENG-4", 50, 5, &soon)

	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}
	activeAlert(t, alerts, item.ID, domain.TypeExpiryApproaching)

	// Move the expiry into the past.
	loaded, err := items.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	past := time.Now().Add(-24 * time.Hour)
	loaded.ExpiryDate = &past
	if err := items.Update(loaded); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}

	activeAlert(t, alerts, item.ID, domain.TypeExpired)

	approaching, err := alerts.FindAll(domain.Filter{ItemID: item.ID, Type: domain.TypeExpiryApproaching})
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(approaching) != 1 || approaching[0].Status != domain.StatusResolved {
		t.Fatalf("approaching alert not auto-resolved: %+v", approaching)
	}
}

func TestExpiryAlertClearsWhenDateExtended(t *testing.T) {
	eng, items, alerts := newTestEngine(t)

	soon := time.Now().Add(10 * 24 * time.Hour)
	item := seedItem(t, items, "ENG-8", 50, 5, &soon)

	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}
	activeAlert(t, alerts, item.ID, domain.TypeExpiryApproaching)

	// Push the expiry well past the lookahead window.
	loaded, err := items.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	far := time.Now().Add(90 * 24 * time.Hour)
	loaded.ExpiryDate = &far
	if err := items.Update(loaded); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}

	approaching, err := alerts.FindAll(domain.Filter{ItemID: item.ID, Type: domain.TypeExpiryApproaching})
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}
	if len(approaching) != 1 || approaching[0].Status != domain.StatusResolved {
		t.Fatalf("approaching alert not auto-resolved: %+v", approaching)
	}
	if approaching[0].ResolvedBy != domain.SystemResolver {
		t.Errorf("ResolvedBy = %q, want %q", approaching[0].ResolvedBy, domain.SystemResolver)
	}
}

func TestExpiredAlertClearsWhenDateRemoved(t *testing.T) {
	eng, items, alerts := newTestEngine(t)

	past := time.Now().Add(-24 * time.Hour)
	item := seedItem(t, items, "ENG-9", 50, 5, &past)

	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}
	activeAlert(t, alerts, item.ID, domain.TypeExpired)

	loaded, err := items.FindByID(item.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	loaded.ExpiryDate = nil
	if err := items.Update(loaded); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := eng.EvaluateItem(context.Background(), item.ID); err != nil {
		t.Fatalf("EvaluateItem failed: %v", err)
	}

	count, err := alerts.CountActive()
	if err != nil {
		t.Fatalf("CountActive failed: %v", err)
	}
	if count != 0 {
		t.Errorf("active alerts = %d, want 0", count)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	eng, items, _ := newTestEngine(t)
	seedItem(t, items, "ENG-5", 1, 5, nil)
	seedItem(t, items, "ENG-6", 0, 5, nil)
	seedItem(t, items, "ENG-7", 100, 5, nil)

	raised, err := eng.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if raised != 2 {
		t.Errorf("raised = %d, want 2", raised)
	}

	raised, err = eng.Sweep(context.Background())
	if err != nil {
		t.Fatalf("second Sweep failed: %v", err)
	}
	if raised != 0 {
		t.Errorf("second sweep raised = %d, want 0", raised)
	}
}
