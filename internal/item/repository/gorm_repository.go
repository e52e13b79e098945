package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/item/domain"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/keylock"
)

// lockTimeout bounds how long a mutation waits for a contended item
// before surfacing Conflict instead of hanging.
const lockTimeout = 3 * time.Second

type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// ItemKey is the keylock key guarding an item's stock counter.
func ItemKey(id uint) string {
	return fmt.Sprintf("item/%d", id)
}

func (r *GormItemRepository) Create(item *domain.Item) error {
	item.SKU = domain.NormalizeSKU(item.SKU)
	return r.db.Create(item).Error
}

func (r *GormItemRepository) FindByID(id uint) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, wrapNotFound(err, "item %d", id)
	}
	return &item, nil
}

func (r *GormItemRepository) FindBySKU(sku string) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.Where("sku = ?", domain.NormalizeSKU(sku)).First(&item).Error; err != nil {
		return nil, wrapNotFound(err, "item with sku %q", sku)
	}
	return &item, nil
}

func (r *GormItemRepository) FindAll(filter domain.ListFilter) ([]domain.Item, error) {
	q := r.db.Model(&domain.Item{})
	if filter.CategoryID != 0 {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Name)+"%")
	}
	if filter.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var items []domain.Item
	err := q.Offset(filter.Offset).Order("name").Find(&items).Error
	return items, err
}

func (r *GormItemRepository) FindLowStock() ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.
		Where("current_stock <= minimum_stock AND active = ?", true).
		Order("name").
		Find(&items).Error
	return items, err
}

func (r *GormItemRepository) FindExpiringBefore(date time.Time) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.
		Where("expiry_date IS NOT NULL AND expiry_date <= ? AND active = ?", date, true).
		Order("expiry_date").
		Find(&items).Error
	return items, err
}

func (r *GormItemRepository) CountByCategory(categoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Item{}).
		Where("category_id = ? AND active = ?", categoryID, true).
		Count(&count).Error
	return count, err
}

func (r *GormItemRepository) Update(item *domain.Item) error {
	item.SKU = domain.NormalizeSKU(item.SKU)
	return r.db.Save(item).Error
}

// Deactivate soft-disables an item. Items with recorded transactions
// are never hard-deleted so the ledger stays referentially intact.
func (r *GormItemRepository) Deactivate(id uint) error {
	res := r.db.Model(&domain.Item{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: item %d", apperr.ErrNotFound, id)
	}
	return nil
}

// ApplyAdjustment appends one ledger entry and updates the item's
// materialized stock inside the caller's database transaction. Callers
// must already hold the item's keylock so check-then-append cannot race.
func ApplyAdjustment(tx *gorm.DB, adj domain.StockAdjustment) (*domain.Item, *txdomain.Transaction, error) {
	if adj.Delta == 0 {
		return nil, nil, fmt.Errorf("%w: stock delta must be non-zero", apperr.ErrInvalidArgument)
	}
	if !txdomain.ValidType(adj.Type) {
		return nil, nil, fmt.Errorf("%w: unknown transaction type %q", apperr.ErrInvalidArgument, adj.Type)
	}

	var item domain.Item
	if err := tx.First(&item, adj.ItemID).Error; err != nil {
		return nil, nil, wrapNotFound(err, "item %d", adj.ItemID)
	}

	if !item.Active {
		return nil, nil, fmt.Errorf("%w: item %s is deactivated", apperr.ErrInvalidState, item.SKU)
	}

	newStock := item.CurrentStock + adj.Delta
	if newStock < 0 {
		return nil, nil, fmt.Errorf("%w: item %s has %d units, requested delta %d",
			apperr.ErrInvalidStockOperation, item.SKU, item.CurrentStock, adj.Delta)
	}

	record := &txdomain.Transaction{
		ItemID:    item.ID,
		Quantity:  adj.Delta,
		Type:      adj.Type,
		Notes:     adj.Reason,
		OrderID:   adj.OrderID,
		CreatedBy: adj.ActorID,
	}
	if err := tx.Create(record).Error; err != nil {
		return nil, nil, err
	}

	if err := tx.Model(&domain.Item{}).Where("id = ?", item.ID).
		Update("current_stock", newStock).Error; err != nil {
		return nil, nil, err
	}

	item.CurrentStock = newStock
	return &item, record, nil
}

// AdjustStock applies a single stock mutation: per-item lock, then one
// database transaction covering the ledger append and the stock update.
func (r *GormItemRepository) AdjustStock(ctx context.Context, adj domain.StockAdjustment) (*domain.Item, *txdomain.Transaction, error) {
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	release, err := keylock.Acquire(lockCtx, ItemKey(adj.ItemID))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: item %d is locked by another operation", apperr.ErrConflict, adj.ItemID)
	}
	defer release()

	var item *domain.Item
	var record *txdomain.Transaction
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		item, record, txErr = ApplyAdjustment(tx, adj)
		return txErr
	})
	if err != nil {
		return nil, nil, err
	}
	return item, record, nil
}

// AdjustStockBatch applies a group of mutations all-or-nothing. Locks
// are taken in a fixed global order to stay deadlock-free against other
// multi-item groups; the whole group shares one database transaction,
// so a failing line rolls every line back.
func (r *GormItemRepository) AdjustStockBatch(ctx context.Context, adjs []domain.StockAdjustment) ([]domain.Item, error) {
	if len(adjs) == 0 {
		return nil, fmt.Errorf("%w: no adjustments given", apperr.ErrInvalidArgument)
	}

	keys := make([]string, 0, len(adjs))
	for _, adj := range adjs {
		keys = append(keys, ItemKey(adj.ItemID))
	}

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	release, err := keylock.AcquireAll(lockCtx, keys)
	if err != nil {
		return nil, fmt.Errorf("%w: could not lock all items", apperr.ErrConflict)
	}
	defer release()

	var items []domain.Item
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, adj := range adjs {
			item, _, applyErr := ApplyAdjustment(tx, adj)
			if applyErr != nil {
				if errors.Is(applyErr, apperr.ErrInvalidStockOperation) {
					return fmt.Errorf("%w: %v", apperr.ErrInsufficientStock, applyErr)
				}
				return applyErr
			}
			items = append(items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func wrapNotFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: "+format, append([]interface{}{apperr.ErrNotFound}, args...)...)
	}
	return err
}
