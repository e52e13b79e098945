package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	itemrepository "github.com/tair/smart-inventory/internal/item/repository"
	"github.com/tair/smart-inventory/internal/order/domain"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
	"github.com/tair/smart-inventory/pkg/keylock"
)

const lockTimeout = 3 * time.Second

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(order *domain.Order) error {
	return r.db.Create(order).Error
}

func (r *GormOrderRepository) FindByID(id uint) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.Preload("Lines").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByNumber(number string) (*domain.Order, error) {
	var order domain.Order
	if err := r.db.Preload("Lines").Where("order_number = ?", number).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %q", apperr.ErrNotFound, number)
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) ExistsByNumber(number string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Order{}).Where("order_number = ?", number).Count(&count).Error
	return count > 0, err
}

func (r *GormOrderRepository) FindAll(filter domain.Filter) ([]domain.Order, error) {
	q := r.db.Model(&domain.Order{}).Preload("Lines")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var orders []domain.Order
	err := q.Offset(filter.Offset).Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

// UpdateStatus flips the order status only if it still holds the
// expected value, so two concurrent transitions cannot both win.
func (r *GormOrderRepository) UpdateStatus(id uint, from, to string) error {
	res := r.db.Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Either the order is gone or its status moved under us.
		var count int64
		if err := r.db.Model(&domain.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: order %d", apperr.ErrNotFound, id)
		}
		return fmt.Errorf("%w: order %d is no longer %s", apperr.ErrConflict, id, from)
	}
	return nil
}

// Complete fulfills a PROCESSING order: every line's stock movement and
// the status flip commit in one database transaction, under the locks
// of all touched items. A failing line rolls the whole order back.
func (r *GormOrderRepository) Complete(ctx context.Context, id uint, actorID uint) (*domain.Order, []txdomain.Transaction, error) {
	order, err := r.FindByID(id)
	if err != nil {
		return nil, nil, err
	}
	if order.Status != domain.StatusProcessing {
		return nil, nil, fmt.Errorf("%w: order %s is %s, only PROCESSING orders can be completed",
			apperr.ErrInvalidTransition, order.OrderNumber, order.Status)
	}
	if len(order.Lines) == 0 {
		return nil, nil, fmt.Errorf("%w: order %s has no lines", apperr.ErrInvalidState, order.OrderNumber)
	}

	keys := make([]string, 0, len(order.Lines))
	for _, line := range order.Lines {
		keys = append(keys, itemrepository.ItemKey(line.ItemID))
	}

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	release, err := keylock.AcquireAll(lockCtx, keys)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: could not lock all order items", apperr.ErrConflict)
	}
	defer release()

	now := time.Now()
	var records []txdomain.Transaction
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Status guard inside the transaction: a concurrent completion
		// or cancellation loses this race cleanly.
		res := tx.Model(&domain.Order{}).
			Where("id = ? AND status = ?", id, domain.StatusProcessing).
			Updates(map[string]interface{}{
				"status":       domain.StatusCompleted,
				"completed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d is no longer PROCESSING", apperr.ErrConflict, id)
		}

		for _, line := range order.Lines {
			delta := line.Quantity
			if order.Type == domain.TypeSale {
				delta = -line.Quantity
			}

			orderID := order.ID
			_, record, applyErr := itemrepository.ApplyAdjustment(tx, itemdomain.StockAdjustment{
				ItemID:  line.ItemID,
				Delta:   delta,
				Type:    txdomain.TypeOrderFulfillment,
				Reason:  fmt.Sprintf("Order %s fulfillment", order.OrderNumber),
				ActorID: actorID,
				OrderID: &orderID,
			})
			if applyErr != nil {
				if errors.Is(applyErr, apperr.ErrInvalidStockOperation) {
					return fmt.Errorf("%w: %v", apperr.ErrInsufficientStock, applyErr)
				}
				return applyErr
			}
			records = append(records, *record)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	order.Status = domain.StatusCompleted
	order.CompletedAt = &now
	return order, records, nil
}
