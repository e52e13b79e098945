package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

// GormTransactionRepository reads the ledger. Writes happen through the
// item store's atomic adjustment path, never here.
type GormTransactionRepository struct {
	db *gorm.DB
}

func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) FindByID(id uint) (*domain.Transaction, error) {
	var tx domain.Transaction
	if err := r.db.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: transaction %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &tx, nil
}

func (r *GormTransactionRepository) FindAll(filter domain.Filter) ([]domain.Transaction, error) {
	q := r.db.Model(&domain.Transaction{})
	if filter.ItemID != 0 {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var txs []domain.Transaction
	err := q.Offset(filter.Offset).Order("created_at DESC, id DESC").Find(&txs).Error
	return txs, err
}

func (r *GormTransactionRepository) FindByItem(itemID uint, limit, offset int) ([]domain.Transaction, error) {
	return r.FindAll(domain.Filter{ItemID: itemID, Limit: limit, Offset: offset})
}

// SumByItem replays the item's ledger. COALESCE keeps an empty history
// at zero instead of NULL.
func (r *GormTransactionRepository) SumByItem(itemID uint) (int64, error) {
	var sum int64
	err := r.db.Model(&domain.Transaction{}).
		Where("item_id = ?", itemID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	return sum, err
}
