package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/alert/domain"
	"github.com/tair/smart-inventory/pkg/apperr"
)

type GormAlertRepository struct {
	db *gorm.DB
}

func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

func (r *GormAlertRepository) Create(alert *domain.Alert) error {
	return r.db.Create(alert).Error
}

func (r *GormAlertRepository) FindByID(id uint) (*domain.Alert, error) {
	var alert domain.Alert
	if err := r.db.First(&alert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: alert %d", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &alert, nil
}

func (r *GormAlertRepository) FindAll(filter domain.Filter) ([]domain.Alert, error) {
	q := r.db.Model(&domain.Alert{})
	if filter.ItemID != 0 {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.Type != "" {
		q = q.Where("alert_type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var alerts []domain.Alert
	err := q.Offset(filter.Offset).Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *GormAlertRepository) FindActive(itemID uint, alertType string) (*domain.Alert, error) {
	var alert domain.Alert
	err := r.db.
		Where("item_id = ? AND alert_type = ? AND status = ?", itemID, alertType, domain.StatusActive).
		First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no active %s alert for item %d", apperr.ErrNotFound, alertType, itemID)
		}
		return nil, err
	}
	return &alert, nil
}

func (r *GormAlertRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Alert{}).
		Where("status = ?", domain.StatusActive).
		Count(&count).Error
	return count, err
}

func (r *GormAlertRepository) Update(alert *domain.Alert) error {
	return r.db.Save(alert).Error
}
