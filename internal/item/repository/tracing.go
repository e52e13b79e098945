package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/item/domain"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
)

var tracer = otel.Tracer("item-repository")

// GormItemRepositoryWithTracing adds spans around the stock mutation
// paths, which are the only contended operations in the service.
type GormItemRepositoryWithTracing struct {
	*GormItemRepository
}

func NewGormItemRepositoryWithTracing(db *gorm.DB) *GormItemRepositoryWithTracing {
	return &GormItemRepositoryWithTracing{
		GormItemRepository: NewGormItemRepository(db),
	}
}

func (r *GormItemRepositoryWithTracing) AdjustStock(ctx context.Context, adj domain.StockAdjustment) (*domain.Item, *txdomain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "repository.AdjustStock")
	span.SetAttributes(
		attribute.Int("item.id", int(adj.ItemID)),
		attribute.Int("stock.delta", adj.Delta),
		attribute.String("transaction.type", adj.Type),
	)
	defer span.End()

	item, record, err := r.GormItemRepository.AdjustStock(ctx, adj)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	span.SetAttributes(
		attribute.Int("stock.resulting", item.CurrentStock),
		attribute.Int("transaction.id", int(record.ID)),
	)
	return item, record, nil
}

func (r *GormItemRepositoryWithTracing) AdjustStockBatch(ctx context.Context, adjs []domain.StockAdjustment) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "repository.AdjustStockBatch")
	span.SetAttributes(attribute.Int("batch.size", len(adjs)))
	defer span.End()

	items, err := r.GormItemRepository.AdjustStockBatch(ctx, adjs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return items, nil
}
