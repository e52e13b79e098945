//go:build wireinject
// +build wireinject

package transaction

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/alert/engine"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	itemrepository "github.com/tair/smart-inventory/internal/item/repository"
	itemcommand "github.com/tair/smart-inventory/internal/item/usecase/command"
	"github.com/tair/smart-inventory/internal/transaction/delivery/http"
	"github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/internal/transaction/repository"
	"github.com/tair/smart-inventory/kafka"
)

// ProvideTransactionRepository provides the ledger repository
func ProvideTransactionRepository(db *gorm.DB) domain.TransactionRepository {
	return repository.NewGormTransactionRepository(db)
}

func ProvideItemRepository(db *gorm.DB) itemdomain.ItemRepository {
	return itemrepository.NewGormItemRepositoryWithTracing(db)
}

func ProvideAdjustStockHandler(items itemdomain.ItemRepository, eng *engine.Engine, publisher *kafka.Publisher) *itemcommand.AdjustStockHandler {
	return itemcommand.NewAdjustStockHandler(items, eng, publisher)
}

// Wire sets
var HandlerSet = wire.NewSet(
	ProvideTransactionRepository,
	ProvideItemRepository,
	ProvideAdjustStockHandler,
)

// InitializeHandler initializes the transaction handler with all dependencies
func InitializeHandler(db *gorm.DB, eng *engine.Engine, publisher *kafka.Publisher, redisClient *redis.Client) (*http.TransactionHandler, error) {
	wire.Build(
		HandlerSet,
		http.NewTransactionHandler,
	)
	return nil, nil
}
