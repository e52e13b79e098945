//go:build wireinject
// +build wireinject

package item

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/alert/engine"
	catdomain "github.com/tair/smart-inventory/internal/category/domain"
	catrepository "github.com/tair/smart-inventory/internal/category/repository"
	"github.com/tair/smart-inventory/internal/item/delivery/http"
	"github.com/tair/smart-inventory/internal/item/domain"
	"github.com/tair/smart-inventory/internal/item/repository"
	"github.com/tair/smart-inventory/internal/item/usecase/command"
	"github.com/tair/smart-inventory/internal/item/usecase/query"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	txrepository "github.com/tair/smart-inventory/internal/transaction/repository"
)

// ProvideItemRepository provides the item repository with tracing
func ProvideItemRepository(db *gorm.DB) domain.ItemRepository {
	return repository.NewGormItemRepositoryWithTracing(db)
}

func ProvideCategoryRepository(db *gorm.DB) catdomain.CategoryRepository {
	return catrepository.NewGormCategoryRepository(db)
}

func ProvideTransactionRepository(db *gorm.DB) txdomain.TransactionRepository {
	return txrepository.NewGormTransactionRepository(db)
}

// Command Handlers Providers
func ProvideCreateItemHandler(items domain.ItemRepository, categories catdomain.CategoryRepository) *command.CreateItemHandler {
	return command.NewCreateItemHandler(items, categories)
}

func ProvideUpdateItemHandler(items domain.ItemRepository, categories catdomain.CategoryRepository, eng *engine.Engine) *command.UpdateItemHandler {
	return command.NewUpdateItemHandler(items, categories, eng)
}

func ProvideDeactivateItemHandler(items domain.ItemRepository) *command.DeactivateItemHandler {
	return command.NewDeactivateItemHandler(items)
}

// Query Handlers Providers
func ProvideGetItemHandler(items domain.ItemRepository) *query.GetItemHandler {
	return query.NewGetItemHandler(items)
}

func ProvideListItemsHandler(items domain.ItemRepository) *query.ListItemsHandler {
	return query.NewListItemsHandler(items)
}

func ProvideVerifyStockHandler(items domain.ItemRepository, ledger txdomain.TransactionRepository) *query.VerifyStockHandler {
	return query.NewVerifyStockHandler(items, ledger)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideItemRepository,
	ProvideCategoryRepository,
	ProvideTransactionRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateItemHandler,
	ProvideUpdateItemHandler,
	ProvideDeactivateItemHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetItemHandler,
	ProvideListItemsHandler,
	ProvideVerifyStockHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes the item handler with all dependencies
func InitializeHandler(db *gorm.DB, eng *engine.Engine, redisClient *redis.Client) (*http.ItemHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewItemHandler,
	)
	return nil, nil
}
