//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/alert/engine"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	itemrepository "github.com/tair/smart-inventory/internal/item/repository"
	"github.com/tair/smart-inventory/internal/order/delivery/http"
	"github.com/tair/smart-inventory/internal/order/domain"
	"github.com/tair/smart-inventory/internal/order/repository"
	"github.com/tair/smart-inventory/internal/order/usecase/command"
	"github.com/tair/smart-inventory/internal/order/usecase/query"
	"github.com/tair/smart-inventory/kafka"
)

// ProvideOrderRepository provides the order repository
func ProvideOrderRepository(db *gorm.DB) domain.OrderRepository {
	return repository.NewGormOrderRepository(db)
}

func ProvideItemRepository(db *gorm.DB) itemdomain.ItemRepository {
	return itemrepository.NewGormItemRepositoryWithTracing(db)
}

// Command Handlers Providers
func ProvideCreateOrderHandler(orders domain.OrderRepository, items itemdomain.ItemRepository) *command.CreateOrderHandler {
	return command.NewCreateOrderHandler(orders, items)
}

func ProvideUpdateStatusHandler(orders domain.OrderRepository, items itemdomain.ItemRepository, eng *engine.Engine, publisher *kafka.Publisher) *command.UpdateStatusHandler {
	return command.NewUpdateStatusHandler(orders, items, eng, publisher)
}

// Query Handlers Providers
func ProvideGetOrderHandler(orders domain.OrderRepository) *query.GetOrderHandler {
	return query.NewGetOrderHandler(orders)
}

func ProvideListOrdersHandler(orders domain.OrderRepository) *query.ListOrdersHandler {
	return query.NewListOrdersHandler(orders)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideOrderRepository,
	ProvideItemRepository,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateOrderHandler,
	ProvideUpdateStatusHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetOrderHandler,
	ProvideListOrdersHandler,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes the order handler with all dependencies
func InitializeHandler(db *gorm.DB, eng *engine.Engine, publisher *kafka.Publisher, redisClient *redis.Client) (*http.OrderHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewOrderHandler,
	)
	return nil, nil
}
