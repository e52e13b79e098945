//go:build wireinject
// +build wireinject

package alert

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/alert/delivery/http"
	"github.com/tair/smart-inventory/internal/alert/domain"
	"github.com/tair/smart-inventory/internal/alert/engine"
	"github.com/tair/smart-inventory/internal/alert/repository"
	"github.com/tair/smart-inventory/internal/alert/usecase/command"
	"github.com/tair/smart-inventory/internal/alert/usecase/query"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	itemrepository "github.com/tair/smart-inventory/internal/item/repository"
	"github.com/tair/smart-inventory/kafka"
)

// ProvideAlertRepository provides the alert repository
func ProvideAlertRepository(db *gorm.DB) domain.AlertRepository {
	return repository.NewGormAlertRepository(db)
}

func ProvideItemRepository(db *gorm.DB) itemdomain.ItemRepository {
	return itemrepository.NewGormItemRepositoryWithTracing(db)
}

func ProvideEngine(alerts domain.AlertRepository, items itemdomain.ItemRepository, publisher *kafka.Publisher) *engine.Engine {
	return engine.New(alerts, items, publisher, engine.DefaultConfig())
}

// Command Handlers Providers
func ProvideResolveAlertHandler(alerts domain.AlertRepository) *command.ResolveAlertHandler {
	return command.NewResolveAlertHandler(alerts)
}

func ProvideIgnoreAlertHandler(alerts domain.AlertRepository) *command.IgnoreAlertHandler {
	return command.NewIgnoreAlertHandler(alerts)
}

// Query Handlers Providers
func ProvideListAlertsHandler(alerts domain.AlertRepository) *query.ListAlertsHandler {
	return query.NewListAlertsHandler(alerts)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideAlertRepository,
	ProvideItemRepository,
)

var HandlerSet = wire.NewSet(
	ProvideResolveAlertHandler,
	ProvideIgnoreAlertHandler,
	ProvideListAlertsHandler,
)

// InitializeEngine initializes the alert engine
func InitializeEngine(db *gorm.DB, publisher *kafka.Publisher) (*engine.Engine, error) {
	wire.Build(
		RepositorySet,
		ProvideEngine,
	)
	return nil, nil
}

// InitializeHandler initializes the alert handler with all dependencies
func InitializeHandler(db *gorm.DB, eng *engine.Engine) (*http.AlertHandler, error) {
	wire.Build(
		ProvideAlertRepository,
		HandlerSet,
		http.NewAlertHandler,
	)
	return nil, nil
}
