//go:build wireinject
// +build wireinject

package category

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/category/delivery/http"
	"github.com/tair/smart-inventory/internal/category/domain"
	"github.com/tair/smart-inventory/internal/category/repository"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	itemrepository "github.com/tair/smart-inventory/internal/item/repository"
)

// ProvideCategoryRepository provides the category repository
func ProvideCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return repository.NewGormCategoryRepository(db)
}

func ProvideItemRepository(db *gorm.DB) itemdomain.ItemRepository {
	return itemrepository.NewGormItemRepositoryWithTracing(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideCategoryRepository,
	ProvideItemRepository,
)

// InitializeHandler initializes the category handler with all dependencies
func InitializeHandler(db *gorm.DB) (*http.CategoryHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewCategoryHandler,
	)
	return nil, nil
}
