package cart_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"grocart/internal/api/controllers"
	"grocart/internal/repositories"
	"grocart/internal/services"
)

var Module = fx.Provide(
	provideCartRepo, provideCartService, provideCartController)

func provideCartRepo(db *gorm.DB) repositories.CartRepositoryInterface {
	return repositories.NewCartRepository(db)
}

func provideCartService(cartRepo repositories.CartRepositoryInterface, productRepo repositories.ProductRepositoryInterface) services.CartServiceInterface {
	return services.NewCartService(cartRepo, productRepo)
}

func provideCartController(cartService services.CartServiceInterface) *controllers.CartController {
	return controllers.NewCartController(cartService)
}
