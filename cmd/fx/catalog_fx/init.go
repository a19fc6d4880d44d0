package catalog_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"grocart/internal/api/controllers"
	"grocart/internal/repositories"
	"grocart/internal/services"
)

var Module = fx.Provide(
	provideProductRepo, provideProductService, provideProductController)

func provideProductRepo(db *gorm.DB) repositories.ProductRepositoryInterface {
	return repositories.NewProductRepository(db)
}

func provideProductService(productRepo repositories.ProductRepositoryInterface) services.ProductServiceInterface {
	return services.NewProductService(productRepo)
}

func provideProductController(productService services.ProductServiceInterface) *controllers.ProductController {
	return controllers.NewProductController(productService)
}
