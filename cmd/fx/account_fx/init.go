package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"grocart/internal/api/controllers"
	"grocart/internal/repositories"
	"grocart/internal/services"
	"grocart/pkg/realtime"
)

var Module = fx.Provide(
	provideUserRepo, provideAddressRepo,
	provideAuthService, provideAccountService,
	provideAuthController, provideAccountController)

func provideUserRepo(db *gorm.DB) repositories.UserRepositoryInterface {
	return repositories.NewUserRepository(db)
}

func provideAddressRepo(db *gorm.DB) repositories.AddressRepositoryInterface {
	return repositories.NewAddressRepository(db)
}

func provideAuthService(userRepo repositories.UserRepositoryInterface, hub *realtime.Hub) services.AuthServiceInterface {
	return services.NewAuthService(userRepo, hub)
}

func provideAccountService(userRepo repositories.UserRepositoryInterface, addressRepo repositories.AddressRepositoryInterface) services.AccountServiceInterface {
	return services.NewAccountService(userRepo, addressRepo)
}

func provideAuthController(authService services.AuthServiceInterface) *controllers.AuthController {
	return controllers.NewAuthController(authService)
}

func provideAccountController(accountService services.AccountServiceInterface) *controllers.AccountController {
	return controllers.NewAccountController(accountService)
}
