package user_fx

import (
	"go.uber.org/fx"

	"grocart/internal/api/controllers"
	"grocart/internal/repositories"
	"grocart/internal/services"
)

var Module = fx.Provide(
	provideUserService, provideUserController)

func provideUserService(userRepo repositories.UserRepositoryInterface) services.UserServiceInterface {
	return services.NewUserService(userRepo)
}

func provideUserController(userService services.UserServiceInterface) *controllers.UserController {
	return controllers.NewUserController(userService)
}
