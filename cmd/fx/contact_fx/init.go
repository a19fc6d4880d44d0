package contact_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"grocart/internal/api/controllers"
	"grocart/internal/repositories"
	"grocart/internal/services"
	"grocart/pkg/realtime"
)

var Module = fx.Provide(
	provideContactRepo, provideContactService, provideContactController)

func provideContactRepo(db *gorm.DB) repositories.ContactRepositoryInterface {
	return repositories.NewContactRepository(db)
}

func provideContactService(contactRepo repositories.ContactRepositoryInterface, hub *realtime.Hub) services.ContactServiceInterface {
	return services.NewContactService(contactRepo, hub)
}

func provideContactController(contactService services.ContactServiceInterface) *controllers.ContactController {
	return controllers.NewContactController(contactService)
}
