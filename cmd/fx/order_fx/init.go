package order_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"grocart/internal/api/controllers"
	"grocart/internal/services"
	"grocart/pkg/realtime"
)

var Module = fx.Provide(
	provideCheckoutService, provideOrderService, provideOrderController)

func provideCheckoutService(db *gorm.DB, hub *realtime.Hub) services.CheckoutServiceInterface {
	return services.NewCheckoutService(db, hub)
}

func provideOrderService(db *gorm.DB, hub *realtime.Hub) services.OrderServiceInterface {
	return services.NewOrderService(db, hub)
}

func provideOrderController(checkoutService services.CheckoutServiceInterface, orderService services.OrderServiceInterface) *controllers.OrderController {
	return controllers.NewOrderController(checkoutService, orderService)
}
