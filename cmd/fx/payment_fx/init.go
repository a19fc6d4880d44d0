package payment_fx

import (
	"log"
	"os"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"grocart/internal/api/controllers"
	"grocart/internal/gateway"
	"grocart/internal/services"
	"grocart/pkg/memcache"
	"grocart/pkg/realtime"
)

var Module = fx.Provide(
	provideGatewayConfig, provideGateway, provideWebhookEvents,
	providePaymentService, providePaymentController)

func provideGatewayConfig() gateway.Config {
	return gateway.Config{
		KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
		KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
		WebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
	}
}

func provideGateway(cfg gateway.Config) gateway.Gateway {
	return gateway.NewRazorpayGateway(cfg)
}

func provideWebhookEvents() memcache.WebhookEventStore {
	return memcache.NewWebhookEvents()
}

func providePaymentService(db *gorm.DB, gw gateway.Gateway, cfg gateway.Config, hub *realtime.Hub, events memcache.WebhookEventStore) services.PaymentServiceInterface {
	instance, err := services.NewPaymentService(db, gw, cfg, hub, events)
	if err != nil {
		log.Printf("Error initializing PaymentService: %v", err)
	}

	return instance
}

func providePaymentController(paymentService services.PaymentServiceInterface) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService)
}
