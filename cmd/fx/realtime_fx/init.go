package realtime_fx

import (
	"go.uber.org/fx"

	"grocart/internal/api/controllers"
	"grocart/pkg/realtime"
)

var Module = fx.Provide(
	provideHub, provideRealtimeController)

func provideHub() *realtime.Hub {
	return realtime.NewHub()
}

func provideRealtimeController(hub *realtime.Hub) *controllers.RealtimeController {
	return controllers.NewRealtimeController(hub)
}
