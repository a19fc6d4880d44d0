package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"grocart/cmd/fx/account_fx"
	"grocart/cmd/fx/cart_fx"
	"grocart/cmd/fx/catalog_fx"
	"grocart/cmd/fx/contact_fx"
	"grocart/cmd/fx/db_fx"
	"grocart/cmd/fx/order_fx"
	"grocart/cmd/fx/payment_fx"
	"grocart/cmd/fx/realtime_fx"
	"grocart/cmd/fx/user_fx"
	"grocart/internal/api/controllers"
	"grocart/internal/infra"
	"grocart/pkg/middleware"
)

func main() {
	app := fx.New(
		fx.Invoke(infra.LoadEnv),
		db_fx.Module,
		realtime_fx.Module,
		account_fx.Module,
		user_fx.Module,
		catalog_fx.Module,
		cart_fx.Module,
		order_fx.Module,
		payment_fx.Module,
		contact_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(RunMigrations),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func RunMigrations(db *gorm.DB) error {
	return infra.Migrate(db)
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	authController *controllers.AuthController,
	accountController *controllers.AccountController,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	paymentController *controllers.PaymentController,
	contactController *controllers.ContactController,
	realtimeController *controllers.RealtimeController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r,
		authController,
		accountController,
		userController,
		productController,
		cartController,
		orderController,
		paymentController,
		contactController,
		realtimeController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	authController *controllers.AuthController,
	accountController *controllers.AccountController,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	paymentController *controllers.PaymentController,
	contactController *controllers.ContactController,
	realtimeController *controllers.RealtimeController) {

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)

	productGroup := api.Group("/products")
	productGroup.GET("", productController.List)
	productGroup.GET("/:id", productController.Get)
	productGroup.POST("", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"), productController.Create)
	productGroup.PATCH("/:id", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"), productController.Update)
	productGroup.DELETE("/:id", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"), productController.Delete)

	cartGroup := api.Group("/cart", middleware.JWTAuthMiddleware())
	cartGroup.GET("", cartController.GetCart)
	cartGroup.POST("/add", cartController.AddItem)
	cartGroup.PATCH("/items/:itemId", cartController.UpdateItem)
	cartGroup.DELETE("/items/:itemId", cartController.RemoveItem)
	cartGroup.DELETE("", cartController.Clear)

	orderGroup := api.Group("/orders", middleware.JWTAuthMiddleware())
	orderGroup.POST("/place", orderController.PlaceOrder)
	orderGroup.GET("", orderController.ListOrders)
	orderGroup.PATCH("/:id/cancel", orderController.Cancel)

	adminGroup := api.Group("/admin", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	adminGroup.GET("/products", productController.List)
	adminGroup.GET("/orders", orderController.AdminListOrders)
	adminGroup.PATCH("/orders/:id", orderController.AdminUpdateOrder)

	paymentGroup := api.Group("/payment")
	paymentGroup.POST("/webhook", paymentController.Webhook)
	paymentAuthed := paymentGroup.Group("", middleware.JWTAuthMiddleware())
	paymentAuthed.POST("/create-order", paymentController.CreateOrder)
	paymentAuthed.POST("/verify", paymentController.Verify)
	paymentAuthed.POST("/failure", paymentController.Failure)
	paymentAuthed.POST("/refund/:order_id", paymentController.Refund)
	paymentAuthed.GET("/refund/:order_id", paymentController.RefundStatus)

	accountGroup := api.Group("/account", middleware.JWTAuthMiddleware())
	accountGroup.GET("/me", accountController.Me)
	accountGroup.GET("/addresses", accountController.ListAddresses)
	accountGroup.POST("/addresses", accountController.AddAddress)
	accountGroup.PATCH("/addresses/:id", accountController.UpdateAddress)
	accountGroup.DELETE("/addresses/:id", accountController.DeleteAddress)

	userGroup := api.Group("/users", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	userGroup.GET("", userController.AdminList)
	userGroup.PATCH("/:id", userController.AdminUpdate)

	contactGroup := api.Group("/contacts")
	contactGroup.POST("", contactController.Create)
	contactAdmin := contactGroup.Group("", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	contactAdmin.GET("", contactController.AdminList)
	contactAdmin.PATCH("/:id", contactController.AdminUpdateStatus)
	contactAdmin.DELETE("/:id", contactController.AdminDelete)

	realtimeGroup := api.Group("/realtime", middleware.JWTAuthMiddleware(), middleware.RoleMiddleware("admin"))
	realtimeGroup.GET("/admin", realtimeController.AdminStream)
}
