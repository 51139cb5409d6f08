package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"tripchat/cmd/fx/account_fx"
	"tripchat/cmd/fx/chat_fx"
	"tripchat/cmd/fx/db_fx"
	"tripchat/cmd/fx/destinations_fx"
	"tripchat/cmd/fx/trips_fx"
	"tripchat/internal/api/controllers"
	"tripchat/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		db_fx.Module,
		destinations_fx.Module,
		chat_fx.Module,
		trips_fx.Module,
		account_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
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
	chatController *controllers.ChatController,
	destinationsController *controllers.DestinationsController,
	tripsController *controllers.TripsController,
	accountController *controllers.AccountController) *gin.Engine {

	r := gin.Default()
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, chatController, destinationsController, tripsController, accountController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	chatController *controllers.ChatController,
	destinationsController *controllers.DestinationsController,
	tripsController *controllers.TripsController,
	accountController *controllers.AccountController) {

	authGroup := r.Group("/auth")
	authGroup.POST("/signup", accountController.SignUpHandler)
	authGroup.POST("/login", accountController.LoginHandler)

	chatGroup := r.Group("/chat")
	chatGroup.POST("/stream", chatController.StreamMessageHandler)
	chatGroup.GET("/sessions/:id", chatController.GetSessionHandler)
	chatGroup.GET("/sessions/:id/day-cards", chatController.GetDayCardsHandler)

	destinationsGroup := r.Group("/destinations")
	destinationsGroup.GET("", destinationsController.ListDestinationsHandler)
	destinationsGroup.GET("/search", destinationsController.SearchDestinationsHandler)
	destinationsGroup.GET("/:id", destinationsController.GetDestinationHandler)

	tripsGroup := r.Group("/trips")
	tripsGroup.Use(middleware.JWTAuthMiddleware())
	tripsGroup.POST("", tripsController.SaveTripHandler)
	tripsGroup.GET("", tripsController.ListTripsHandler)
	tripsGroup.GET("/:id", tripsController.GetTripHandler)
	tripsGroup.DELETE("/:id", tripsController.DeleteTripHandler)
}
