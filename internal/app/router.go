package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"ridehail/internal/auth"
	"ridehail/internal/handler"
	"ridehail/internal/middleware"
	internalRedis "ridehail/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler     *handler.AuthHandler
	ProfileHandler  *handler.ProfileHandler
	RideHandler     *handler.RideHandler
	FavoriteHandler *handler.FavoriteHandler
	EarningsHandler *handler.EarningsHandler
	WalletHandler   *handler.WalletHandler
	PaymentHandler  *handler.PaymentHandler

	Sessions       auth.Delegate
	CookieName     string
	AllowedOrigins []string
	Idempotency    internalRedis.IdempotencyStoreInterface
	NewRelicApp    *newrelic.Application
	Logger         logrus.FieldLogger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.CORSMiddleware(deps.AllowedOrigins))

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Login bootstrap, reachable without a session.
	api.GET("/oauth/google/redirect_url", deps.AuthHandler.RedirectURL)
	api.POST("/sessions", deps.AuthHandler.CreateSession)
	api.GET("/logout", deps.AuthHandler.Logout)

	authed := api.Group("")
	authed.Use(middleware.SessionMiddleware(deps.Sessions, deps.CookieName, deps.Logger))
	authed.Use(middleware.NewRelicAttributes())
	authed.Use(middleware.IdempotencyMiddleware(deps.Idempotency, deps.Logger))
	{
		authed.GET("/users/me", deps.AuthHandler.Me)

		// Profile routes.
		profiles := authed.Group("/profiles")
		{
			profiles.POST("", deps.ProfileHandler.CreateProfile)
			profiles.GET("/me", deps.ProfileHandler.GetProfile)
			profiles.PUT("/me", deps.ProfileHandler.UpdateProfile)
		}

		// Ride routes.
		rides := authed.Group("/rides")
		{
			rides.POST("", deps.RideHandler.CreateRide)
			rides.GET("", deps.RideHandler.ListRides)
			rides.GET("/available", deps.RideHandler.ListAvailable)
			rides.GET("/:id", deps.RideHandler.GetRide)
			rides.POST("/:id/accept", deps.RideHandler.AcceptRide)
			rides.POST("/:id/pickup", deps.RideHandler.PickupRide)
			rides.POST("/:id/complete", deps.RideHandler.CompleteRide)
			rides.POST("/:id/cancel", deps.RideHandler.CancelRide)
			rides.POST("/:id/rate", deps.RideHandler.RateRide)
			rides.GET("/:id/messages", deps.RideHandler.ListMessages)
			rides.POST("/:id/messages", deps.RideHandler.SendMessage)
			rides.GET("/:id/driver-location", deps.RideHandler.DriverLocation)
			rides.POST("/:id/payment", deps.PaymentHandler.ProcessPayment)
		}

		// Favorite location routes.
		favorites := authed.Group("/favorite-locations")
		{
			favorites.GET("", deps.FavoriteHandler.List)
			favorites.POST("", deps.FavoriteHandler.Create)
			favorites.DELETE("/:id", deps.FavoriteHandler.Delete)
		}

		authed.GET("/earnings", deps.EarningsHandler.Summary)

		// Wallet routes.
		wallet := authed.Group("/wallet")
		{
			wallet.GET("", deps.WalletHandler.GetWallet)
			wallet.GET("/transactions", deps.WalletHandler.Transactions)
			wallet.POST("/add-funds", deps.WalletHandler.AddFunds)
		}
	}

	return router
}
