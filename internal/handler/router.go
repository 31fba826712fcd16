package handler

import (
	"crediwise/internal/auth"
	"crediwise/internal/middleware"
	"crediwise/internal/recommend"
	"crediwise/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is everything the API reads and writes.
type Store interface {
	storage.UserStorage
	storage.CardStorage
	storage.SavingsStorage
	storage.CheckoutStorage
	storage.HealthChecker
}

type Deps struct {
	Store         Store
	Engine        *recommend.Engine
	Tokens        *auth.TokenService
	SecureCookies bool
}

// NewRouter mounts every API route on a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	session := middleware.NewAuthMiddleware(d.Tokens).Session()

	health := NewHealthHandler(d.Store)
	checkout := NewCheckoutHandler(d.Engine, d.Store)
	users := NewUserHandler(d.Store, d.Store, d.Tokens, d.SecureCookies)
	cards := NewCardHandler(d.Store)
	savings := NewSavingsHandler(d.Store)

	router.GET("/health", health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/checkout", checkout.CreateCheckout)
	router.GET("/checkout/:token", checkout.GetCheckout)

	router.POST("/login", users.Login)
	router.POST("/logout", users.Logout)
	router.GET("/users/:id/cards", users.GetUserCards)
	router.POST("/users/:id/cards", users.SaveUserCards)

	router.GET("/cards", cards.ListCards)
	router.GET("/cards/comparison", cards.ListComparison)

	router.GET("/savings", session, savings.GetSavings)

	return router
}
