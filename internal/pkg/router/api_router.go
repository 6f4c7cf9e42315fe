package router

import (
	"net"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/danieljstvincent/topthreeclub/app/controllers"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/cache"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/env"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/middleware"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Storage: newLimiterStorage(),
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// The webhook authenticates by provider signature, not API key.
	v1.Post("/webhooks/stripe", controllers.HandleStripeWebhook)

	authed := v1.Group("", middleware.APIKeyAuthMiddleware())

	questGroup := authed.Group("/quests")
	questGroup.Get("/today", controllers.HandleGetToday)
	questGroup.Post("/today", controllers.HandleUpsertToday)
	questGroup.Put("/today", controllers.HandleUpsertToday)
	questGroup.Post("/today/lock", controllers.HandleLockToday)
	questGroup.Post("/today/submit", controllers.HandleSubmitToday)
	questGroup.Get("/history", controllers.HandleHistory)
	questGroup.Post("/sync", controllers.HandleBulkSync)
	questGroup.Get("/stats", controllers.HandleStats)

	billingGroup := authed.Group("/billing")
	billingGroup.Get("/subscription", controllers.HandleGetSubscription)
	billingGroup.Post("/checkout", controllers.HandleCreateCheckout)
	billingGroup.Post("/cancel", controllers.HandleCancelSubscription)

	accountGroup := authed.Group("/account")
	accountGroup.Get("/", controllers.HandleGetAccount)
	accountGroup.Post("/api-key", controllers.HandleRotateAPIKey)
}

// newLimiterStorage backs the rate limiter with Redis, reusing the cache
// server configuration but a separate database so limiter keys never
// collide with cached stats.
func newLimiterStorage() fiber.Storage {
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if client := cache.GetClient(); client != nil {
		if h, p, err := net.SplitHostPort(client.Options().Addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := client.Options().Password; p != "" {
			password = p
		}
	}

	return redisstorage.New(redisstorage.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})
}
