package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/estatepilot/estatepilot/app/controllers"
	"github.com/estatepilot/estatepilot/internal/pkg/constants"
	"github.com/estatepilot/estatepilot/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group(constants.APIRoute, limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "EstatePilot API",
		})
	})

	// Public auth endpoints
	auth := api.Group("/auth")
	auth.Post("/register", controllers.HandleRegister)
	auth.Post("/login", controllers.HandleLogin)

	v1 := api.Group(constants.APIV1Route)

	// Webhook ingestion authenticates via shared secret, not API key
	v1.Post("/track/:source", controllers.HandleTrackWebhook)
	v1.Post("/track", controllers.HandleTrackWebhook)

	// Everything below requires a valid API key. The middleware is attached
	// per route so the webhook endpoints above stay on shared-secret auth.
	apiKey := middleware.APIKeyAuthMiddleware()

	v1.Get("/account", apiKey, controllers.HandleGetAccount)
	v1.Post("/account/api-key", apiKey, controllers.HandleRotateAPIKey)
	v1.Delete("/account/api-key", apiKey, controllers.HandleRevokeAPIKey)

	v1.Get("/buyers", apiKey, controllers.HandleListBuyers)
	v1.Get("/buyers/:uuid", apiKey, controllers.HandleGetBuyer)
	v1.Post("/buyers/:uuid/contact", apiKey, controllers.HandleRequestIntroduction)
	v1.Get("/contacts", apiKey, controllers.HandleListContacts)

	v1.Post("/campaigns", apiKey, controllers.HandleCreateCampaign)
	v1.Get("/campaigns", apiKey, controllers.HandleListCampaigns)
	v1.Get("/campaigns/:uuid", apiKey, controllers.HandleGetCampaign)

	v1.Post("/recommendations", apiKey, controllers.HandleRecommendations)
	v1.Post("/sync", apiKey, controllers.HandleSync)

	v1.Get("/track/events", apiKey, controllers.HandleListTrackingEvents)

	// Admin-only management surface
	v1.Post("/buyers", apiKey, middleware.RequireAdmin, controllers.HandleAdminCreateBuyer)
	v1.Get("/admin/jobs", apiKey, middleware.RequireAdmin, controllers.HandleAdminJobStats)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
