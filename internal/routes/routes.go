// Package routes defines the API routing configuration.
// It builds the Fiber application, its middleware stack and every route.
package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"schedpay/internal/handlers"
	"schedpay/internal/logging"
	"schedpay/internal/middleware"
	"schedpay/internal/services/transfer"
)

const AppName = "schedpay"

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Transfers        transfer.Service
	Health           *handlers.HealthHandler
	Logger           *zap.Logger
	CORSAllowOrigins string
	RateLimitMax     int
}

// NewApp creates the Fiber application with its middleware and routes.
func NewApp(deps Dependencies) *fiber.App {
	log := logging.OrNop(deps.Logger)

	app := fiber.New(fiber.Config{
		AppName:      AppName,
		ErrorHandler: handlers.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET,POST,PUT,DELETE,HEAD",
	}))
	app.Use(middleware.RequestLogger(log))

	SetupRoutes(app, deps)
	return app
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	log := logging.OrNop(deps.Logger)

	if deps.Health != nil {
		app.Get("/health", deps.Health.HealthCheck)
		app.Get("/health/cache", deps.Health.CacheStats)
	}

	api := app.Group("/api")
	if deps.RateLimitMax > 0 {
		api.Use(middleware.WriteLimiter(deps.RateLimitMax))
	}

	feeHandler := handlers.NewFeeHandler(deps.Transfers, log)
	fees := api.Group("/fees")
	fees.Get("/rules", feeHandler.Rules)
	fees.Post("/quote", feeHandler.Quote)

	transferHandler := handlers.NewTransferHandler(deps.Transfers, log)
	transactions := api.Group("/transactions")
	transactions.Post("/", transferHandler.Create)
	transactions.Get("/", transferHandler.List)
	transactions.Get("/:id", transferHandler.Get)
	transactions.Put("/:id", transferHandler.Update)
	transactions.Delete("/:id", transferHandler.Delete)
}
