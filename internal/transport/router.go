package transport

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/kuvalkin/classroom-accounts/internal/transport/handlers/accounts/add"
	"github.com/kuvalkin/classroom-accounts/internal/transport/handlers/accounts/list"
	"github.com/kuvalkin/classroom-accounts/internal/transport/handlers/auth/login"
	"github.com/kuvalkin/classroom-accounts/internal/transport/handlers/auth/register"
)

func createAppWithRoutes(services *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:            "classroom-accounts",
		EnableIPValidation: true,
		Immutable:          true,
	})

	globalMiddleware(app)
	routes(app, services)

	return app
}

func globalMiddleware(app *fiber.App) {
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} - ${locals:requestid} | ${method} | ${path} | ${error}\n",
	}))
	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(healthcheck.New())
}

func routes(app *fiber.App, services *Services) {
	apiGroup := app.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/register", register.New(services.Account).Handle)

	usersGroup := apiGroup.Group("/users")
	usersGroup.Post("/login", login.New(services.Account).Handle)
	usersGroup.Get("/", list.New(services.Account).Handle)
	usersGroup.Post("/", add.New(services.Account).Handle)
}
