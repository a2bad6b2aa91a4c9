package controller

import (
	"strings"

	"github.com/benbeisheim/telechess-backend/internal/middleware"
	"github.com/benbeisheim/telechess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

// NewApp builds the fiber application with the REST and WebSocket routes.
func NewApp(gameService *service.GameService, allowOrigins []string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "telechess",
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	// fiber refuses credentials together with the wildcard origin.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, " + middleware.PlayerIDHeader,
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: len(allowOrigins) > 0,
	}))

	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID())
	wsRoutes.Get("/game/:gameId",
		middleware.WebSocketUpgrade(func(gameID, playerID string) error {
			_, err := gameService.GetGameState(gameID, playerID)
			return err
		}),
		websocket.New(wsController.HandleConnection, websocket.Config{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Origins:         allowOrigins,
		}),
	)

	api := app.Group("/api", middleware.EnsurePlayerID())
	gameController.Register(api.Group("/game"))

	return app
}
