package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GameLookup reports whether a game exists and is owned by the player.
type GameLookup func(gameID, playerID string) error

// WebSocketUpgrade rejects anything that is not an upgrade attempt for a game
// the player may observe, before the connection is hijacked. lookup errors are
// passed to the fiber error handler.
func WebSocketUpgrade(lookup GameLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		gameID := c.Params("gameId")
		if gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}

		// Set by EnsurePlayerID.
		playerID, ok := c.Locals("playerID").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}
		if err := lookup(gameID, playerID); err != nil {
			return err
		}

		// Locals survive the upgrade, the request context does not.
		c.Locals("wsGameID", gameID)
		c.Locals("wsPlayerID", playerID)
		return c.Next()
	}
}
