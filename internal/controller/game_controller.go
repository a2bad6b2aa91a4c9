package controller

import (
	"github.com/benbeisheim/telechess-backend/internal/model"
	"github.com/benbeisheim/telechess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on router.
func (gc *GameController) Register(router fiber.Router) {
	router.Post("/", gc.CreateGame)
	router.Get("/:gameId", gc.GetGameState)
	router.Delete("/:gameId", gc.DeleteGame)
	router.Post("/:gameId/new", gc.NewGame)
	router.Post("/:gameId/select", gc.SelectSquare)
	router.Post("/:gameId/destination", gc.ChooseDestination)
	router.Post("/:gameId/undo", gc.Undo)
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func parseSquare(c *fiber.Ctx) (model.Square, error) {
	var req model.SquareRequest
	if err := c.BodyParser(&req); err != nil {
		return model.Square{}, fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return req.Square, nil
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	state := gc.gameService.CreateGame(playerID(c))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"gameId":  state.ID,
		"state":   state,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	state, err := gc.gameService.GetGameState(c.Params("gameId"), playerID(c))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.RemoveGame(c.Params("gameId"), playerID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (gc *GameController) NewGame(c *fiber.Ctx) error {
	state, err := gc.gameService.NewGame(c.Params("gameId"), playerID(c))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

func (gc *GameController) SelectSquare(c *fiber.Ctx) error {
	sq, err := parseSquare(c)
	if err != nil {
		return err
	}
	moves, state, err := gc.gameService.SelectSquare(c.Params("gameId"), playerID(c), sq)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"legalMoves": moves,
		"state":      state,
	})
}

func (gc *GameController) ChooseDestination(c *fiber.Ctx) error {
	sq, err := parseSquare(c)
	if err != nil {
		return err
	}
	record, state, err := gc.gameService.ChooseDestination(c.Params("gameId"), playerID(c), sq)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"move":  record,
		"state": state,
	})
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	record, state, err := gc.gameService.Undo(c.Params("gameId"), playerID(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"move":  record,
		"state": state,
	})
}
