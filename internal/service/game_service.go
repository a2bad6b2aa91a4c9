package service

import (
	"github.com/benbeisheim/telechess-backend/internal/model"
	"github.com/benbeisheim/telechess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// GameService is the command surface the controllers talk to. Every call is
// scoped to a game the player owns.
type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) CreateGame(playerID string) model.GameState {
	return gs.gameManager.CreateGame(playerID).GetState()
}

func (gs *GameService) GetGameState(gameID, playerID string) (model.GameState, error) {
	game, err := gs.gameManager.OwnedGame(gameID, playerID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gs *GameService) NewGame(gameID, playerID string) (model.GameState, error) {
	game, err := gs.gameManager.OwnedGame(gameID, playerID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.Reset(), nil
}

func (gs *GameService) SelectSquare(gameID, playerID string, sq model.Square) ([]model.Move, model.GameState, error) {
	game, err := gs.gameManager.OwnedGame(gameID, playerID)
	if err != nil {
		return nil, model.GameState{}, err
	}
	moves, err := game.SelectSquare(sq)
	return moves, game.GetState(), err
}

func (gs *GameService) ChooseDestination(gameID, playerID string, sq model.Square) (model.MoveRecord, model.GameState, error) {
	game, err := gs.gameManager.OwnedGame(gameID, playerID)
	if err != nil {
		return model.MoveRecord{}, model.GameState{}, err
	}
	record, err := game.ChooseDestination(sq)
	return record, game.GetState(), err
}

func (gs *GameService) HandleMove(gameID, playerID string, move model.WSMove) (model.MoveRecord, error) {
	game, err := gs.gameManager.OwnedGame(gameID, playerID)
	if err != nil {
		return model.MoveRecord{}, err
	}
	return game.MakeMove(move.From, move.To)
}

func (gs *GameService) Undo(gameID, playerID string) (model.MoveRecord, model.GameState, error) {
	game, err := gs.gameManager.OwnedGame(gameID, playerID)
	if err != nil {
		return model.MoveRecord{}, model.GameState{}, err
	}
	record, err := game.Undo()
	return record, game.GetState(), err
}

func (gs *GameService) RemoveGame(gameID, playerID string) error {
	return gs.gameManager.RemoveGame(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn model.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		log.Debugf("unregister on unknown game %s", gameID)
		return
	}
	game.UnregisterConnection(playerID)
}

// Notify sends msg to the player's connection on the game.
func (gs *GameService) Notify(gameID, playerID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Notify(playerID, msg)
}
