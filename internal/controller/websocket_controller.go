package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/telechess-backend/internal/model"
	"github.com/benbeisheim/telechess-backend/internal/service"
	"github.com/benbeisheim/telechess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals("wsGameID").(string)
	playerID, _ := c.Locals("wsPlayerID").(string)
	log.Infof("websocket connection established for game %s, player %s", gameID, playerID)

	// Register this connection with the game
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		// A duplicate was already closed; the existing connection stays registered.
		if !errors.Is(err, model.ErrDuplicateConnection) {
			log.Warnf("failed to register connection: %v", err)
			c.Close()
		}
		return
	}

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error: %v", err)
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}
		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("parse error: %v", err)
			wsc.reply(gameID, playerID, ws.MessageTypeError, ws.ErrorPayload{Error: "malformed message"})
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugf("handle error: %v", err)
			wsc.reply(gameID, playerID, ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
		}
	}

	// Clean up when connection closes
	wsc.gameService.UnregisterConnection(gameID, playerID)
}

// handleMessage dispatches one client command. State changes reach the client
// through the game's broadcast; only legal-move lists are answered directly.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeSelect:
		var req model.SquareRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		moves, _, err := wsc.gameService.SelectSquare(gameID, playerID, req.Square)
		if err != nil {
			return err
		}
		wsc.reply(gameID, playerID, ws.MessageTypeLegalMoves, moves)
		return nil

	case ws.MessageTypeDestination:
		var req model.SquareRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		_, _, err := wsc.gameService.ChooseDestination(gameID, playerID, req.Square)
		return err

	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypeUndo:
		_, _, err := wsc.gameService.Undo(gameID, playerID)
		return err

	case ws.MessageTypeNewGame:
		_, err := wsc.gameService.NewGame(gameID, playerID)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) reply(gameID, playerID string, t ws.MessageType, payload interface{}) {
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		log.Errorf("failed to encode %s message: %v", t, err)
		return
	}
	if err := wsc.gameService.Notify(gameID, playerID, msg); err != nil {
		log.Warnf("failed to send %s to player %s: %v", t, playerID, err)
	}
}
