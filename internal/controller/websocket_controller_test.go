package controller

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/telechess-backend/internal/middleware"
	"github.com/benbeisheim/telechess-backend/internal/model"
	"github.com/benbeisheim/telechess-backend/internal/service"
	"github.com/benbeisheim/telechess-backend/internal/ws"
	"github.com/fasthttp/websocket"
)

const testOrigin = "http://localhost:5173"

// startServer serves a fresh app on a loopback port and returns its address
// with the service behind it.
func startServer(t *testing.T) (string, *service.GameService) {
	t.Helper()
	gameService := service.NewGameService(service.NewGameManager(time.Hour))
	app := NewApp(gameService, []string{testOrigin})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() {
		app.ShutdownWithTimeout(time.Second)
	})
	return ln.Addr().String(), gameService
}

func dial(t *testing.T, addr, gameID, player string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	header := http.Header{}
	header.Set("Origin", testOrigin)
	header.Set(middleware.PlayerIDHeader, player)
	return websocket.DefaultDialer.Dial("ws://"+addr+"/ws/game/"+gameID, header)
}

func send(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("write %s: %v", raw, err)
	}
}

// expect reads until a message of type want satisfies match, skipping the rest.
func expect(t *testing.T, conn *websocket.Conn, want ws.MessageType, match func(json.RawMessage) bool) json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if msg.Type == want && (match == nil || match(msg.Payload)) {
			return msg.Payload
		}
	}
}

func stateWithMoves(t *testing.T, n int) func(json.RawMessage) bool {
	return func(payload json.RawMessage) bool {
		var state model.GameState
		if err := json.Unmarshal(payload, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		return state.MoveCount == n
	}
}

func errorContaining(t *testing.T, substr string) func(json.RawMessage) bool {
	return func(payload json.RawMessage) bool {
		var e ws.ErrorPayload
		if err := json.Unmarshal(payload, &e); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		return strings.Contains(e.Error, substr)
	}
}

func TestWebSocketCommands(t *testing.T) {
	addr, gameService := startServer(t)
	gameID := gameService.CreateGame("alice").ID

	conn, _, err := dial(t, addr, gameID, "alice")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	expect(t, conn, ws.MessageTypeGameState, stateWithMoves(t, 0))

	send(t, conn, `{"type":"select","payload":{"square":{"row":6,"col":4}}}`)
	payload := expect(t, conn, ws.MessageTypeLegalMoves, nil)
	var moves []model.Move
	if err := json.Unmarshal(payload, &moves); err != nil {
		t.Fatalf("decode legal moves: %v", err)
	}
	if len(moves) != 2 {
		t.Errorf("e2 offers %d moves, want 2", len(moves))
	}

	send(t, conn, `{"type":"destination","payload":{"square":{"row":4,"col":4}}}`)
	expect(t, conn, ws.MessageTypeGameState, stateWithMoves(t, 1))

	send(t, conn, `{"type":"move","payload":{"from":{"row":1,"col":4},"to":{"row":3,"col":4}}}`)
	expect(t, conn, ws.MessageTypeGameState, stateWithMoves(t, 2))

	send(t, conn, `{"type":"undo"}`)
	expect(t, conn, ws.MessageTypeGameState, stateWithMoves(t, 1))

	send(t, conn, `{"type":"newGame"}`)
	expect(t, conn, ws.MessageTypeGameState, stateWithMoves(t, 0))

	state, err := gameService.GetGameState(gameID, "alice")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.MoveCount != 0 || state.ToMove != model.White {
		t.Errorf("server state after newGame: moves=%d toMove=%s", state.MoveCount, state.ToMove)
	}
}

func TestWebSocketErrorReplies(t *testing.T) {
	addr, gameService := startServer(t)
	gameID := gameService.CreateGame("alice").ID

	conn, _, err := dial(t, addr, gameID, "alice")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	expect(t, conn, ws.MessageTypeGameState, nil)

	tests := []struct {
		name   string
		raw    string
		substr string
	}{
		{name: "malformed envelope", raw: `not json`, substr: "malformed message"},
		{name: "unknown type", raw: `{"type":"resign"}`, substr: "unknown message type"},
		{name: "wrong payload type", raw: `{"type":"destination","payload":{"square":"e4"}}`, substr: "cannot unmarshal"},
		{name: "destination without selection", raw: `{"type":"destination","payload":{"square":{"row":4,"col":4}}}`, substr: model.ErrNoSelection.Error()},
		{name: "opponent piece", raw: `{"type":"select","payload":{"square":{"row":1,"col":4}}}`, substr: model.ErrNotYourTurn.Error()},
		{name: "illegal move", raw: `{"type":"move","payload":{"from":{"row":6,"col":4},"to":{"row":3,"col":4}}}`, substr: model.ErrInvalidMove.Error()},
		{name: "nothing to undo", raw: `{"type":"undo"}`, substr: model.ErrNothingToUndo.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.raw)
			expect(t, conn, ws.MessageTypeError, errorContaining(t, tt.substr))
		})
	}

	state, err := gameService.GetGameState(gameID, "alice")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.MoveCount != 0 {
		t.Errorf("rejected commands changed the game: %d moves", state.MoveCount)
	}
}

func TestWebSocketUpgradeGuards(t *testing.T) {
	addr, gameService := startServer(t)
	gameID := gameService.CreateGame("alice").ID

	if _, resp, err := dial(t, addr, gameID, "bob"); err == nil {
		t.Errorf("foreign player was upgraded")
	} else if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("foreign player: got %v (%v), want 403", resp, err)
	}
	if _, resp, err := dial(t, addr, "missing", "alice"); err == nil {
		t.Errorf("unknown game was upgraded")
	} else if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown game: got %v (%v), want 404", resp, err)
	}

	first, _, err := dial(t, addr, gameID, "alice")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer first.Close()
	expect(t, first, ws.MessageTypeGameState, nil)

	second, _, err := dial(t, addr, gameID, "alice")
	if err != nil {
		t.Fatalf("second dial: %v", err)
	}
	defer second.Close()
	second.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := second.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Errorf("duplicate connection: got %v, want a normal close", err)
	}

	// The first connection keeps working.
	send(t, first, `{"type":"select","payload":{"square":{"row":6,"col":4}}}`)
	expect(t, first, ws.MessageTypeLegalMoves, nil)
}

func TestDeletingGameClosesWebSocket(t *testing.T) {
	addr, gameService := startServer(t)
	gameID := gameService.CreateGame("alice").ID

	conn, _, err := dial(t, addr, gameID, "alice")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	expect(t, conn, ws.MessageTypeGameState, nil)

	if err := gameService.RemoveGame(gameID, "alice"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
				t.Errorf("got %v, want a going-away close", err)
			}
			return
		}
	}
}
