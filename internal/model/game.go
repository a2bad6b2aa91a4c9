package model

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/telechess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a WebSocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections observing a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

// Game is one interactive session around a single Position. All commands are
// serialized by mu.
type Game struct {
	ID          string
	OwnerID     string
	mu          sync.Mutex
	position    *Position
	selected    *Square
	offered     []Move
	lastActive  time.Time
	connections *GameConnections
}

type GameState struct {
	ID              string         `json:"id"`
	Board           Board          `json:"board"`
	ToMove          Color          `json:"toMove"`
	IsCheck         bool           `json:"isCheck"`
	GameOver        bool           `json:"gameOver"`
	Resolve         *string        `json:"resolve"`
	EnPassantTarget *Square        `json:"enPassantTarget"`
	CastlingRights  CastlingRights `json:"castlingRights"`
	MoveCount       int            `json:"moveCount"`
	MoveHistory     []MoveRecord   `json:"moveHistory"`
	CapturedPieces  CapturedPieces `json:"capturedPieces"`
	SelectedSquare  *Square        `json:"selectedSquare"`
	LegalMoves      []Move         `json:"legalMoves"`
	LastMove        *SimpleMove    `json:"lastMove"`
}

// CapturedPieces lists the pieces taken by each side.
type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func NewGame(id, ownerID string) *Game {
	return &Game{
		ID:          id,
		OwnerID:     ownerID,
		position:    NewPosition(),
		lastActive:  time.Now(),
		connections: NewGameConnections(),
	}
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// Reset starts a new game in place.
func (g *Game) Reset() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.position = NewPosition()
	g.clearSelection()
	log.Infof("game %s: new game", g.ID)
	return g.publish()
}

// SelectSquare selects the side to move's piece on sq and returns its legal
// moves. A rejected selection clears the current one and changes nothing else.
func (g *Game) SelectSquare(sq Square) ([]Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touch()

	moves, err := g.selectSquare(sq)
	if err != nil {
		g.clearSelection()
		return nil, err
	}
	return append(make([]Move, 0, len(moves)), moves...), nil
}

func (g *Game) selectSquare(sq Square) ([]Move, error) {
	if !sq.InBounds() {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, sq)
	}
	if g.position.GameOver {
		return nil, ErrGameOver
	}
	piece := g.position.Board.At(sq)
	if piece.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrNoPiece, sq)
	}
	if piece.Color != g.position.ToMove {
		return nil, fmt.Errorf("%w: %s piece on %s", ErrNotYourTurn, piece.Color, sq)
	}
	g.selected = &sq
	g.offered = g.position.LegalMoves(sq)
	log.Debugw("square selected", "game", g.ID, "square", sq.String(), "legalMoves", len(g.offered))
	return g.offered, nil
}

// ChooseDestination plays the offered move that lands on sq. Anything that is
// not an offered destination is rejected without touching the position.
func (g *Game) ChooseDestination(sq Square) (MoveRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touch()

	return g.chooseDestination(sq)
}

func (g *Game) chooseDestination(sq Square) (MoveRecord, error) {
	if g.selected == nil {
		return MoveRecord{}, ErrNoSelection
	}
	for _, move := range g.offered {
		if move.To == sq {
			record := g.position.Apply(move)
			g.clearSelection()
			log.Infof("game %s: %s %s %s->%s (%s)", g.ID, record.Piece.Color, record.Piece.Type, record.From, record.To, record.Special)
			g.publish()
			return record, nil
		}
	}
	return MoveRecord{}, fmt.Errorf("%w: %s->%s", ErrInvalidMove, *g.selected, sq)
}

// MakeMove selects from and plays to in one step.
func (g *Game) MakeMove(from, to Square) (MoveRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touch()

	if _, err := g.selectSquare(from); err != nil {
		g.clearSelection()
		return MoveRecord{}, err
	}
	record, err := g.chooseDestination(to)
	if err != nil {
		g.clearSelection()
	}
	return record, err
}

func (g *Game) Undo() (MoveRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.touch()

	record, err := g.position.Undo()
	if err != nil {
		return MoveRecord{}, err
	}
	g.clearSelection()
	log.Infof("game %s: undo %s->%s", g.ID, record.From, record.To)
	g.publish()
	return record, nil
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

// LastActive is the time of the last command received by the game.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.lastActive
}

func (g *Game) IsOwner(playerID string) bool {
	return g.OwnerID != "" && g.OwnerID == playerID
}

func (g *Game) touch() {
	g.lastActive = time.Now()
}

func (g *Game) clearSelection() {
	g.selected = nil
	g.offered = nil
}

func (g *Game) snapshot() GameState {
	p := g.position
	state := GameState{
		ID:             g.ID,
		Board:          p.Board,
		ToMove:         p.ToMove,
		IsCheck:        p.IsCheck,
		GameOver:       p.GameOver,
		CastlingRights: p.CastlingRights,
		MoveCount:      p.MoveCount(),
		MoveHistory:    append(make([]MoveRecord, 0, len(p.MoveHistory)), p.MoveHistory...),
		CapturedPieces: CapturedPieces{White: make([]Piece, 0), Black: make([]Piece, 0)},
		LegalMoves:     append(make([]Move, 0, len(g.offered)), g.offered...),
	}
	if outcome := p.Outcome(); outcome != "" {
		state.Resolve = &outcome
	}
	if p.EnPassantTarget != nil {
		target := *p.EnPassantTarget
		state.EnPassantTarget = &target
	}
	if g.selected != nil {
		selected := *g.selected
		state.SelectedSquare = &selected
	}
	for _, record := range p.MoveHistory {
		if !record.IsCapture() {
			continue
		}
		if record.Piece.Color == White {
			state.CapturedPieces.White = append(state.CapturedPieces.White, record.Captured)
		} else {
			state.CapturedPieces.Black = append(state.CapturedPieces.Black, record.Captured)
		}
	}
	if n := len(p.MoveHistory); n > 0 {
		last := p.MoveHistory[n-1]
		state.LastMove = &SimpleMove{From: last.From, To: last.To}
	}
	return state
}

// publish returns the state for the caller and schedules a broadcast. Must be
// called with g.mu held.
func (g *Game) publish() GameState {
	go g.broadcast()
	return g.snapshot()
}

// broadcast writes the current state to every connection. The state is read
// under the connections lock: whichever broadcast writes last sends the
// latest state. Lock order is connections.mu, then g.mu.
func (g *Game) broadcast() {
	gc := g.connections
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if len(gc.connections) == 0 {
		return
	}

	payload, err := json.Marshal(g.GetState())
	if err != nil {
		log.Errorf("failed to marshal state to JSON: %v", err)
		return
	}
	msg := ws.Message{Type: ws.MessageTypeGameState, Payload: json.RawMessage(payload)}
	for playerID, conn := range gc.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("failed to send state to player %s: %v", playerID, err)
			delete(gc.connections, playerID)
			continue
		}
		log.Debugf("sent state to player %s", playerID)
	}
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	connID := fmt.Sprintf("%p", conn)
	log.Debugf("starting RegisterConnection for player %s, conn %s", playerID, connID)

	if !g.IsOwner(playerID) {
		return ErrNotAuthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the existing connection, reject the new one.
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return ErrDuplicateConnection
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("registered connection %s for player %s on game %s", connID, playerID, g.ID)

	// Send initial state...
	go g.broadcast()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Infof("unregistering connection for player %s on game %s", playerID, g.ID)
		delete(g.connections.connections, playerID)
	}
}

// Notify sends a message to one observer of the game.
func (g *Game) Notify(playerID string, msg ws.Message) error {
	return g.connections.send(playerID, msg)
}

func (gc *GameConnections) send(playerID string, msg ws.Message) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()

	conn, ok := gc.connections[playerID]
	if !ok {
		return fmt.Errorf("no connection for player %s", playerID)
	}
	if err := conn.WriteJSON(msg); err != nil {
		delete(gc.connections, playerID)
		return err
	}
	return nil
}

// Close sends a close frame to every observer and forgets them. Used when the
// game is removed.
func (g *Game) Close() {
	gc := g.connections
	gc.mu.Lock()
	defer gc.mu.Unlock()

	for playerID, conn := range gc.connections {
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "game closed"),
		)
		conn.Close()
		delete(gc.connections, playerID)
	}
	log.Debugf("closed connections of game %s", g.ID)
}
