package model

import "fmt"

// Position is the full rules state of one game. It is mutated in place by
// Apply and Undo and must not be shared between goroutines without external
// locking.
type Position struct {
	Board             Board          `json:"board"`
	ToMove            Color          `json:"toMove"`
	EnPassantTarget   *Square        `json:"enPassantTarget"`
	CastlingRights    CastlingRights `json:"castlingRights"`
	WhiteKingPosition Square         `json:"whiteKingPosition"`
	BlackKingPosition Square         `json:"blackKingPosition"`
	IsCheck           bool           `json:"isCheck"`
	GameOver          bool           `json:"gameOver"`
	MoveHistory       []MoveRecord   `json:"moveHistory"`
}

// NewPosition returns the standard starting position with white to move.
func NewPosition() *Position {
	return &Position{
		Board:  newBoard(),
		ToMove: White,
		CastlingRights: CastlingRights{
			White: SideCastling{Kingside: true, Queenside: true},
			Black: SideCastling{Kingside: true, Queenside: true},
		},
		WhiteKingPosition: Square{Row: 7, Col: 4},
		BlackKingPosition: Square{Row: 0, Col: 4},
		MoveHistory:       make([]MoveRecord, 0),
	}
}

// NewPositionFromPieces builds a position from an arbitrary placement.
// Castling rights are kept only for unmoved kings and rooks on their home
// squares; check and game over are computed for toMove.
func NewPositionFromPieces(pieces map[Square]Piece, toMove Color) (*Position, error) {
	p := &Position{ToMove: toMove, MoveHistory: make([]MoveRecord, 0)}
	for sq, piece := range pieces {
		if !sq.InBounds() {
			return nil, fmt.Errorf("%w: piece placed off the board", ErrOutOfBounds)
		}
		p.Board.Set(sq, piece)
	}
	for _, color := range []Color{White, Black} {
		kingSq, ok := p.Board.FindKing(color)
		if !ok {
			return nil, fmt.Errorf("%w: %s must have exactly one king", ErrCorruptPosition, color)
		}
		p.setKingSquare(color, kingSq)

		row := color.homeRow()
		king := p.Board.At(Square{Row: row, Col: 4})
		if !king.Is(color, King) || king.HasMoved {
			continue
		}
		side := p.CastlingRights.side(color)
		if rook := p.Board.At(Square{Row: row, Col: 7}); rook.Is(color, Rook) && !rook.HasMoved {
			side.Kingside = true
		}
		if rook := p.Board.At(Square{Row: row, Col: 0}); rook.Is(color, Rook) && !rook.HasMoved {
			side.Queenside = true
		}
	}
	p.refreshStatus()
	return p, nil
}

func (p *Position) KingSquare(color Color) Square {
	if color == White {
		return p.WhiteKingPosition
	}
	return p.BlackKingPosition
}

func (p *Position) setKingSquare(color Color, sq Square) {
	if color == White {
		p.WhiteKingPosition = sq
	} else {
		p.BlackKingPosition = sq
	}
}

// InCheck reports whether color's king is attacked on the live board.
func (p *Position) InCheck(color Color) bool {
	return IsSquareAttacked(&p.Board, p.KingSquare(color), color)
}

// refreshStatus recomputes the check and game over flags for the side to move.
func (p *Position) refreshStatus() {
	p.IsCheck = p.InCheck(p.ToMove)
	p.GameOver = !p.HasLegalMoves(p.ToMove)
}

// Outcome is "checkmate" or "stalemate" once the game is over, empty otherwise.
func (p *Position) Outcome() string {
	switch {
	case !p.GameOver:
		return ""
	case p.IsCheck:
		return "checkmate"
	default:
		return "stalemate"
	}
}

func (p *Position) MoveCount() int {
	return len(p.MoveHistory)
}

// Validate checks that each side has exactly one king and that the cached
// king squares agree with the board.
func (p *Position) Validate() error {
	for _, color := range []Color{White, Black} {
		sq, ok := p.Board.FindKing(color)
		if !ok {
			return fmt.Errorf("%w: %s must have exactly one king", ErrCorruptPosition, color)
		}
		if sq != p.KingSquare(color) {
			return fmt.Errorf("%w: %s king cached at %s but stands on %s", ErrCorruptPosition, color, p.KingSquare(color), sq)
		}
	}
	return nil
}

// Clone returns a deep copy of the position, history included.
func (p *Position) Clone() *Position {
	c := *p
	if p.EnPassantTarget != nil {
		target := *p.EnPassantTarget
		c.EnPassantTarget = &target
	}
	c.MoveHistory = make([]MoveRecord, len(p.MoveHistory))
	copy(c.MoveHistory, p.MoveHistory)
	return &c
}
