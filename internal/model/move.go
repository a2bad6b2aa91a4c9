package model

import "fmt"

type SpecialMove int

const (
	SpecialNone SpecialMove = iota
	SpecialCastling
	SpecialEnPassant
	SpecialPromotion
)

var specialMoveNames = map[SpecialMove]string{
	SpecialNone:      "none",
	SpecialCastling:  "castling",
	SpecialEnPassant: "enPassant",
	SpecialPromotion: "promotion",
}

func (s SpecialMove) String() string {
	if name, ok := specialMoveNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SpecialMove(%d)", int(s))
}

func (s SpecialMove) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SpecialMove) UnmarshalText(text []byte) error {
	for k, name := range specialMoveNames {
		if name == string(text) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown special move %q", text)
}

type CastleRookMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// Move is a candidate destination for the piece on From.
type Move struct {
	From       Square          `json:"from"`
	To         Square          `json:"to"`
	Special    SpecialMove     `json:"specialMove"`
	DoubleStep bool            `json:"doubleStep,omitempty"`
	Rook       *CastleRookMove `json:"rook,omitempty"`
}

// MoveRecord holds the pre-move state needed to invert a move.
type MoveRecord struct {
	From            Square          `json:"from"`
	To              Square          `json:"to"`
	Piece           Piece           `json:"piece"`
	Captured        Piece           `json:"captured"`
	CapturedAt      Square          `json:"capturedAt"`
	Special         SpecialMove     `json:"specialMove"`
	Rook            *CastleRookMove `json:"rook,omitempty"`
	PromotedTo      PieceType       `json:"promotedTo,omitempty"`
	EnPassantTarget *Square         `json:"enPassantTarget"`
	CastlingRights  CastlingRights  `json:"castlingRights"`
	Check           bool            `json:"check"`
	GameOver        bool            `json:"gameOver"`
}

func (r MoveRecord) IsCapture() bool {
	return !r.Captured.IsEmpty()
}

type SimpleMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

type SideCastling struct {
	Kingside  bool `json:"kingside"`
	Queenside bool `json:"queenside"`
}

type CastlingRights struct {
	White SideCastling `json:"white"`
	Black SideCastling `json:"black"`
}

func (c CastlingRights) For(color Color) SideCastling {
	if color == White {
		return c.White
	}
	return c.Black
}

func (c *CastlingRights) side(color Color) *SideCastling {
	if color == White {
		return &c.White
	}
	return &c.Black
}

// revokeForRookSquare clears the flag of the rook whose home square is sq.
func (c *CastlingRights) revokeForRookSquare(color Color, sq Square) {
	if sq.Row != color.homeRow() {
		return
	}
	switch sq.Col {
	case 0:
		c.side(color).Queenside = false
	case 7:
		c.side(color).Kingside = false
	}
}

// WSMove is the payload of a "move" command.
type WSMove struct {
	From Square `json:"from"`
	To   Square `json:"to"`
}

// SquareRequest is the payload of "select" and "destination" commands and of
// the matching REST bodies.
type SquareRequest struct {
	Square Square `json:"square"`
}
