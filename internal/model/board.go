package model

import (
	"encoding/json"
	"fmt"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// homeRow is the back rank of the color: row 7 for white, row 0 for black.
func (c Color) homeRow() int {
	if c == White {
		return 7
	}
	return 0
}

// forward is the row delta of a pawn step for the color.
func (c Color) forward() int {
	if c == White {
		return -1
	}
	return 1
}

type PieceType string

const (
	NoPiece PieceType = ""
	King    PieceType = "king"
	Queen   PieceType = "queen"
	Rook    PieceType = "rook"
	Bishop  PieceType = "bishop"
	Knight  PieceType = "knight"
	Pawn    PieceType = "pawn"
)

// Piece is stored by value on the board. The zero Piece is an empty square.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	HasMoved bool      `json:"hasMoved"`
}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPiece
}

func (p Piece) Is(color Color, pieceType PieceType) bool {
	return p.Type == pieceType && p.Color == color
}

type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) Add(d direction) Square {
	return Square{Row: s.Row + d.row, Col: s.Col + d.col}
}

// String renders the square in coordinate form, e.g. "e4".
func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", s.Col+'a', 8-s.Row)
}

// Board is an 8x8 grid indexed [row][col]. Copying the value clones it.
type Board [8][8]Piece

func (b *Board) At(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

func (b *Board) Set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

func (b *Board) Clear(sq Square) {
	b[sq.Row][sq.Col] = Piece{}
}

func (b *Board) IsEmpty(sq Square) bool {
	return b[sq.Row][sq.Col].IsEmpty()
}

// Clone returns an independent copy used for hypothetical moves.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// FindKing scans the board for the king of color. ok is false if there is not
// exactly one.
func (b *Board) FindKing(color Color) (Square, bool) {
	var found Square
	count := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if b[row][col].Is(color, King) {
				found = Square{Row: row, Col: col}
				count++
			}
		}
	}
	return found, count == 1
}

// MarshalJSON writes the board as rows of pieces with null for empty squares.
func (b Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, 8)
	for row := 0; row < 8; row++ {
		rows[row] = make([]*Piece, 8)
		for col := 0; col < 8; col++ {
			if p := b[row][col]; !p.IsEmpty() {
				rows[row][col] = &p
			}
		}
	}
	return json.Marshal(rows)
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func newBoard() Board {
	var board Board
	for col := 0; col < 8; col++ {
		board[0][col] = Piece{Type: backRank[col], Color: Black}
		board[1][col] = Piece{Type: Pawn, Color: Black}
		board[6][col] = Piece{Type: Pawn, Color: White}
		board[7][col] = Piece{Type: backRank[col], Color: White}
	}
	return board
}
