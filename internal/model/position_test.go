package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewPositionFromPiecesRejectsBadBoards(t *testing.T) {
	tests := []struct {
		name   string
		pieces map[Square]Piece
		want   error
	}{
		{
			name:   "missing black king",
			pieces: map[Square]Piece{{Row: 7, Col: 4}: {Type: King, Color: White}},
			want:   ErrCorruptPosition,
		},
		{
			name: "two white kings",
			pieces: map[Square]Piece{
				{Row: 7, Col: 4}: {Type: King, Color: White},
				{Row: 7, Col: 0}: {Type: King, Color: White},
				{Row: 0, Col: 4}: {Type: King, Color: Black},
			},
			want: ErrCorruptPosition,
		},
		{
			name: "off the board",
			pieces: map[Square]Piece{
				{Row: 7, Col: 4}: {Type: King, Color: White},
				{Row: 0, Col: 4}: {Type: King, Color: Black},
				{Row: 9, Col: 4}: {Type: Rook, Color: Black},
			},
			want: ErrOutOfBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPositionFromPieces(tt.pieces, White); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewPositionFromPiecesDerivesState(t *testing.T) {
	pos := setup(t, Black,
		wp("e1", King), wp("a1", Rook).moved(), wp("h1", Rook),
		bp("g8", King), bp("h8", Rook), wp("b5", Bishop),
	)
	want := CastlingRights{White: SideCastling{Kingside: true}}
	if diff := cmp.Diff(want, pos.CastlingRights); diff != "" {
		t.Errorf("castling rights mismatch (-want +got):\n%s", diff)
	}
	if pos.BlackKingPosition != sq(t, "g8") || pos.WhiteKingPosition != sq(t, "e1") {
		t.Errorf("king cache white=%s black=%s", pos.WhiteKingPosition, pos.BlackKingPosition)
	}
	if pos.IsCheck || pos.GameOver {
		t.Errorf("check=%v gameOver=%v, want neither", pos.IsCheck, pos.GameOver)
	}
}

func TestValidateDetectsStaleKingCache(t *testing.T) {
	pos := NewPosition()
	pos.WhiteKingPosition = sq(t, "d1")
	if err := pos.Validate(); !errors.Is(err, ErrCorruptPosition) {
		t.Errorf("got %v, want ErrCorruptPosition", err)
	}
}

func TestIsSquareAttacked(t *testing.T) {
	pos := setup(t, White,
		wp("a1", King), bp("h8", King),
		bp("d5", Pawn).moved(), bp("f6", Knight), bp("b7", Bishop), bp("h1", Rook),
		wp("c3", Pawn).moved(),
	)
	tests := []struct {
		coord string
		want  bool
	}{
		{"c4", true},  // d5 pawn
		{"e4", true},  // d5 pawn, f6 knight
		{"d6", false}, // pawns attack forward only
		{"g4", true},  // knight
		{"c6", true},  // bishop
		{"a8", true},  // bishop backwards
		{"e1", true},  // rook along the rank
		{"h5", true},  // rook along the file
		{"f3", false}, // d5 pawn blocks the long diagonal
		{"g7", true},  // king
		{"a6", true},  // bishop
		{"b3", false},
	}
	for _, tt := range tests {
		if got := IsSquareAttacked(&pos.Board, sq(t, tt.coord), White); got != tt.want {
			t.Errorf("%s attacked = %v, want %v", tt.coord, got, tt.want)
		}
	}
}

func TestBoardJSONUsesNullForEmptySquares(t *testing.T) {
	data, err := json.Marshal(NewPosition().Board)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var rows [][]*Piece
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 8 || len(rows[0]) != 8 {
		t.Fatalf("board is %dx%d", len(rows), len(rows[0]))
	}
	if rows[4][4] != nil {
		t.Errorf("e4 should be null, got %+v", rows[4][4])
	}
	if p := rows[7][4]; p == nil || p.Type != King || p.Color != White {
		t.Errorf("e1 = %+v, want white king", p)
	}
}
