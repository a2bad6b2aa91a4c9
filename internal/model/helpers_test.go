package model

import "testing"

// sq converts coordinates such as "e4" to a Square.
func sq(t *testing.T, coord string) Square {
	t.Helper()
	if len(coord) != 2 || coord[0] < 'a' || coord[0] > 'h' || coord[1] < '1' || coord[1] > '8' {
		t.Fatalf("invalid coordinate %q", coord)
	}
	return Square{Row: 8 - int(coord[1]-'0'), Col: int(coord[0] - 'a')}
}

type placement struct {
	coord string
	piece Piece
}

func wp(coord string, pt PieceType) placement {
	return placement{coord: coord, piece: Piece{Type: pt, Color: White}}
}

func bp(coord string, pt PieceType) placement {
	return placement{coord: coord, piece: Piece{Type: pt, Color: Black}}
}

func (p placement) moved() placement {
	p.piece.HasMoved = true
	return p
}

func setup(t *testing.T, toMove Color, placements ...placement) *Position {
	t.Helper()
	pieces := make(map[Square]Piece, len(placements))
	for _, pl := range placements {
		pieces[sq(t, pl.coord)] = pl.piece
	}
	pos, err := NewPositionFromPieces(pieces, toMove)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return pos
}

// play applies the legal move from -> to and fails the test if it is not legal.
func play(t *testing.T, pos *Position, from, to string) MoveRecord {
	t.Helper()
	move, ok := pos.FindLegalMove(sq(t, from), sq(t, to))
	if !ok {
		t.Fatalf("%s->%s is not legal for %s", from, to, pos.ToMove)
	}
	return pos.Apply(move)
}

func destinations(moves []Move) map[Square]Move {
	out := make(map[Square]Move, len(moves))
	for _, m := range moves {
		out[m.To] = m
	}
	return out
}
