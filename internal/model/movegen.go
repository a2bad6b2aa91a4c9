package model

// pseudoMoves returns the moves of the piece on from that obey its movement
// pattern, ignoring whether the mover's own king is left attacked.
func (p *Position) pseudoMoves(from Square) []Move {
	piece := p.Board.At(from)
	switch piece.Type {
	case Pawn:
		return p.pseudoPawnMoves(from, piece)
	case Knight:
		return p.pseudoStepMoves(from, piece, knightDirs)
	case Bishop:
		return p.pseudoSlideMoves(from, piece, bishopDirs)
	case Rook:
		return p.pseudoSlideMoves(from, piece, rookDirs)
	case Queen:
		return append(p.pseudoSlideMoves(from, piece, bishopDirs), p.pseudoSlideMoves(from, piece, rookDirs)...)
	case King:
		return append(p.pseudoStepMoves(from, piece, kingDirs), p.castleMoves(from, piece)...)
	default:
		return nil
	}
}

func (p *Position) pseudoPawnMoves(from Square, piece Piece) []Move {
	moves := []Move{}
	dir := piece.Color.forward()
	farRow := piece.Color.Opponent().homeRow()
	startRow := piece.Color.homeRow() + dir

	tag := func(to Square) SpecialMove {
		if to.Row == farRow {
			return SpecialPromotion
		}
		return SpecialNone
	}

	one := Square{Row: from.Row + dir, Col: from.Col}
	if one.InBounds() && p.Board.IsEmpty(one) {
		moves = append(moves, Move{From: from, To: one, Special: tag(one)})
		two := Square{Row: from.Row + 2*dir, Col: from.Col}
		if from.Row == startRow && p.Board.IsEmpty(two) {
			moves = append(moves, Move{From: from, To: two, DoubleStep: true})
		}
	}
	for _, dc := range []int{-1, 1} {
		to := Square{Row: from.Row + dir, Col: from.Col + dc}
		if !to.InBounds() {
			continue
		}
		if target := p.Board.At(to); !target.IsEmpty() && target.Color != piece.Color {
			moves = append(moves, Move{From: from, To: to, Special: tag(to)})
		}
		if p.EnPassantTarget != nil && *p.EnPassantTarget == to {
			moves = append(moves, Move{From: from, To: to, Special: SpecialEnPassant})
		}
	}
	return moves
}

// pseudoStepMoves covers the single-step pieces (knight, king).
func (p *Position) pseudoStepMoves(from Square, piece Piece, dirs []direction) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		to := from.Add(dir)
		if !to.InBounds() {
			continue
		}
		if target := p.Board.At(to); target.IsEmpty() || target.Color != piece.Color {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}

func (p *Position) pseudoSlideMoves(from Square, piece Piece, dirs []direction) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		for to := from.Add(dir); to.InBounds(); to = to.Add(dir) {
			target := p.Board.At(to)
			if target.IsEmpty() {
				moves = append(moves, Move{From: from, To: to})
				continue
			}
			if target.Color != piece.Color {
				moves = append(moves, Move{From: from, To: to})
			}
			break
		}
	}
	return moves
}

type castleSide struct {
	rookCol   int
	rookTo    int
	kingTo    int
	between   []int // must be empty
	kingTrail []int // must not be attacked, king square excluded
	allowed   func(SideCastling) bool
}

var castleSides = []castleSide{
	{
		rookCol: 7, rookTo: 5, kingTo: 6,
		between:   []int{5, 6},
		kingTrail: []int{5, 6},
		allowed:   func(s SideCastling) bool { return s.Kingside },
	},
	{
		rookCol: 0, rookTo: 3, kingTo: 2,
		between:   []int{1, 2, 3},
		kingTrail: []int{3, 2},
		allowed:   func(s SideCastling) bool { return s.Queenside },
	},
}

func (p *Position) castleMoves(from Square, king Piece) []Move {
	row := king.Color.homeRow()
	if king.HasMoved || from != (Square{Row: row, Col: 4}) {
		return nil
	}
	if IsSquareAttacked(&p.Board, from, king.Color) {
		return nil
	}
	rights := p.CastlingRights.For(king.Color)
	moves := []Move{}
	for _, side := range castleSides {
		if !side.allowed(rights) {
			continue
		}
		rookSq := Square{Row: row, Col: side.rookCol}
		if rook := p.Board.At(rookSq); !rook.Is(king.Color, Rook) || rook.HasMoved {
			continue
		}
		if !p.rowEmpty(row, side.between) || p.rowAttacked(row, side.kingTrail, king.Color) {
			continue
		}
		moves = append(moves, Move{
			From:    from,
			To:      Square{Row: row, Col: side.kingTo},
			Special: SpecialCastling,
			Rook: &CastleRookMove{
				From: rookSq,
				To:   Square{Row: row, Col: side.rookTo},
			},
		})
	}
	return moves
}

func (p *Position) rowEmpty(row int, cols []int) bool {
	for _, col := range cols {
		if !p.Board.IsEmpty(Square{Row: row, Col: col}) {
			return false
		}
	}
	return true
}

func (p *Position) rowAttacked(row int, cols []int, defender Color) bool {
	for _, col := range cols {
		if IsSquareAttacked(&p.Board, Square{Row: row, Col: col}, defender) {
			return true
		}
	}
	return false
}
