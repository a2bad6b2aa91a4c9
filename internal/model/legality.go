package model

// LegalMoves returns the legal moves for the piece on from. It returns nil
// when the square is empty; the caller checks whose turn it is.
func (p *Position) LegalMoves(from Square) []Move {
	if !from.InBounds() || p.Board.IsEmpty(from) {
		return nil
	}
	return p.filterLegalMoves(p.pseudoMoves(from))
}

// filterLegalMoves drops the moves that leave the mover's king attacked. Each
// candidate is tried on a clone of the board, never on the live one.
func (p *Position) filterLegalMoves(pseudoMoves []Move) []Move {
	legalMoves := []Move{}
	for _, move := range pseudoMoves {
		mover := p.Board.At(move.From)
		board := p.Board.Clone()
		performMove(board, move)

		kingSq := p.KingSquare(mover.Color)
		if mover.Type == King {
			kingSq = move.To
		}
		if !IsSquareAttacked(board, kingSq, mover.Color) {
			legalMoves = append(legalMoves, move)
		}
	}
	return legalMoves
}

// AllLegalMoves returns every legal move of color.
func (p *Position) AllLegalMoves(color Color) []Move {
	legalMoves := []Move{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := Square{Row: row, Col: col}
			if p.Board.At(sq).Color == color && !p.Board.IsEmpty(sq) {
				legalMoves = append(legalMoves, p.LegalMoves(sq)...)
			}
		}
	}
	return legalMoves
}

// HasLegalMoves stops at the first piece of color that can move.
func (p *Position) HasLegalMoves(color Color) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			sq := Square{Row: row, Col: col}
			if piece := p.Board.At(sq); !piece.IsEmpty() && piece.Color == color && len(p.LegalMoves(sq)) > 0 {
				return true
			}
		}
	}
	return false
}

// FindLegalMove returns the legal move from -> to, if there is one.
func (p *Position) FindLegalMove(from, to Square) (Move, bool) {
	for _, move := range p.LegalMoves(from) {
		if move.To == to {
			return move, true
		}
	}
	return Move{}, false
}
