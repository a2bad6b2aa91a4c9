package model

import "fmt"

// performMove relocates pieces on board for move, including the castling rook,
// the pawn taken en passant and promotion. It returns the captured piece and
// the square it stood on. Nothing outside the board is touched.
func performMove(board *Board, move Move) (Piece, Square) {
	piece := board.At(move.From)
	captured, capturedAt := board.At(move.To), move.To

	board.Clear(move.From)
	piece.HasMoved = true

	switch move.Special {
	case SpecialCastling:
		rook := board.At(move.Rook.From)
		board.Clear(move.Rook.From)
		rook.HasMoved = true
		board.Set(move.Rook.To, rook)
	case SpecialEnPassant:
		// The passed pawn stands beside the mover: same row as from, same column as to.
		capturedAt = Square{Row: move.From.Row, Col: move.To.Col}
		captured = board.At(capturedAt)
		board.Clear(capturedAt)
	}
	if piece.Type == Pawn && move.To.Row == piece.Color.Opponent().homeRow() {
		piece.Type = Queen
	}
	board.Set(move.To, piece)
	return captured, capturedAt
}

// Apply plays move for the side to move and returns its history record. The
// move must come from LegalMoves; Apply only performs the mechanics.
func (p *Position) Apply(move Move) MoveRecord {
	piece := p.Board.At(move.From)
	if piece.IsEmpty() || piece.Color != p.ToMove {
		panic(fmt.Sprintf("model: apply %s->%s: no %s piece on %s", move.From, move.To, p.ToMove, move.From))
	}

	record := MoveRecord{
		From:            move.From,
		To:              move.To,
		Piece:           piece,
		Special:         move.Special,
		Rook:            move.Rook,
		EnPassantTarget: p.EnPassantTarget,
		CastlingRights:  p.CastlingRights,
	}

	captured, capturedAt := performMove(&p.Board, move)
	record.Captured, record.CapturedAt = captured, capturedAt

	if piece.Type == King {
		p.setKingSquare(piece.Color, move.To)
	}
	p.updateCastlingRights(piece, move, captured, capturedAt)

	p.EnPassantTarget = nil
	if piece.Type == Pawn && move.DoubleStep {
		p.EnPassantTarget = &Square{Row: (move.From.Row + move.To.Row) / 2, Col: move.From.Col}
	}
	if piece.Type == Pawn && p.Board.At(move.To).Type == Queen {
		record.Special = SpecialPromotion
		record.PromotedTo = Queen
	}

	p.ToMove = p.ToMove.Opponent()
	p.refreshStatus()
	record.Check, record.GameOver = p.IsCheck, p.GameOver

	p.MoveHistory = append(p.MoveHistory, record)
	return record
}

func (p *Position) updateCastlingRights(piece Piece, move Move, captured Piece, capturedAt Square) {
	switch piece.Type {
	case King:
		*p.CastlingRights.side(piece.Color) = SideCastling{}
	case Rook:
		p.CastlingRights.revokeForRookSquare(piece.Color, move.From)
	}
	if captured.Type == Rook {
		p.CastlingRights.revokeForRookSquare(captured.Color, capturedAt)
	}
}
