package model

// Undo takes back the last move and returns its record. Check and game over
// are recomputed for the restored side rather than taken from the record.
func (p *Position) Undo() (MoveRecord, error) {
	if len(p.MoveHistory) == 0 {
		return MoveRecord{}, ErrNothingToUndo
	}
	last := len(p.MoveHistory) - 1
	record := p.MoveHistory[last]
	p.MoveHistory = p.MoveHistory[:last]

	// The recorded piece predates promotion, so this also turns a queen back into a pawn.
	p.Board.Clear(record.To)
	p.Board.Set(record.From, record.Piece)
	if !record.Captured.IsEmpty() {
		p.Board.Set(record.CapturedAt, record.Captured)
	}

	if record.Special == SpecialCastling {
		rook := p.Board.At(record.Rook.To)
		p.Board.Clear(record.Rook.To)
		rook.HasMoved = false
		p.Board.Set(record.Rook.From, rook)
	}
	if record.Piece.Type == King {
		p.setKingSquare(record.Piece.Color, record.From)
	}

	p.EnPassantTarget = record.EnPassantTarget
	p.CastlingRights = record.CastlingRights
	p.ToMove = record.Piece.Color
	p.refreshStatus()
	return record, nil
}
