package model

type direction struct {
	row int
	col int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingDirs   = append(append([]direction{}, rookDirs...), bishopDirs...)
)

// IsSquareAttacked reports whether any piece of defender's opponent attacks sq
// on board. It only reads the board it is given.
func IsSquareAttacked(board *Board, sq Square, defender Color) bool {
	attacker := defender.Opponent()

	// An attacking pawn sits one step behind sq from its own point of view.
	for _, dc := range []int{-1, 1} {
		from := Square{Row: sq.Row - attacker.forward(), Col: sq.Col + dc}
		if from.InBounds() && board.At(from).Is(attacker, Pawn) {
			return true
		}
	}
	for _, dir := range knightDirs {
		from := sq.Add(dir)
		if from.InBounds() && board.At(from).Is(attacker, Knight) {
			return true
		}
	}
	for _, dir := range kingDirs {
		from := sq.Add(dir)
		if from.InBounds() && board.At(from).Is(attacker, King) {
			return true
		}
	}
	if rayHits(board, sq, rookDirs, attacker, Rook) {
		return true
	}
	return rayHits(board, sq, bishopDirs, attacker, Bishop)
}

// rayHits walks each direction from sq until the first occupied square and
// reports whether it holds an attacker slider of kind or a queen.
func rayHits(board *Board, sq Square, dirs []direction, attacker Color, kind PieceType) bool {
	for _, dir := range dirs {
		for target := sq.Add(dir); target.InBounds(); target = target.Add(dir) {
			p := board.At(target)
			if p.IsEmpty() {
				continue
			}
			if p.Color == attacker && (p.Type == kind || p.Type == Queen) {
				return true
			}
			break
		}
	}
	return false
}

