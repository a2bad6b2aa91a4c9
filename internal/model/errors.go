package model

import "errors"

var (
	ErrOutOfBounds         = errors.New("square out of bounds")
	ErrNoPiece             = errors.New("no piece at from square")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrNoSelection         = errors.New("no piece selected")
	ErrInvalidMove         = errors.New("invalid move, not legal")
	ErrGameOver            = errors.New("game is over")
	ErrNothingToUndo       = errors.New("nothing to undo")
	ErrCorruptPosition     = errors.New("corrupt position")
	ErrNotAuthorized       = errors.New("not authorized to join this game")
	ErrDuplicateConnection = errors.New("connection already exists")
)
