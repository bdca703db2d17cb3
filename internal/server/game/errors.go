package game

import "errors"

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrAlreadyMoved = errors.New("unit already moved this turn")
	ErrGameOver     = errors.New("game over")
	ErrNoPlayers    = errors.New("game needs at least two players")
	ErrUnknownSide  = errors.New("unknown side")
)
