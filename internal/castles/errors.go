package castles

import "errors"

var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrNoRangedAttack = errors.New("unit cannot attack in place")
	ErrInvariant      = errors.New("board invariant violated")
	ErrInvalidLayout  = errors.New("invalid layout")
	ErrOutOfBounds    = errors.New("coordinates out of bounds")
)
