package recall

import "errors"

var (
	ErrNotActive   = errors.New("game is not accepting selections")
	ErrNotFlashing = errors.New("game is not flashing")
	ErrOutOfBounds = errors.New("cell is out of bounds")
	ErrGameOver    = errors.New("game is over")
)
