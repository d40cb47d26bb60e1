package hex

import "errors"

// Board and coordinate errors
var (
	ErrCoordinateRange = errors.New("coordinate out of range: must be between 0 and 255")
	ErrBoardSize       = errors.New("invalid board size: must be between 3 and 255")
	ErrInvalidCell     = errors.New("cell coordinates out of bounds")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrBoardFull       = errors.New("cannot make move: board is full")
	ErrMoveIndex       = errors.New("move index out of range")
)
