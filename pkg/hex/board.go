package hex

import "fmt"

// Board size limits
const (
	MinBoardSize = 3
	MaxBoardSize = 255
)

// Reader is the query side of a board. None of its methods mutate the board,
// so a Reader may be shared between goroutines that only read.
type Reader interface {
	Size() int
	CheckMove(c Cell) error
	IsValidMove(c Cell) bool
	State() Grid
	StateAt(k int) (Grid, error)
	Moves() []Move
	LastMove() (Move, bool)
	TotalMoves() int
	IsFull() bool
	OccupiedCells() []Cell
	PlayerAt(c Cell) (Color, error)
}

// Board is the move ledger of a game plus the queries derived from it. The
// ledger order is the ply order: even indexes are Blue, odd ones Red.
//
// LedgerBoard recomputes everything from the ledger; MaterializedBoard keeps
// a grid and an occupancy set up to date for constant-time lookups. Both
// convert losslessly into each other.
//
// Winner is not part of Reader: the materialized form memoizes it.
type Board interface {
	Reader
	AddMove(m Move) error
	Winner() Color
	ToLedger() *LedgerBoard
	ToMaterialized() *MaterializedBoard
}

func validateSize(size int) error {
	if size < MinBoardSize || size > MaxBoardSize {
		return fmt.Errorf("%w: got %d", ErrBoardSize, size)
	}
	return nil
}

func replay(size int, moves []Move, k int) Grid {
	g := NewGrid(size)
	for i := 0; i < k; i++ {
		g.set(moves[i].cell, ColorAtPly(i))
	}
	return g
}

// LedgerBoard stores only the ordered moves.
type LedgerBoard struct {
	size  int
	moves []Move
}

// NewLedgerBoard creates an empty ledger-only board.
func NewLedgerBoard(size int) (*LedgerBoard, error) {
	if err := validateSize(size); err != nil {
		return nil, err
	}
	return &LedgerBoard{size: size}, nil
}

// Size returns the edge length of the board
func (b *LedgerBoard) Size() int { return b.size }

// AddMove appends m to the ledger.
func (b *LedgerBoard) AddMove(m Move) error {
	if b.IsFull() {
		return ErrBoardFull
	}
	if err := b.CheckMove(m.cell); err != nil {
		return err
	}
	b.moves = append(b.moves, m)
	return nil
}

// CheckMove returns why c cannot be played, or nil.
func (b *LedgerBoard) CheckMove(c Cell) error {
	if !c.Within(b.size) {
		return fmt.Errorf("%w: %s", ErrInvalidCell, c)
	}
	for _, m := range b.moves {
		if m.cell == c {
			return fmt.Errorf("%w: %s", ErrCellOccupied, c)
		}
	}
	return nil
}

// IsValidMove reports whether c is on the board and free.
func (b *LedgerBoard) IsValidMove(c Cell) bool {
	return b.CheckMove(c) == nil
}

// State replays the whole ledger.
func (b *LedgerBoard) State() Grid {
	return replay(b.size, b.moves, len(b.moves))
}

// StateAt replays the first k moves.
func (b *LedgerBoard) StateAt(k int) (Grid, error) {
	if k < 0 || k > len(b.moves) {
		return Grid{}, fmt.Errorf("%w: %d not in [0, %d]", ErrMoveIndex, k, len(b.moves))
	}
	return replay(b.size, b.moves, k), nil
}

// Winner runs the stateless detector on the replayed grid.
func (b *LedgerBoard) Winner() Color {
	return StaticWinner(b.State())
}

// Moves returns a copy of the ledger.
func (b *LedgerBoard) Moves() []Move {
	out := make([]Move, len(b.moves))
	copy(out, b.moves)
	return out
}

// LastMove returns the most recent move, if any.
func (b *LedgerBoard) LastMove() (Move, bool) {
	if len(b.moves) == 0 {
		return Move{}, false
	}
	return b.moves[len(b.moves)-1], true
}

// TotalMoves returns the ledger length.
func (b *LedgerBoard) TotalMoves() int { return len(b.moves) }

// IsFull reports whether every cell has been played.
func (b *LedgerBoard) IsFull() bool {
	return len(b.moves) == b.size*b.size
}

// OccupiedCells returns the played cells in ply order.
func (b *LedgerBoard) OccupiedCells() []Cell {
	cells := make([]Cell, len(b.moves))
	for i, m := range b.moves {
		cells[i] = m.cell
	}
	return cells
}

// PlayerAt returns the owner of c, Empty if nobody played there.
func (b *LedgerBoard) PlayerAt(c Cell) (Color, error) {
	if !c.Within(b.size) {
		return Empty, fmt.Errorf("%w: %s", ErrInvalidCell, c)
	}
	for i, m := range b.moves {
		if m.cell == c {
			return ColorAtPly(i), nil
		}
	}
	return Empty, nil
}

// ToLedger returns b itself.
func (b *LedgerBoard) ToLedger() *LedgerBoard { return b }

// ToMaterialized builds a materialized board from the same ledger.
func (b *LedgerBoard) ToMaterialized() *MaterializedBoard {
	mb := &MaterializedBoard{
		ledger:   &LedgerBoard{size: b.size, moves: b.Moves()},
		grid:     b.State(),
		occupied: make(map[Cell]struct{}, len(b.moves)),
		detector: NewWinDetector(),
	}
	for _, m := range b.moves {
		mb.occupied[m.cell] = struct{}{}
	}
	return mb
}

// MaterializedBoard keeps the grid and the occupancy set in sync with the
// ledger. Winner checks go through a cached detector.
type MaterializedBoard struct {
	ledger   *LedgerBoard
	grid     Grid
	occupied map[Cell]struct{}
	detector *WinDetector
}

// NewMaterializedBoard creates an empty materialized board.
func NewMaterializedBoard(size int) (*MaterializedBoard, error) {
	ledger, err := NewLedgerBoard(size)
	if err != nil {
		return nil, err
	}
	return &MaterializedBoard{
		ledger:   ledger,
		grid:     NewGrid(size),
		occupied: make(map[Cell]struct{}),
		detector: NewWinDetector(),
	}, nil
}

// NewBoard creates the default board representation.
func NewBoard(size int) (*MaterializedBoard, error) {
	return NewMaterializedBoard(size)
}

// Size returns the edge length of the board
func (b *MaterializedBoard) Size() int { return b.ledger.size }

// AddMove appends m to the ledger and updates the grid and occupancy set.
func (b *MaterializedBoard) AddMove(m Move) error {
	if b.IsFull() {
		return ErrBoardFull
	}
	if err := b.CheckMove(m.cell); err != nil {
		return err
	}

	b.ledger.moves = append(b.ledger.moves, m)
	b.occupied[m.cell] = struct{}{}
	b.grid.set(m.cell, ColorAtPly(len(b.ledger.moves)-1))
	return nil
}

// CheckMove returns why c cannot be played, or nil.
func (b *MaterializedBoard) CheckMove(c Cell) error {
	if !c.Within(b.ledger.size) {
		return fmt.Errorf("%w: %s", ErrInvalidCell, c)
	}
	if _, ok := b.occupied[c]; ok {
		return fmt.Errorf("%w: %s", ErrCellOccupied, c)
	}
	return nil
}

// IsValidMove reports whether c is on the board and free.
func (b *MaterializedBoard) IsValidMove(c Cell) bool {
	return b.CheckMove(c) == nil
}

// State returns a copy of the materialized grid.
func (b *MaterializedBoard) State() Grid {
	return b.grid.Clone()
}

// StateAt replays the first k moves.
func (b *MaterializedBoard) StateAt(k int) (Grid, error) {
	return b.ledger.StateAt(k)
}

// Winner checks the grid through the single-entry cache.
func (b *MaterializedBoard) Winner() Color {
	return b.detector.Winner(b.grid)
}

// Moves returns a copy of the ledger.
func (b *MaterializedBoard) Moves() []Move { return b.ledger.Moves() }

// LastMove returns the most recent move, if any.
func (b *MaterializedBoard) LastMove() (Move, bool) { return b.ledger.LastMove() }

// TotalMoves returns the ledger length.
func (b *MaterializedBoard) TotalMoves() int { return len(b.ledger.moves) }

// IsFull reports whether every cell has been played.
func (b *MaterializedBoard) IsFull() bool {
	return len(b.occupied) == b.ledger.size*b.ledger.size
}

// OccupiedCells returns the played cells in ply order.
func (b *MaterializedBoard) OccupiedCells() []Cell { return b.ledger.OccupiedCells() }

// PlayerAt returns the owner of c, Empty if nobody played there.
func (b *MaterializedBoard) PlayerAt(c Cell) (Color, error) {
	if !c.Within(b.ledger.size) {
		return Empty, fmt.Errorf("%w: %s", ErrInvalidCell, c)
	}
	return b.grid.AtCell(c), nil
}

// ToLedger returns an independent ledger-only copy.
func (b *MaterializedBoard) ToLedger() *LedgerBoard {
	return &LedgerBoard{size: b.ledger.size, moves: b.ledger.Moves()}
}

// ToMaterialized returns b itself.
func (b *MaterializedBoard) ToMaterialized() *MaterializedBoard { return b }

var (
	_ Board = (*LedgerBoard)(nil)
	_ Board = (*MaterializedBoard)(nil)
)
