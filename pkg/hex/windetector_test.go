package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridOf builds a grid from rows indexed [x][y].
func gridOf(t *testing.T, cols [][]Color) Grid {
	t.Helper()
	g := NewGrid(len(cols))
	for x, col := range cols {
		require.Len(t, col, len(cols))
		for y, c := range col {
			if c != Empty {
				g.set(MustCell(x, y), c)
			}
		}
	}
	return g
}

const (
	e = Empty
	b = Blue
	r = Red
)

func TestStaticWinner(t *testing.T) {
	tests := []struct {
		name string
		grid [][]Color
		want Color
	}{
		{
			name: "empty",
			grid: [][]Color{{e, e, e}, {e, e, e}, {e, e, e}},
			want: Empty,
		},
		{
			name: "blue straight row across x",
			grid: [][]Color{{e, b, e}, {e, b, e}, {e, b, e}},
			want: Blue,
		},
		{
			name: "red straight column across y",
			grid: [][]Color{{e, e, e}, {r, r, r}, {e, e, e}},
			want: Red,
		},
		{
			name: "blue along the (1,1) diagonal",
			grid: [][]Color{{b, e, e}, {e, b, e}, {e, e, b}},
			want: Blue,
		},
		{
			name: "blue blocked on the anti diagonal",
			grid: [][]Color{{e, e, b}, {e, b, e}, {b, e, e}},
			want: Empty,
		},
		{
			name: "red bending chain",
			grid: [][]Color{{r, r, e}, {e, r, e}, {e, r, r}},
			want: Red,
		},
		{
			name: "blue checked first",
			grid: [][]Color{{b, b, b}, {b, b, b}, {b, b, b}},
			want: Blue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StaticWinner(gridOf(t, tt.grid)))
		})
	}
}

func TestWinDetector_MatchesStaticWinner(t *testing.T) {
	d := NewWinDetector()

	open := gridOf(t, [][]Color{{e, b, e}, {e, r, e}, {e, b, e}})
	won := gridOf(t, [][]Color{{e, b, e}, {e, b, e}, {e, b, e}})

	assert.Equal(t, StaticWinner(open), d.Winner(open))
	// Cache hit on an identical grid.
	assert.Equal(t, StaticWinner(open), d.Winner(open.Clone()))

	// Different contents invalidate the entry.
	assert.Equal(t, Blue, d.Winner(won))
	assert.Equal(t, Empty, d.Winner(open))

	d.Reset()
	assert.Equal(t, Blue, d.Winner(won))
}

func TestWinDetector_SizeIsPartOfTheKey(t *testing.T) {
	d := NewWinDetector()

	small := NewGrid(3)
	big := NewGrid(4)
	for x := 0; x < 4; x++ {
		big.set(MustCell(x, 0), Blue)
	}

	assert.Equal(t, Empty, d.Winner(small))
	assert.Equal(t, Blue, d.Winner(big))
	assert.Equal(t, Empty, d.Winner(small))
}

func TestMaterializedBoard_CachedWinnerTracksMoves(t *testing.T) {
	board, err := NewMaterializedBoard(3)
	require.NoError(t, err)

	cells := []Cell{
		MustCell(0, 1), MustCell(0, 0),
		MustCell(1, 1), MustCell(2, 0),
		MustCell(2, 1),
	}
	for i, c := range cells {
		play(t, board, c)
		assert.Equal(t, StaticWinner(board.State()), board.Winner(), "after ply %d", i)
		assert.Equal(t, board.Winner(), board.Winner())
	}
	assert.Equal(t, Blue, board.Winner())
}
