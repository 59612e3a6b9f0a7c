package recall

import (
	"fmt"
	"strings"

	"github.com/vancomm/recall-server/internal/random"
	"github.com/vancomm/recall-server/internal/settings"
)

// Board is a rows×cols grid in row-major order. A cell holds 0 when empty,
// otherwise one of the numbers 1..n, each exactly once.
type Board struct {
	Rows, Cols int
	Cells      []int
}

// NewBoard shuffles every cell index with r and hands the numbers out to the
// first NumItems indices. The same settings and generator state always give
// the same board.
func NewBoard(s settings.GameSettings, r *random.Xorshift32) Board {
	cells := make([]int, s.Cells())
	order := make([]int, len(cells))
	for i := range order {
		order[i] = i
	}
	r.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	for n := range s.NumItems {
		cells[order[n]] = n + 1
	}
	return Board{Rows: s.Rows, Cols: s.Cols, Cells: cells}
}

func (b Board) InBounds(x, y int) bool {
	return 0 <= x && x < b.Cols && 0 <= y && y < b.Rows
}

func (b Board) Index(x, y int) int {
	return y*b.Cols + x
}

// Positions maps each number to its cell index.
func (b Board) Positions() map[int]int {
	m := make(map[int]int)
	for i, n := range b.Cells {
		if n != 0 {
			m[n] = i
		}
	}
	return m
}

func (b Board) String() string {
	var sb strings.Builder
	for y := range b.Rows {
		for x := range b.Cols {
			if x > 0 {
				sb.WriteByte(' ')
			}
			if n := b.Cells[b.Index(x, y)]; n != 0 {
				fmt.Fprintf(&sb, "%2d", n)
			} else {
				sb.WriteString(" .")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
