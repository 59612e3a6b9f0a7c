package recall

import (
	"bytes"
	"encoding/gob"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/recall-server/internal/random"
	"github.com/vancomm/recall-server/internal/settings"
)

var Log = logrus.New()

type GameState struct {
	settings.GameSettings
	Board    Board
	Found    []bool
	Marks    []CellDisplayState
	Status   Status
	Hits     int /* numbers found this round */
	Failures int /* wrong picks over the whole game */
	Rounds   int
}

func DecodeGameState(buf []byte) (*GameState, error) {
	var game GameState
	err := gob.NewDecoder(bytes.NewBuffer(buf)).Decode(&game)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (g GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(g)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewGame lays out a board from s and starts flashing it.
func NewGame(s settings.GameSettings) (*GameState, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	r, err := random.New(s.Seed)
	if err != nil {
		return nil, err
	}
	board := NewBoard(s, r)
	g := &GameState{
		GameSettings: s,
		Board:        board,
		Rounds:       1,
	}
	g.clearRound()
	g.Status = StatusFlashing
	Log.WithFields(logrus.Fields{
		"rows": s.Rows, "cols": s.Cols, "items": s.NumItems, "seed": s.Seed,
	}).Debug("new game")
	return g, nil
}

func (g *GameState) clearRound() {
	n := len(g.Board.Cells)
	g.Found = make([]bool, n)
	g.Marks = make([]CellDisplayState, n)
	for i := range g.Marks {
		g.Marks[i] = DisplayDefault
	}
	g.Hits = 0
}

// Begin hides the numbers and starts accepting selections.
func (g *GameState) Begin() error {
	if g.Status.Over() {
		return ErrGameOver
	}
	if g.Status != StatusFlashing {
		return ErrNotFlashing
	}
	g.Status = StatusActive
	return nil
}

// Flash shows the board again after a failed all-or-nothing round.
func (g *GameState) Flash() error {
	if g.Status.Over() {
		return ErrGameOver
	}
	if g.Status != StatusResetting && g.Status != StatusInitial {
		return ErrNotFlashing
	}
	g.clearRound()
	g.Rounds++
	g.Status = StatusFlashing
	return nil
}

// Select picks cell x, y. In ordered mode only the next number counts, in
// unordered mode any number not found yet does. Picking a found cell again
// changes nothing.
func (g *GameState) Select(x, y int) (correct bool, err error) {
	if g.Status.Over() {
		return false, ErrGameOver
	}
	if g.Status != StatusActive {
		return false, ErrNotActive
	}
	if !g.Board.InBounds(x, y) {
		return false, ErrOutOfBounds
	}

	i := g.Board.Index(x, y)
	if g.Found[i] {
		return true, nil
	}

	g.settleMarks()
	n := g.Board.Cells[i]
	if n != 0 && (g.Unordered || n == g.Hits+1) {
		g.Found[i] = true
		g.Marks[i] = DisplayCorrect
		g.Hits++
		if g.Hits == g.NumItems {
			g.Status = StatusWon
		}
		return true, nil
	}

	g.Marks[i] = DisplayWrong
	g.Failures++
	switch {
	case g.MaxAttempts > 0 && g.Failures >= g.MaxAttempts:
		g.Status = StatusLoss
	case g.AllOrNothing:
		g.Status = StatusResetting
	}
	return false, nil
}

// settleMarks turns the previous correct pick into a plain selected cell so
// only the latest pick shows as correct.
func (g *GameState) settleMarks() {
	for i, m := range g.Marks {
		if m == DisplayCorrect {
			g.Marks[i] = DisplaySelected
		}
	}
}

func (g *GameState) Surrender() {
	if !g.Status.Over() {
		g.Status = StatusSurrender
	}
}

// AttemptsLeft is -1 when attempts are unlimited.
func (g *GameState) AttemptsLeft() int {
	if g.MaxAttempts == 0 {
		return -1
	}
	return max(g.MaxAttempts-g.Failures, 0)
}

// PlayerView hides every number the player is not supposed to see: while
// flashing the whole board is shown, while playing only found numbers are,
// and a finished game reveals everything.
func (g *GameState) PlayerView() []Cell {
	cells := make([]Cell, len(g.Board.Cells))
	for i, n := range g.Board.Cells {
		c := Cell{State: g.Marks[i], Selected: g.Found[i]}
		reveal := g.Found[i] || g.Status.Over()
		if g.Status == StatusFlashing && n != 0 {
			c.State = DisplayFlash
			reveal = true
		}
		if n != 0 && reveal {
			c.Number = &n
		}
		cells[i] = c
	}
	return cells
}
