// Package settings holds the recall game configuration and the codec that
// shares it through a URL fragment.
package settings

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/recall-server/internal/random"
)

var Log = logrus.New()

const (
	KeyRows         = "rows"
	KeyCols         = "cols"
	KeyNumItems     = "numItems"
	KeyFlashTime    = "flashTime"
	KeyMaxAttempts  = "maxAttempts"
	KeyAllOrNothing = "allOrNothing"
	KeyUnordered    = "unordered"
	KeySeed         = "seed"
)

// ShareableKeys lists the fields that travel in a fragment, in encoding
// order. SelectedPreset is deliberately absent.
var ShareableKeys = []string{
	KeyRows,
	KeyCols,
	KeyNumItems,
	KeyFlashTime,
	KeyMaxAttempts,
	KeyAllOrNothing,
	KeyUnordered,
	KeySeed,
}

const (
	DefaultRows         = 4
	DefaultCols         = 4
	DefaultNumItems     = 5
	DefaultFlashTime    = 2.0
	DefaultMaxAttempts  = 0
	DefaultAllOrNothing = false
	DefaultUnordered    = false
	DefaultSeed         = 1

	MaxSide = 12
)

type GameSettings struct {
	Rows           int     `schema:"rows" json:"rows"`
	Cols           int     `schema:"cols" json:"cols"`
	NumItems       int     `schema:"numItems" json:"numItems"`
	FlashTime      float64 `schema:"flashTime" json:"flashTime"`
	MaxAttempts    int     `schema:"maxAttempts" json:"maxAttempts"`
	AllOrNothing   bool    `schema:"allOrNothing" json:"allOrNothing"`
	Unordered      bool    `schema:"unordered" json:"unordered"`
	Seed           int64   `schema:"seed" json:"seed"`
	SelectedPreset string  `schema:"-" json:"selectedPreset"`
}

func Defaults() GameSettings {
	return GameSettings{
		Rows:           DefaultRows,
		Cols:           DefaultCols,
		NumItems:       DefaultNumItems,
		FlashTime:      DefaultFlashTime,
		MaxAttempts:    DefaultMaxAttempts,
		AllOrNothing:   DefaultAllOrNothing,
		Unordered:      DefaultUnordered,
		Seed:           DefaultSeed,
		SelectedPreset: PresetNormal,
	}
}

var ErrInvalidSettings = errors.New("invalid game settings")

// Validate reports whether a board can be generated from s. The codec never
// calls it; decoding is lenient and validation belongs to whoever plays.
func (s GameSettings) Validate() error {
	switch {
	case s.Rows < 1 || s.Rows > MaxSide:
		return fmt.Errorf("%w: rows must be in [1, %d]", ErrInvalidSettings, MaxSide)
	case s.Cols < 1 || s.Cols > MaxSide:
		return fmt.Errorf("%w: cols must be in [1, %d]", ErrInvalidSettings, MaxSide)
	case s.NumItems < 1 || s.NumItems > s.Cells():
		return fmt.Errorf("%w: numItems must be in [1, %d]", ErrInvalidSettings, s.Cells())
	case math.IsNaN(s.FlashTime) || math.IsInf(s.FlashTime, 0) || s.FlashTime <= 0:
		return fmt.Errorf("%w: flashTime must be a positive number", ErrInvalidSettings)
	case s.MaxAttempts < 0:
		return fmt.Errorf("%w: maxAttempts must not be negative", ErrInvalidSettings)
	case random.Truncate(s.Seed) == 0:
		return fmt.Errorf("%w: %w", ErrInvalidSettings, random.ErrZeroSeed)
	}
	return nil
}

func (s GameSettings) Cells() int {
	return s.Rows * s.Cols
}

// Equal compares the shareable fields only.
func (s GameSettings) Equal(o GameSettings) bool {
	s.SelectedPreset, o.SelectedPreset = "", ""
	return s == o
}
