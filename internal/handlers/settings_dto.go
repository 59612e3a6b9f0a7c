package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/vancomm/recall-server/internal/settings"
)

var ErrBadFragment = errors.New("fragment must be query-encoded settings")

type UnknownPresetError struct {
	Name       string
	Suggestion string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset %q", e.Name)
}

func (e *UnknownPresetError) Unwrap() error {
	return settings.ErrUnknownPreset
}

// SettingsQuery is the query string form of game settings. Field names match
// the fragment keys.
type SettingsQuery struct {
	Preset       *string  `schema:"preset"`
	Fragment     *string  `schema:"fragment"`
	Rows         *int     `schema:"rows"`
	Cols         *int     `schema:"cols"`
	NumItems     *int     `schema:"numItems"`
	FlashTime    *float64 `schema:"flashTime"`
	MaxAttempts  *int     `schema:"maxAttempts"`
	AllOrNothing *bool    `schema:"allOrNothing"`
	Unordered    *bool    `schema:"unordered"`
	Seed         *int64   `schema:"seed"`
}

func ParseSettingsQuery(src url.Values) (SettingsQuery, error) {
	var q SettingsQuery
	err := decoder.Decode(&q, src)
	return q, err
}

// normalizeFragment accepts "#?a=1", "?a=1" and "a=1" alike.
func normalizeFragment(f string) string {
	return settings.Marker + strings.TrimLeft(f, "#?")
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Resolve layers defaults, the named preset, the fragment and the explicit
// fields, in that order. seeded reports whether the seed came from the
// request rather than from a default.
func (q SettingsQuery) Resolve() (s settings.GameSettings, seeded bool, err error) {
	s = settings.Defaults()
	if q.Preset != nil {
		p, suggestion, err := settings.FindPreset(*q.Preset)
		if err != nil {
			return s, false, &UnknownPresetError{*q.Preset, suggestion}
		}
		s = p.Settings
	}
	if q.Fragment != nil {
		partial := settings.Decode(normalizeFragment(*q.Fragment))
		s = partial.Apply(s)
		seeded = partial.Seed.Set()
	}
	override(&s.Rows, q.Rows)
	override(&s.Cols, q.Cols)
	override(&s.NumItems, q.NumItems)
	override(&s.FlashTime, q.FlashTime)
	override(&s.MaxAttempts, q.MaxAttempts)
	override(&s.AllOrNothing, q.AllOrNothing)
	override(&s.Unordered, q.Unordered)
	override(&s.Seed, q.Seed)
	seeded = seeded || q.Seed != nil
	s.SelectedPreset = settings.MatchPreset(s)
	return s, seeded, nil
}
