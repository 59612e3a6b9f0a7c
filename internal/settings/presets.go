package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	PresetEasy   = "easy"
	PresetNormal = "normal"
	PresetHard   = "hard"
	PresetExpert = "expert"
	PresetCustom = "custom"
)

type Preset struct {
	Name     string       `json:"name"`
	Settings GameSettings `json:"settings"`
}

var presets = []Preset{
	{PresetEasy, GameSettings{
		Rows: 3, Cols: 3, NumItems: 3, FlashTime: 3,
		Seed: DefaultSeed, SelectedPreset: PresetEasy,
	}},
	{PresetNormal, Defaults()},
	{PresetHard, GameSettings{
		Rows: 5, Cols: 5, NumItems: 8, FlashTime: 1.5, MaxAttempts: 3,
		Seed: DefaultSeed, SelectedPreset: PresetHard,
	}},
	{PresetExpert, GameSettings{
		Rows: 6, Cols: 6, NumItems: 12, FlashTime: 1, MaxAttempts: 1,
		AllOrNothing: true, Seed: DefaultSeed, SelectedPreset: PresetExpert,
	}},
}

func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

var ErrUnknownPreset = errors.New("unknown preset")

// FindPreset looks a preset up by name, ignoring case. On a miss the
// returned suggestion is the closest known name.
func FindPreset(name string) (p Preset, suggestion string, err error) {
	name = strings.ToLower(strings.TrimSpace(name))
	best := -1
	for _, preset := range presets {
		if preset.Name == name {
			return preset, "", nil
		}
		d := levenshtein.ComputeDistance(name, preset.Name)
		if best < 0 || d < best {
			best, suggestion = d, preset.Name
		}
	}
	return Preset{}, suggestion, fmt.Errorf("%w %q", ErrUnknownPreset, name)
}

// MatchPreset names the preset whose settings equal s apart from the seed,
// or [PresetCustom].
func MatchPreset(s GameSettings) string {
	for _, preset := range presets {
		p := preset.Settings
		p.Seed = s.Seed
		if p.Equal(s) {
			return preset.Name
		}
	}
	return PresetCustom
}
