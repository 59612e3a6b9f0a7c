package settings

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"
)

// Marker prefixes every fragment that carries settings.
const Marker = "#?"

var encoder = newEncoder()

func newEncoder() *schema.Encoder {
	enc := schema.NewEncoder()
	enc.RegisterEncoder(float64(0), func(v reflect.Value) string {
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	})
	return enc
}

// Encode renders the shareable fields of s as a query string, keys in
// [ShareableKeys] order.
func Encode(s GameSettings) string {
	values := url.Values{}
	if err := encoder.Encode(s, values); err != nil {
		Log.WithError(err).Error("unable to encode settings")
	}

	var b strings.Builder
	for i, key := range ShareableKeys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(values.Get(key)))
	}
	return b.String()
}

// Fragment is [Encode] prefixed with [Marker].
func Fragment(s GameSettings) string {
	return Marker + Encode(s)
}

type FieldState int

const (
	Absent FieldState = iota
	Present
	Defaulted
)

func (s FieldState) String() string {
	switch s {
	case Present:
		return "present"
	case Defaulted:
		return "defaulted"
	default:
		return "absent"
	}
}

func (s FieldState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *FieldState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "present":
		*s = Present
	case "defaulted":
		*s = Defaulted
	case "absent":
		*s = Absent
	default:
		return fmt.Errorf("unknown field state %q", text)
	}
	return nil
}

// Field is one decoded value. Value is meaningful unless State is Absent;
// Defaulted means the key was there but its value could not be parsed.
type Field[T any] struct {
	Value T
	State FieldState
}

func (f Field[T]) Set() bool {
	return f.State != Absent
}

// Partial is the result of decoding a fragment. Only keys found in the
// fragment are set.
type Partial struct {
	Rows         Field[int]
	Cols         Field[int]
	NumItems     Field[int]
	FlashTime    Field[float64]
	MaxAttempts  Field[int]
	AllOrNothing Field[bool]
	Unordered    Field[bool]
	Seed         Field[int64]
}

func decodeField[T any](
	values url.Values, key string, def T, parse func(string) (T, bool),
) Field[T] {
	if !values.Has(key) {
		return Field[T]{}
	}
	v, ok := parse(values.Get(key))
	if !ok {
		Log.WithFields(logrus.Fields{
			"key": key, "value": values.Get(key), "default": def,
		}).Debug("malformed setting, using default")
		return Field[T]{Value: def, State: Defaulted}
	}
	return Field[T]{Value: v, State: Present}
}

func parseSmallInt(s string) (int, bool) {
	n, ok := parseInt(s)
	return int(n), ok
}

// Decode parses a fragment produced by [Fragment]. It returns nil when the
// fragment does not start with [Marker]. Malformed values never fail the
// decode; they fall back to the per-field default.
func Decode(fragment string) *Partial {
	rest, ok := strings.CutPrefix(fragment, Marker)
	if !ok {
		return nil
	}

	values := parseQuery(rest)
	return &Partial{
		Rows:         decodeField(values, KeyRows, DefaultRows, parseSmallInt),
		Cols:         decodeField(values, KeyCols, DefaultCols, parseSmallInt),
		NumItems:     decodeField(values, KeyNumItems, DefaultNumItems, parseSmallInt),
		FlashTime:    decodeField(values, KeyFlashTime, DefaultFlashTime, parseFloat),
		MaxAttempts:  decodeField(values, KeyMaxAttempts, DefaultMaxAttempts, parseSmallInt),
		AllOrNothing: decodeField(values, KeyAllOrNothing, DefaultAllOrNothing, parseBool),
		Unordered:    decodeField(values, KeyUnordered, DefaultUnordered, parseBool),
		Seed:         decodeField(values, KeySeed, int64(DefaultSeed), parseInt),
	}
}

// parseQuery splits a query on '&' only and keeps every pair. A ';' stays
// part of the value and a bad percent escape leaves the text as written,
// so a key that is present is never dropped.
func parseQuery(query string) url.Values {
	values := url.Values{}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		values.Add(unescape(key), unescape(value))
	}
	return values
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		Log.WithError(err).WithField("text", s).Debug("kept malformed escape as is")
		return strings.ReplaceAll(s, "+", " ")
	}
	return u
}

func applyField[T any](dst *T, f Field[T]) {
	if f.Set() {
		*dst = f.Value
	}
}

// Apply overlays the set fields of p onto base.
func (p *Partial) Apply(base GameSettings) GameSettings {
	if p == nil {
		return base
	}
	applyField(&base.Rows, p.Rows)
	applyField(&base.Cols, p.Cols)
	applyField(&base.NumItems, p.NumItems)
	applyField(&base.FlashTime, p.FlashTime)
	applyField(&base.MaxAttempts, p.MaxAttempts)
	applyField(&base.AllOrNothing, p.AllOrNothing)
	applyField(&base.Unordered, p.Unordered)
	applyField(&base.Seed, p.Seed)
	return base
}

// States maps every shareable key to how it was decoded.
func (p *Partial) States() map[string]FieldState {
	return map[string]FieldState{
		KeyRows:         p.Rows.State,
		KeyCols:         p.Cols.State,
		KeyNumItems:     p.NumItems.State,
		KeyFlashTime:    p.FlashTime.State,
		KeyMaxAttempts:  p.MaxAttempts.State,
		KeyAllOrNothing: p.AllOrNothing.State,
		KeyUnordered:    p.Unordered.State,
		KeySeed:         p.Seed.State,
	}
}

// Keys lists the keys found in the fragment, in [ShareableKeys] order.
func (p *Partial) Keys() []string {
	states := p.States()
	return slices.DeleteFunc(slices.Clone(ShareableKeys), func(key string) bool {
		return states[key] == Absent
	})
}

// Defaulted lists the keys whose values were malformed.
func (p *Partial) Defaulted() []string {
	states := p.States()
	return slices.DeleteFunc(slices.Clone(ShareableKeys), func(key string) bool {
		return states[key] != Defaulted
	})
}

// Values maps every set key to its value.
func (p *Partial) Values() map[string]any {
	m := make(map[string]any)
	if p.Rows.Set() {
		m[KeyRows] = p.Rows.Value
	}
	if p.Cols.Set() {
		m[KeyCols] = p.Cols.Value
	}
	if p.NumItems.Set() {
		m[KeyNumItems] = p.NumItems.Value
	}
	if p.FlashTime.Set() {
		m[KeyFlashTime] = p.FlashTime.Value
	}
	if p.MaxAttempts.Set() {
		m[KeyMaxAttempts] = p.MaxAttempts.Value
	}
	if p.AllOrNothing.Set() {
		m[KeyAllOrNothing] = p.AllOrNothing.Value
	}
	if p.Unordered.Set() {
		m[KeyUnordered] = p.Unordered.Value
	}
	if p.Seed.Set() {
		m[KeySeed] = p.Seed.Value
	}
	return m
}
