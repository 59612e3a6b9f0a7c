// Package random implements the seeded xorshift32 generator used to lay out
// recall boards. Boards are shared by seed, so the output sequence for a
// given seed is part of the public contract and must never change.
package random

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

// WarmUp is the number of outputs discarded after every (re)seed.
const WarmUp = 10

const twoPow32 = 1 << 32

var (
	ErrZeroSeed   = errors.New("seed must be non-zero in its low 32 bits")
	ErrEmptyRange = errors.New("max must be greater than min")
)

// Step advances a xorshift32 register once and returns the drawn value in
// [0, 1) together with the next register. Zero is a fixed point: Step(0)
// returns (0, 0) forever.
func Step(state uint32) (float64, uint32) {
	state ^= state << 13
	state ^= state >> 17
	state ^= state << 5
	return float64(state) / twoPow32, state
}

// Truncate reduces a seed to the 32-bit register it initializes.
func Truncate(seed int64) uint32 {
	return uint32(seed)
}

type Xorshift32 struct {
	state uint32
}

// New seeds a generator and discards the first [WarmUp] outputs.
func New(seed int64) (*Xorshift32, error) {
	r := &Xorshift32{}
	if err := r.Reseed(seed); err != nil {
		return nil, err
	}
	return r, nil
}

// FromState restores a generator mid-stream. No warm-up is applied.
func FromState(state uint32) (*Xorshift32, error) {
	if state == 0 {
		return nil, ErrZeroSeed
	}
	return &Xorshift32{state: state}, nil
}

func (r *Xorshift32) Reseed(seed int64) error {
	state := Truncate(seed)
	if state == 0 {
		Log.WithField("seed", seed).Debug("rejected zero seed")
		return ErrZeroSeed
	}
	r.state = state
	for range WarmUp {
		r.Next()
	}
	return nil
}

func (r *Xorshift32) State() uint32 {
	return r.state
}

func (r *Xorshift32) Clone() *Xorshift32 {
	return &Xorshift32{state: r.state}
}

// Next returns a value in [0, 1).
func (r *Xorshift32) Next() float64 {
	var v float64
	v, r.state = Step(r.state)
	return v
}

// RandomInt returns an integer in [min, max). An empty range is rejected
// without advancing the generator.
func (r *Xorshift32) RandomInt(min, max int) (int, error) {
	if max <= min {
		return 0, ErrEmptyRange
	}
	return int(r.Next()*float64(max-min)) + min, nil
}

// Shuffle permutes n elements with a Fisher-Yates pass, walking from the
// last element down.
func (r *Xorshift32) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j, _ := r.RandomInt(0, i+1)
		swap(i, j)
	}
}
