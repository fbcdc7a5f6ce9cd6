package domain

import (
	"fmt"
	"math"
)

const maxAge = 150

// Age of a user in years.
type Age struct {
	value int
}

// NewAge requires 0..150.
func NewAge(v int) (Age, error) {
	if v < 0 || v > maxAge {
		return Age{}, NewValidationError("age", fmt.Sprintf("must be between 0 and %d", maxAge), ErrInvalidAge)
	}
	return Age{value: v}, nil
}

// Value returns the age in years.
func (a Age) Value() int { return a.value }

// BodyWeight of a user.
type BodyWeight struct {
	value float64
}

// NewBodyWeight requires a finite, non-negative value.
func NewBodyWeight(v float64) (BodyWeight, error) {
	if err := nonNegative("weight", v, ErrInvalidBodyWeight); err != nil {
		return BodyWeight{}, err
	}
	return BodyWeight{value: v}, nil
}

// Value returns the weight.
func (w BodyWeight) Value() float64 { return w.value }

// Height of a user.
type Height struct {
	value float64
}

// NewHeight requires a finite, non-negative value.
func NewHeight(v float64) (Height, error) {
	if err := nonNegative("height", v, ErrInvalidHeight); err != nil {
		return Height{}, err
	}
	return Height{value: v}, nil
}

// Value returns the height.
func (h Height) Value() float64 { return h.value }

// NumReps counts repetitions in a set.
type NumReps struct {
	value int
}

// NewNumReps requires v >= 0.
func NewNumReps(v int) (NumReps, error) {
	if v < 0 {
		return NumReps{}, NewValidationError("numReps", "cannot be negative", ErrInvalidNumReps)
	}
	return NumReps{value: v}, nil
}

// Value returns the count.
func (n NumReps) Value() int { return n.value }

// NumDrops counts drop-set reductions.
type NumDrops struct {
	value int
}

// NewNumDrops requires v >= 0.
func NewNumDrops(v int) (NumDrops, error) {
	if v < 0 {
		return NumDrops{}, NewValidationError("numDrops", "cannot be negative", ErrInvalidNumDrops)
	}
	return NumDrops{value: v}, nil
}

// Value returns the count.
func (n NumDrops) Value() int { return n.value }

// SetWeight is the load lifted in a set.
type SetWeight struct {
	value float64
}

// NewSetWeight requires a finite, non-negative value.
func NewSetWeight(v float64) (SetWeight, error) {
	if err := nonNegative("setWeight", v, ErrInvalidSetWeight); err != nil {
		return SetWeight{}, err
	}
	return SetWeight{value: v}, nil
}

// Value returns the weight.
func (w SetWeight) Value() float64 { return w.value }

func nonNegative(field string, v float64, code error) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewValidationError(field, "must be a finite number", code)
	}
	if v < 0 {
		return NewValidationError(field, "cannot be negative", code)
	}
	return nil
}
