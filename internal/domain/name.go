package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxNameLength       = 255
	minMuscleNameLength = 3
	minUsernameLength   = 4
)

// Name is the display name of a workout or exercise.
type Name struct {
	value string
}

// NewName trims raw and requires 1 to 255 characters.
func NewName(raw string) (Name, error) {
	v, err := boundedText("name", raw, 1, maxNameLength, ErrInvalidName)
	if err != nil {
		return Name{}, err
	}
	return Name{value: v}, nil
}

// Value returns the underlying string.
func (n Name) Value() string { return n.value }

// Equals compares by value.
func (n Name) Equals(other Name) bool { return n.value == other.value }

// MuscleName is the unique name of a muscle group.
type MuscleName struct {
	value string
}

// NewMuscleName requires 3 to 255 characters.
func NewMuscleName(raw string) (MuscleName, error) {
	v, err := boundedText("name", raw, minMuscleNameLength, maxNameLength, ErrInvalidName)
	if err != nil {
		return MuscleName{}, err
	}
	return MuscleName{value: v}, nil
}

// Value returns the underlying string.
func (n MuscleName) Value() string { return n.value }

// Equals compares by value.
func (n MuscleName) Equals(other MuscleName) bool { return n.value == other.value }

// Username is a case-normalized login handle.
type Username struct {
	value string
}

// NewUsername lower-cases raw and requires 4 to 255 characters without
// whitespace.
func NewUsername(raw string) (Username, error) {
	v, err := boundedText("username", raw, minUsernameLength, maxNameLength, ErrInvalidUsername)
	if err != nil {
		return Username{}, err
	}
	if strings.IndexFunc(v, unicode.IsSpace) >= 0 {
		return Username{}, NewValidationError("username", "must not contain whitespace", ErrInvalidUsername)
	}
	return Username{value: strings.ToLower(v)}, nil
}

// Value returns the normalized username.
func (u Username) Value() string { return u.value }

// Equals compares by value.
func (u Username) Equals(other Username) bool { return u.value == other.value }

func boundedText(field, raw string, minLen, maxLen int, code error) (string, error) {
	v := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(v)
	if n == 0 {
		return "", NewValidationError(field, "cannot be empty", code)
	}
	if n < minLen {
		return "", NewValidationError(field, fmt.Sprintf("must be at least %d characters", minLen), code)
	}
	if n > maxLen {
		return "", NewValidationError(field, fmt.Sprintf("must be at most %d characters", maxLen), code)
	}
	return v, nil
}
