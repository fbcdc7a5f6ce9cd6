package domain

import (
	"net/url"
	"strings"
)

const maxInfoLength = 2000

// TutorialURL points at an external how-to resource.
type TutorialURL struct {
	value string
}

// NewTutorialURL requires an absolute http or https URL.
func NewTutorialURL(raw string) (TutorialURL, error) {
	v := strings.TrimSpace(raw)
	u, err := url.Parse(v)
	if err != nil || v == "" || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return TutorialURL{}, NewValidationError("tutorialUrl", "must be an absolute http(s) url", ErrInvalidURL)
	}
	if len(v) > maxInfoLength {
		return TutorialURL{}, NewValidationError("tutorialUrl", "too long", ErrInvalidURL)
	}
	return TutorialURL{value: v}, nil
}

// Value returns the URL string.
func (t TutorialURL) Value() string { return t.value }

// Info is free-text exercise guidance.
type Info struct {
	value string
}

// NewInfo requires 1 to 2000 characters after trimming.
func NewInfo(raw string) (Info, error) {
	v, err := boundedText("info", raw, 1, maxInfoLength, ErrInvalidInfo)
	if err != nil {
		return Info{}, err
	}
	return Info{value: v}, nil
}

// Value returns the text.
func (i Info) Value() string { return i.value }
