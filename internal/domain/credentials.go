package domain

import (
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordLength = 72
	redacted          = "[REDACTED]"
)

// Email is a lower-cased, syntactically valid address.
type Email struct {
	value string
}

// NewEmail parses raw as a bare RFC 5322 address.
func NewEmail(raw string) (Email, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Email{}, NewValidationError("email", "cannot be empty", ErrInvalidEmail)
	}
	if len(v) > maxNameLength {
		return Email{}, NewValidationError("email", "too long", ErrInvalidEmail)
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@"):], ".") {
		return Email{}, NewValidationError("email", "malformed address", ErrInvalidEmail)
	}
	return Email{value: strings.ToLower(v)}, nil
}

// Value returns the normalized address.
func (e Email) Value() string { return e.value }

// Equals compares by value.
func (e Email) Equals(other Email) bool { return e.value == other.value }

// PasswordHash holds a bcrypt hash. The plaintext never survives
// construction and the hash never reaches logs.
type PasswordHash struct {
	hash string
}

// HashPassword validates plain and hashes it with bcrypt.
func HashPassword(plain string) (PasswordHash, error) {
	if len(plain) < minPasswordLength {
		return PasswordHash{}, NewValidationError("password", "must be at least 8 characters", ErrInvalidPassword)
	}
	if len(plain) > maxPasswordLength {
		return PasswordHash{}, NewValidationError("password", "must be at most 72 bytes", ErrInvalidPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return PasswordHash{}, NewValidationError("password", err.Error(), ErrInvalidPassword)
	}
	return PasswordHash{hash: string(hash)}, nil
}

// RestorePasswordHash wraps a hash read back from storage.
func RestorePasswordHash(hash string) (PasswordHash, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return PasswordHash{}, NewValidationError("password", "stored hash is not a bcrypt hash", ErrInvalidPassword)
	}
	return PasswordHash{hash: hash}, nil
}

// Matches reports whether plain hashes to this value.
func (p PasswordHash) Matches(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(plain)) == nil
}

// Value returns the hash for persistence.
func (p PasswordHash) Value() string { return p.hash }

// String implements fmt.Stringer.
func (p PasswordHash) String() string { return redacted }

// LogValue implements slog.LogValuer.
func (p PasswordHash) LogValue() slog.Value { return slog.StringValue(redacted) }
