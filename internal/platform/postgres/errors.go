package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/phrazzld/lift-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// matches the DETAIL of a unique violation: Key (user_id, name)=(..., Leg Day) already exists.
var uniqueDetailPattern = regexp.MustCompile(`^Key \((.+)\)=\((.*)\) already exists\.?$`)

// IsUniqueViolation checks if the given error is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == uniqueViolationCode
}

// IsForeignKeyViolation checks if the given error is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == foreignKeyViolationCode
}

// IsConstraintViolation reports check and not-null violations.
func IsConstraintViolation(err error) bool {
	code := pgCode(err)
	return code == checkViolationCode || code == notNullViolationCode
}

// writeFailure maps a constraint error from an insert or update onto a
// store kind. fallback wraps anything else.
func writeFailure(err, fallback error) error {
	switch {
	case IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", store.ErrInvalidReference, err)
	case IsConstraintViolation(err):
		return fmt.Errorf("%w: %v", store.ErrConstraintViolated, err)
	default:
		return fmt.Errorf("%w: %v", fallback, err)
	}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// duplicateFromPg turns a unique violation that slipped past the store's
// own guards into a DuplicateError. Column names come from the error
// detail; the constraint name is the fallback.
func duplicateFromPg(entity string, err error) *store.DuplicateError {
	fields := map[string]any{}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if m := uniqueDetailPattern.FindStringSubmatch(pgErr.Detail); m != nil {
			cols := strings.Split(m[1], ", ")
			vals := strings.Split(m[2], ", ")
			if len(cols) == len(vals) {
				for i, c := range cols {
					fields[columnField(c)] = vals[i]
				}
			}
		}
		if len(fields) == 0 && pgErr.ConstraintName != "" {
			fields["constraint"] = pgErr.ConstraintName
		}
	}
	return store.NewDuplicateError(entity, fields)
}

// columnField maps a snake_case column to the camelCase field name used in
// conflict payloads.
func columnField(column string) string {
	parts := strings.Split(column, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
