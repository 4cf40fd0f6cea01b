package dbx

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// NullString maps the empty string to SQL NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SetClause builds the SET list of an UPDATE from values, in the key order
// given by keys. Only columns present in allowed are accepted. Placeholders
// start at $1; the caller binds its WHERE arguments after the returned args.
// An updated_at = now() assignment is always appended.
func SetClause(keys []string, values map[string]string, allowed map[string]struct{}) (string, []any, error) {
	if len(keys) == 0 {
		return "", nil, fmt.Errorf("no columns to update")
	}

	parts := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		if _, ok := allowed[k]; !ok {
			return "", nil, fmt.Errorf("column %q is not updatable", k)
		}
		args = append(args, values[k])
		parts = append(parts, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	parts = append(parts, "updated_at = now()")

	return strings.Join(parts, ", "), args, nil
}
