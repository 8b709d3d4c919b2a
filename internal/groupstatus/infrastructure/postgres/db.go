package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// DBTX abstracts *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var errBadIdentifier = errors.New("group status store: invalid field identifier")

// quoteIdentifier validates and quotes a dynamic column name. Only simple
// identifiers are accepted; anything else aborts the query build.
func quoteIdentifier(name string) (string, error) {
	if name == "" {
		return "", errBadIdentifier
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '%' || r == ' ':
		default:
			return "", errBadIdentifier
		}
	}
	return `"` + name + `"`, nil
}

func nullableString(value sql.NullString) string {
	if !value.Valid {
		return ""
	}
	return strings.TrimSpace(value.String)
}

func nullableInt(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	parsed := int(value.Int64)
	return &parsed
}
