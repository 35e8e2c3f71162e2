package store

import "database/sql"

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
