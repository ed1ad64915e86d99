package migrations

import (
	_ "embed"
)

//go:embed schema.sql
var initialSchema string

// InitialSchema returns the SQL that creates the database schema from
// scratch. Statements are idempotent (IF NOT EXISTS) so re-running them
// against an existing database is safe.
func InitialSchema() string {
	return initialSchema
}
