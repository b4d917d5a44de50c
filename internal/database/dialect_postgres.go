package database

import (
	"fmt"
)

// PostgresDialect implements Dialect for PostgreSQL databases.
type PostgresDialect struct{}

// DriverName returns "postgres" for the lib/pq driver.
func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// Placeholder returns "$N" for the given position (PostgreSQL uses numbered placeholders).
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

// InitStatements is empty; PostgreSQL needs no session setup for the saves table.
func (d *PostgresDialect) InitStatements() []string {
	return nil
}

func (d *PostgresDialect) SnapshotType() string {
	return "JSONB"
}
