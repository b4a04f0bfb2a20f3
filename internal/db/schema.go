package db

// SchemaSQL is the complete schema after all migrations have been applied.
//
// # Schema Drift Protection
//
// Tests build their databases from GetSchemaSQL() instead of hardcoding
// CREATE TABLE statements, and TestSchemaMatchesMigrations compares this
// schema against a database built by the real migrations. Adding a column
// therefore means:
//  1. Add a numbered migration pair in internal/db/migrations/
//  2. Update SchemaSQL here
//  3. Run `go test ./internal/db/...`
const SchemaSQL = `
-- Contacts (the directory's only entity)
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	given_name TEXT NOT NULL DEFAULT '',
	paternal_surname TEXT NOT NULL DEFAULT '',
	maternal_surname TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	photo_path TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_contacts_given_name ON contacts(given_name COLLATE NOCASE);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
