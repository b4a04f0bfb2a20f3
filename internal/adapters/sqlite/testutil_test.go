// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/contacts/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedContact inserts a test contact and returns its ID.
func seedContact(t *testing.T, db *sql.DB, givenName, photoPath string) int64 {
	t.Helper()
	if givenName == "" {
		givenName = "Test"
	}
	var photo any
	if photoPath != "" {
		photo = photoPath
	}
	result, err := db.Exec(
		"INSERT INTO contacts (given_name, paternal_surname, maternal_surname, phone, email, photo_path) VALUES (?, 'Ruiz', 'Diaz', '5551234567', 'test@x.com', ?)",
		givenName, photo,
	)
	if err != nil {
		t.Fatalf("failed to seed contact: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}
