package db

import (
	"database/sql"
	"fmt"
)

// SeedFixtures populates an empty database with sample contacts.
// It refuses to run when contacts already exist.
func SeedFixtures(database *sql.DB) (int, error) {
	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM contacts").Scan(&count); err != nil {
		return 0, fmt.Errorf("seed contacts: %w", err)
	}
	if count > 0 {
		return 0, fmt.Errorf("seed contacts: database already has %d contact(s)", count)
	}

	contacts := []struct{ given, paternal, maternal, phone, email string }{
		{"Ana", "Ruiz", "Diaz", "5551234567", "ana@x.com"},
		{"Bruno", "Castillo", "", "5559876543", "bruno.castillo@example.com"},
		{"Carmen", "Ortega", "Luna", "8112345678", "carmen@example.org"},
	}
	for _, c := range contacts {
		if _, err := database.Exec(
			"INSERT INTO contacts (given_name, paternal_surname, maternal_surname, phone, email) VALUES (?, ?, ?, ?, ?)",
			c.given, c.paternal, c.maternal, c.phone, c.email,
		); err != nil {
			return 0, fmt.Errorf("seed contacts: %w", err)
		}
	}

	return len(contacts), nil
}
