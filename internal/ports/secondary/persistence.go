// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
)

var (
	// ErrContactNotFound is returned when no stored contact matches an ID.
	ErrContactNotFound = errors.New("contact not found")

	// ErrContactExists is returned when an insert carries an ID that is already live.
	ErrContactExists = errors.New("contact already exists")
)

// ContactRepository defines the secondary port for contact persistence.
// Implementations must be safe for concurrent use.
type ContactRepository interface {
	// Insert persists a new contact and returns its ID.
	// A zero ID asks the store to assign one; an explicit ID that is
	// already in use fails with ErrContactExists.
	Insert(ctx context.Context, contact *ContactRecord) (int64, error)

	// Update replaces the stored contact with the same ID.
	// Reports false, without error, when no contact matched.
	Update(ctx context.Context, contact *ContactRecord) (bool, error)

	// Delete removes the contact with the given ID.
	// Reports false, without error, when no contact matched.
	Delete(ctx context.Context, id int64) (bool, error)

	// GetByID retrieves a contact by its ID.
	GetByID(ctx context.Context, id int64) (*ContactRecord, error)

	// List retrieves all contacts in insertion order.
	List(ctx context.Context) ([]*ContactRecord, error)
}

// ChangeDetector exposes a counter that moves whenever another connection
// commits to the store. Its own writes leave it unchanged.
type ChangeDetector interface {
	DataVersion(ctx context.Context) (int64, error)
}

// ContactRecord represents a contact as stored in persistence.
type ContactRecord struct {
	ID              int64
	GivenName       string
	PaternalSurname string
	MaternalSurname string
	Phone           string
	Email           string
	PhotoPath       string // empty means no photo (NULL column)
	CreatedAt       string
	UpdatedAt       string
}
