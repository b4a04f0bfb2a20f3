// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which callers drive the contact directory.
package primary

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStorage classifies failures of the underlying store.
	ErrStorage = errors.New("storage error")

	// ErrContactExists is returned when an insert reuses a live contact ID.
	ErrContactExists = errors.New("contact already exists")

	// ErrContactNotFound is returned by reads for an unknown contact ID.
	ErrContactNotFound = errors.New("contact not found")

	// ErrServiceClosed resolves mutations submitted after shutdown.
	ErrServiceClosed = errors.New("contact service closed")
)

// ContactService defines the primary port for contact operations.
//
// Mutations are asynchronous: each call returns at once with an Operation
// that resolves after the write has committed and the live list has been
// refreshed. Callers may ignore the Operation.
type ContactService interface {
	// InsertContact stores a new contact. A zero ID is replaced by a generated one.
	InsertContact(ctx context.Context, contact Contact) Operation

	// UpdateContact replaces the stored contact with the same ID.
	// Updating an unknown ID is a no-op.
	UpdateContact(ctx context.Context, contact Contact) Operation

	// DeleteContact removes the contact and its photo file.
	// Deleting an unknown ID is a no-op.
	DeleteContact(ctx context.Context, contact Contact) Operation

	// Refresh re-reads the store and publishes a new snapshot if it differs
	// from the current one, picking up writes made by other processes.
	Refresh(ctx context.Context) Operation

	// GetContact retrieves a single contact by ID.
	GetContact(ctx context.Context, id int64) (*Contact, error)

	// AllContacts subscribes to the live list of all contacts.
	AllContacts() Subscription

	// Snapshot returns the current list of all contacts.
	Snapshot() Snapshot

	// Close stops accepting mutations and waits for queued ones to finish.
	Close() error
}

// Contact represents a contact at the port boundary.
type Contact struct {
	ID              int64
	GivenName       string
	PaternalSurname string
	MaternalSurname string
	Phone           string
	Email           string
	PhotoPath       string
	CreatedAt       string
	UpdatedAt       string
}

// FullName joins the name fields, skipping empty surnames.
func (c Contact) FullName() string {
	name := c.GivenName
	for _, part := range []string{c.PaternalSurname, c.MaternalSurname} {
		if part != "" {
			name += " " + part
		}
	}
	return name
}

// Operation is the pending result of a mutation.
type Operation interface {
	// Done is closed once the mutation has been applied or rejected.
	Done() <-chan struct{}

	// Wait blocks until the mutation resolves or ctx is done.
	Wait(ctx context.Context) (*MutationResult, error)
}

// MutationResult describes a resolved mutation.
type MutationResult struct {
	Op        string
	ContactID int64
	Applied   bool // false when an update or delete matched no contact
}

// Snapshot is one consistent version of the full contact list.
// Contacts must be treated as read-only.
type Snapshot struct {
	Version  uint64
	Contacts []Contact
}

// Subscription delivers snapshots in commit order.
type Subscription interface {
	// C yields the snapshot current at subscription time, then every later one.
	// It is closed when the subscription or the feed is closed.
	C() <-chan Snapshot

	// Close ends the subscription.
	Close()
}

// StorageError reports a failure of the underlying store during Op.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s contact: %v: %v", e.Op, ErrStorage, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is matches ErrStorage so callers can classify without a type assertion.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }
