// Package memory contains in-memory implementations of repository interfaces.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/example/contacts/internal/ports/secondary"
)

// ContactRepository implements secondary.ContactRepository in memory.
// IDs follow the same rules as the SQLite store: monotonic, never reused.
type ContactRepository struct {
	mu       sync.Mutex
	contacts map[int64]*secondary.ContactRecord
	order    []int64
	lastID   int64
	now      func() time.Time
}

// NewContactRepository creates an empty in-memory contact repository.
func NewContactRepository() *ContactRepository {
	return &ContactRepository{
		contacts: make(map[int64]*secondary.ContactRecord),
		now:      time.Now,
	}
}

// Insert persists a new contact and returns its ID.
func (r *ContactRepository) Insert(_ context.Context, contact *secondary.ContactRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := contact.ID
	if id == 0 {
		id = r.lastID + 1
	} else if _, loaded := r.contacts[id]; loaded {
		return 0, fmt.Errorf("contact %d: %w", id, secondary.ErrContactExists)
	}
	r.lastID = max(r.lastID, id)

	stamp := r.now().UTC().Format(time.RFC3339)
	stored := *contact
	stored.ID = id
	stored.CreatedAt = stamp
	stored.UpdatedAt = stamp

	r.contacts[id] = &stored
	r.order = insertSorted(r.order, id)
	return id, nil
}

// Update replaces every field of the stored contact with the same ID.
func (r *ContactRepository) Update(_ context.Context, contact *secondary.ContactRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.contacts[contact.ID]
	if !ok {
		return false, nil
	}

	stored := *contact
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = r.now().UTC().Format(time.RFC3339)
	r.contacts[contact.ID] = &stored
	return true, nil
}

// Delete removes a contact.
func (r *ContactRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.contacts[id]; !ok {
		return false, nil
	}
	delete(r.contacts, id)
	if i, found := slices.BinarySearch(r.order, id); found {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true, nil
}

// GetByID retrieves a contact by its ID.
func (r *ContactRepository) GetByID(_ context.Context, id int64) (*secondary.ContactRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.contacts[id]
	if !ok {
		return nil, fmt.Errorf("contact %d: %w", id, secondary.ErrContactNotFound)
	}
	clone := *contact
	return &clone, nil
}

// List retrieves all contacts ordered by ID.
func (r *ContactRepository) List(_ context.Context) ([]*secondary.ContactRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contacts := make([]*secondary.ContactRecord, 0, len(r.order))
	for _, id := range r.order {
		clone := *r.contacts[id]
		contacts = append(contacts, &clone)
	}
	return contacts, nil
}

func insertSorted(ids []int64, id int64) []int64 {
	i, _ := slices.BinarySearch(ids, id)
	return slices.Insert(ids, i, id)
}

// Ensure ContactRepository implements the interface.
var _ secondary.ContactRepository = (*ContactRepository)(nil)
