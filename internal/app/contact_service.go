package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/example/contacts/internal/core/contact"
	"github.com/example/contacts/internal/metrics"
	"github.com/example/contacts/internal/ports/primary"
	"github.com/example/contacts/internal/ports/secondary"
)

// Mutation operation names, as reported in MutationResult.Op.
const (
	OpInsert  = "insert"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpRefresh = "refresh"
)

const mutationQueueSize = 64

// ContactServiceImpl implements the ContactService interface.
//
// Mutations are queued to a single writer goroutine. After each mutation
// that changed stored data the writer re-reads all contacts and publishes
// them to the feed, so snapshots follow commit order exactly. Reads go
// straight to the repository.
type ContactServiceImpl struct {
	contactRepo secondary.ContactRepository
	executor    EffectExecutor
	feed        *ContactFeed
	metrics     *metrics.Metrics
	logger      *slog.Logger

	mu     sync.RWMutex // guards closed and sends on queue
	closed bool
	queue  chan *mutation
	done   chan struct{}
}

type mutation struct {
	ctx     context.Context
	op      string
	contact primary.Contact
	result  *operation
}

// NewContactService creates a ContactService with injected dependencies,
// loads the initial contact list and starts the writer.
func NewContactService(ctx context.Context, contactRepo secondary.ContactRepository, executor EffectExecutor, m *metrics.Metrics, logger *slog.Logger) (*ContactServiceImpl, error) {
	records, err := contactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}

	s := &ContactServiceImpl{
		contactRepo: contactRepo,
		executor:    executor,
		feed:        NewContactFeed(recordsToContacts(records), m),
		metrics:     m,
		logger:      logger.With(slog.String("component", "contacts")),
		queue:       make(chan *mutation, mutationQueueSize),
		done:        make(chan struct{}),
	}
	go s.run()

	return s, nil
}

// InsertContact queues the insertion of a new contact.
func (s *ContactServiceImpl) InsertContact(ctx context.Context, c primary.Contact) primary.Operation {
	return s.submit(ctx, OpInsert, c)
}

// UpdateContact queues a full replace of the contact with c.ID.
func (s *ContactServiceImpl) UpdateContact(ctx context.Context, c primary.Contact) primary.Operation {
	return s.submit(ctx, OpUpdate, c)
}

// DeleteContact queues the removal of the contact with c.ID and its photo.
func (s *ContactServiceImpl) DeleteContact(ctx context.Context, c primary.Contact) primary.Operation {
	return s.submit(ctx, OpDelete, c)
}

// Refresh queues a re-read of the store behind pending mutations.
func (s *ContactServiceImpl) Refresh(ctx context.Context) primary.Operation {
	return s.submit(ctx, OpRefresh, primary.Contact{})
}

// GetContact retrieves a contact by ID.
func (s *ContactServiceImpl) GetContact(ctx context.Context, id int64) (*primary.Contact, error) {
	record, err := s.contactRepo.GetByID(ctx, id)
	if errors.Is(err, secondary.ErrContactNotFound) {
		return nil, fmt.Errorf("contact %d: %w", id, primary.ErrContactNotFound)
	}
	if err != nil {
		return nil, &primary.StorageError{Op: "get", Err: err}
	}
	c := recordToContact(record)
	return &c, nil
}

// AllContacts subscribes to the live list of all contacts.
func (s *ContactServiceImpl) AllContacts() primary.Subscription {
	return s.feed.Subscribe()
}

// Snapshot returns the current list of all contacts.
func (s *ContactServiceImpl) Snapshot() primary.Snapshot {
	return s.feed.Current()
}

// Close stops accepting mutations, waits for queued ones and closes the feed.
func (s *ContactServiceImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.done
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	<-s.done
	s.feed.Close()
	return nil
}

func (s *ContactServiceImpl) submit(ctx context.Context, op string, c primary.Contact) primary.Operation {
	result := newOperation()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		result.resolve(nil, primary.ErrServiceClosed)
		return result
	}

	// Writes outlive the caller's context: there is no cancellation.
	s.queue <- &mutation{
		ctx:     context.WithoutCancel(ctx),
		op:      op,
		contact: c,
		result:  result,
	}
	return result
}

func (s *ContactServiceImpl) run() {
	defer close(s.done)

	for m := range s.queue {
		res, err := s.apply(m)
		m.result.resolve(res, err)
	}
}

func (s *ContactServiceImpl) apply(m *mutation) (*primary.MutationResult, error) {
	start := time.Now()

	var (
		res *primary.MutationResult
		err error
	)
	switch m.op {
	case OpInsert:
		res, err = s.insert(m.ctx, m.contact)
	case OpUpdate:
		res, err = s.update(m.ctx, m.contact)
	case OpDelete:
		res, err = s.delete(m.ctx, m.contact)
	case OpRefresh:
		res, err = s.reload(m.ctx)
	default:
		err = fmt.Errorf("unknown contact operation: %s", m.op)
	}

	if err == nil && res.Applied && m.op != OpRefresh {
		err = s.refresh(m.ctx)
	}

	s.metrics.ObserveMutation(m.op, start, err)
	if err != nil {
		s.logger.Warn("contact mutation failed",
			slog.String("op", m.op),
			slog.Int64("contact_id", m.contact.ID),
			slog.String("error", err.Error()),
		)
	} else {
		s.logger.Debug("contact mutation applied",
			slog.String("op", m.op),
			slog.Int64("contact_id", res.ContactID),
			slog.Bool("applied", res.Applied),
		)
	}

	return res, err
}

func (s *ContactServiceImpl) insert(ctx context.Context, c primary.Contact) (*primary.MutationResult, error) {
	id, err := s.contactRepo.Insert(ctx, contactToRecord(c))
	if errors.Is(err, secondary.ErrContactExists) {
		return nil, fmt.Errorf("contact %d: %w", c.ID, primary.ErrContactExists)
	}
	if err != nil {
		return nil, &primary.StorageError{Op: OpInsert, Err: err}
	}
	return &primary.MutationResult{Op: OpInsert, ContactID: id, Applied: true}, nil
}

func (s *ContactServiceImpl) update(ctx context.Context, c primary.Contact) (*primary.MutationResult, error) {
	applied, err := s.contactRepo.Update(ctx, contactToRecord(c))
	if err != nil {
		return nil, &primary.StorageError{Op: OpUpdate, Err: err}
	}
	return &primary.MutationResult{Op: OpUpdate, ContactID: c.ID, Applied: applied}, nil
}

func (s *ContactServiceImpl) delete(ctx context.Context, c primary.Contact) (*primary.MutationResult, error) {
	input := contact.DeletePlanInput{
		ContactID:          c.ID,
		RequestedPhotoPath: c.PhotoPath,
	}

	stored, err := s.contactRepo.GetByID(ctx, c.ID)
	switch {
	case err == nil:
		input.RecordExists = true
		input.StoredPhotoPath = stored.PhotoPath
	case errors.Is(err, secondary.ErrContactNotFound):
	default:
		return nil, &primary.StorageError{Op: OpDelete, Err: err}
	}

	plan := contact.PlanDelete(input)
	if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
		return nil, &primary.StorageError{Op: OpDelete, Err: err}
	}

	return &primary.MutationResult{Op: OpDelete, ContactID: c.ID, Applied: input.RecordExists}, nil
}

// reload publishes the stored contacts only if they differ from the
// current snapshot.
func (s *ContactServiceImpl) reload(ctx context.Context) (*primary.MutationResult, error) {
	records, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, &primary.StorageError{Op: "list", Err: err}
	}

	contacts := recordsToContacts(records)
	changed := !slices.Equal(contacts, s.feed.Current().Contacts)
	if changed {
		s.feed.Publish(contacts)
	}
	return &primary.MutationResult{Op: OpRefresh, Applied: changed}, nil
}

// refresh re-reads all contacts and publishes them as the next snapshot.
func (s *ContactServiceImpl) refresh(ctx context.Context) error {
	records, err := s.contactRepo.List(ctx)
	if err != nil {
		return &primary.StorageError{Op: "list", Err: err}
	}
	s.feed.Publish(recordsToContacts(records))
	return nil
}

// Helper methods

func contactToRecord(c primary.Contact) *secondary.ContactRecord {
	return &secondary.ContactRecord{
		ID:              c.ID,
		GivenName:       c.GivenName,
		PaternalSurname: c.PaternalSurname,
		MaternalSurname: c.MaternalSurname,
		Phone:           c.Phone,
		Email:           c.Email,
		PhotoPath:       c.PhotoPath,
	}
}

func recordToContact(r *secondary.ContactRecord) primary.Contact {
	return primary.Contact{
		ID:              r.ID,
		GivenName:       r.GivenName,
		PaternalSurname: r.PaternalSurname,
		MaternalSurname: r.MaternalSurname,
		Phone:           r.Phone,
		Email:           r.Email,
		PhotoPath:       r.PhotoPath,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func recordsToContacts(records []*secondary.ContactRecord) []primary.Contact {
	contacts := make([]primary.Contact, len(records))
	for i, r := range records {
		contacts[i] = recordToContact(r)
	}
	return contacts
}

// operation is the Operation handed back to callers of mutations.
type operation struct {
	done   chan struct{}
	result *primary.MutationResult
	err    error
}

func newOperation() *operation {
	return &operation{done: make(chan struct{})}
}

func (o *operation) resolve(result *primary.MutationResult, err error) {
	o.result = result
	o.err = err
	close(o.done)
}

// Done is closed once the mutation has resolved.
func (o *operation) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the mutation resolves or ctx is done.
func (o *operation) Wait(ctx context.Context) (*primary.MutationResult, error) {
	select {
	case <-o.done:
		return o.result, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ensure ContactServiceImpl implements the interface.
var _ primary.ContactService = (*ContactServiceImpl)(nil)
