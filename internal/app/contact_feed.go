package app

import (
	"slices"
	"sync"

	"github.com/example/contacts/internal/metrics"
	"github.com/example/contacts/internal/ports/primary"
)

// ContactFeed is the live projection of all contacts.
//
// One producer publishes complete snapshots; any number of subscribers
// receive them in publish order. Each subscriber has its own unbounded
// queue and delivery goroutine, so a slow reader never blocks the
// producer or other readers, and nothing is dropped.
type ContactFeed struct {
	mu      sync.Mutex
	current primary.Snapshot
	subs    map[*feedSubscription]struct{}
	closed  bool
	metrics *metrics.Metrics
}

// NewContactFeed creates a feed whose version-0 snapshot holds initial.
func NewContactFeed(initial []primary.Contact, m *metrics.Metrics) *ContactFeed {
	f := &ContactFeed{
		current: primary.Snapshot{Version: 0, Contacts: slices.Clone(initial)},
		subs:    make(map[*feedSubscription]struct{}),
		metrics: m,
	}
	m.SetProjection(0, len(initial))
	return f
}

// Publish makes contacts the current snapshot and fans it out.
// The feed takes ownership of the slice. Publishing to a closed feed is ignored.
func (f *ContactFeed) Publish(contacts []primary.Contact) primary.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return f.current
	}

	f.current = primary.Snapshot{Version: f.current.Version + 1, Contacts: contacts}
	for sub := range f.subs {
		sub.enqueue(cloneSnapshot(f.current))
	}
	f.metrics.SetProjection(f.current.Version, len(contacts))

	return cloneSnapshot(f.current)
}

// Current returns a copy of the latest snapshot.
func (f *ContactFeed) Current() primary.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneSnapshot(f.current)
}

// Subscribe registers a new subscriber. Its channel first yields the
// current snapshot, then every later one. Subscribing to a closed feed
// returns a subscription whose channel is already closed.
func (f *ContactFeed) Subscribe() primary.Subscription {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub := newFeedSubscription(f)
	if f.closed {
		close(sub.out)
		return sub
	}

	sub.pending = append(sub.pending, cloneSnapshot(f.current))
	f.subs[sub] = struct{}{}
	f.metrics.SubscriberAdded()
	go sub.deliver()

	return sub
}

// Close ends the feed. Subscribers receive what is already queued for
// them, then their channels are closed.
func (f *ContactFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for sub := range f.subs {
		sub.finish()
		f.metrics.SubscriberRemoved()
	}
	clear(f.subs)
}

func (f *ContactFeed) remove(sub *feedSubscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.subs[sub]; ok {
		delete(f.subs, sub)
		f.metrics.SubscriberRemoved()
	}
}

type feedSubscription struct {
	feed *ContactFeed
	out  chan primary.Snapshot

	mu       sync.Mutex
	pending  []primary.Snapshot
	finished bool

	notify    chan struct{}
	stop      chan struct{}
	closeOnce sync.Once
}

func newFeedSubscription(f *ContactFeed) *feedSubscription {
	return &feedSubscription{
		feed:   f,
		out:    make(chan primary.Snapshot),
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
}

// C returns the delivery channel.
func (s *feedSubscription) C() <-chan primary.Snapshot {
	return s.out
}

// Close unsubscribes and discards undelivered snapshots.
func (s *feedSubscription) Close() {
	s.closeOnce.Do(func() {
		s.feed.remove(s)
		close(s.stop)
	})
}

func (s *feedSubscription) enqueue(snap primary.Snapshot) {
	s.mu.Lock()
	s.pending = append(s.pending, snap)
	s.mu.Unlock()
	s.wake()
}

// finish lets the delivery goroutine drain the queue and close the channel.
func (s *feedSubscription) finish() {
	s.mu.Lock()
	s.finished = true
	s.mu.Unlock()
	s.wake()
}

func (s *feedSubscription) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *feedSubscription) deliver() {
	defer close(s.out)

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			finished := s.finished
			s.mu.Unlock()
			if finished {
				return
			}
			select {
			case <-s.notify:
				continue
			case <-s.stop:
				return
			}
		}
		next := s.pending[0]
		s.pending[0] = primary.Snapshot{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.stop:
			return
		}
	}
}

func cloneSnapshot(s primary.Snapshot) primary.Snapshot {
	return primary.Snapshot{Version: s.Version, Contacts: slices.Clone(s.Contacts)}
}
