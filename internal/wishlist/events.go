package wishlist

import "sync"

// EventKind names a change to the wishlist.
type EventKind string

const (
	EventAdded          EventKind = "added"
	EventRemoved        EventKind = "removed"
	EventUpdated        EventKind = "updated"
	EventRefreshStarted EventKind = "refresh_started"
	EventProgress       EventKind = "progress"
	EventRefreshed      EventKind = "refreshed"
)

// Event is published to subscribers after a change has been persisted.
type Event struct {
	Kind     EventKind
	AppID    int64
	Progress float64
	RunID    string
}

const subscriberBuffer = 64

type broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// subscribe registers a buffered channel. The returned func unsubscribes and
// closes it.
func (b *broker) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	if b.subs == nil {
		b.subs = make(map[chan Event]struct{})
	}
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// publish never blocks: a subscriber that falls behind misses events.
func (b *broker) publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
