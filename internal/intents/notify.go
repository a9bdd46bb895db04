package intents

import "sync"

// Broadcaster fans out scope-less, payload-less change notifications to any
// number of in-process listeners.
//
// Each subscriber gets a buffered channel of size 1; notifications coalesce
// rather than queue, so a slow listener sees "something changed" at least
// once but is never a backpressure source for queue mutations. Cross-context
// propagation (other processes observing the same store) is the host
// platform's concern, not implemented here.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

// NewBroadcaster creates a broadcaster with no listeners.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan struct{})}
}

// Subscribe registers a listener. The returned cancel func unregisters it;
// calling cancel more than once is safe.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
	return ch, cancel
}

// Broadcast notifies all current listeners. Non-blocking: a listener whose
// buffer already holds a pending notification is skipped (coalesced).
func (b *Broadcaster) Broadcast() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
