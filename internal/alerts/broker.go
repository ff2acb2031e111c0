package alerts

import (
	"sync"

	"github.com/parkeo/parkeo-backend/internal/domain"
)

// Broker fans out alerts to live subscribers, keyed by establishment id.
// It is a single-process broadcast: every subscriber gets its own buffered
// channel and must unsubscribe when its connection closes. Horizontal
// scaling would need this backed by a shared broker instead.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan domain.Alert]struct{}
}

// NewBroker creates an alert broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[string]map[chan domain.Alert]struct{})}
}

// Subscribe registers a listener for an establishment's alerts. The
// returned cancel func removes the subscription and closes the channel;
// it is safe to call more than once.
func (b *Broker) Subscribe(establishmentID string) (<-chan domain.Alert, func()) {
	ch := make(chan domain.Alert, 16)

	b.mu.Lock()
	if b.subs[establishmentID] == nil {
		b.subs[establishmentID] = make(map[chan domain.Alert]struct{})
	}
	b.subs[establishmentID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[establishmentID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(b.subs, establishmentID)
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers an alert to every live subscriber of its
// establishment. Slow subscribers are skipped rather than blocking the
// publisher.
func (b *Broker) Publish(a domain.Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[a.EstablishmentID] {
		select {
		case ch <- a:
		default:
		}
	}
}
