// Package hub provides per-lobby and per-session broadcast fan-out.
package hub

import (
	"sync"
)

// DefaultBacklog is the per-subscriber message buffer.
const DefaultBacklog = 100

// Hub is a process-wide registry of broadcast publishers keyed by lobby
// or session id.
type Hub struct {
	mu         sync.RWMutex
	publishers map[string]*Publisher
	backlog    int
}

// NewHub creates a registry whose publishers buffer the given number of
// messages per subscriber.
func NewHub(backlog int) *Hub {
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	return &Hub{
		publishers: make(map[string]*Publisher),
		backlog:    backlog,
	}
}

// GetOrCreate returns the publisher for the given id, creating it if
// needed.
func (h *Hub) GetOrCreate(id string) *Publisher {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.publishers[id]; ok {
		return p
	}
	p := &Publisher{
		id:      id,
		backlog: h.backlog,
		subs:    make(map[*Subscription]struct{}),
	}
	h.publishers[id] = p
	return p
}

// Get returns the publisher for the given id.
func (h *Hub) Get(id string) (*Publisher, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p, ok := h.publishers[id]
	return p, ok
}

// Subscribe attaches a new subscription to the publisher for id, creating
// the publisher if needed.
func (h *Hub) Subscribe(id string) *Subscription {
	return h.GetOrCreate(id).Subscribe()
}

// Remove drops the publisher for id and closes all of its subscriptions.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	p, ok := h.publishers[id]
	delete(h.publishers, id)
	h.mu.Unlock()
	if ok {
		p.closeAll()
	}
}

// Publisher is a multi-subscriber broadcast endpoint. Publishing never
// blocks: a subscriber whose backlog is full loses its oldest messages.
type Publisher struct {
	id      string
	backlog int
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
}

// ID returns the lobby or session id the publisher is keyed by.
func (p *Publisher) ID() string {
	return p.id
}

// Subscribe registers a new subscriber stream.
func (p *Publisher) Subscribe() *Subscription {
	sub := &Subscription{
		pub: p,
		ch:  make(chan []byte, p.backlog),
	}
	p.mu.Lock()
	p.subs[sub] = struct{}{}
	p.mu.Unlock()
	return sub
}

// Publish delivers msg to every subscriber without blocking. Slow
// subscribers drop their oldest buffered message.
func (p *Publisher) Publish(msg []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for sub := range p.subs {
		select {
		case sub.ch <- msg:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- msg:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of attached subscriptions.
func (p *Publisher) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

func (p *Publisher) remove(sub *Subscription) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.subs[sub]; !ok {
		return false
	}
	delete(p.subs, sub)
	return true
}

func (p *Publisher) closeAll() {
	p.mu.Lock()
	subs := make([]*Subscription, 0, len(p.subs))
	for sub := range p.subs {
		subs = append(subs, sub)
	}
	p.subs = make(map[*Subscription]struct{})
	p.mu.Unlock()
	for _, sub := range subs {
		sub.once.Do(func() { close(sub.ch) })
	}
}

// Subscription is one subscriber's ordered stream of broadcast messages.
type Subscription struct {
	pub  *Publisher
	ch   chan []byte
	once sync.Once
}

// C returns the receive channel. It is closed when the subscription or
// its publisher is torn down.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

// Close detaches the subscription and closes its channel.
func (s *Subscription) Close() {
	if s.pub.remove(s) {
		s.once.Do(func() { close(s.ch) })
	}
}
