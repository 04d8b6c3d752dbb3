package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EventType identifies what a live event describes
type EventType string

const (
	EventConnected    EventType = "connected"
	EventTeamChanged  EventType = "teamChanged"
	EventStateChanged EventType = "stateChanged"
)

// Event is the envelope delivered to every live subscriber. Data carries the
// full state snapshot for teamChanged/stateChanged events.
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// subscriberBuffer bounds how far one consumer may fall behind before it is
// evicted. Polling the read endpoint self-corrects a missed event.
const subscriberBuffer = 32

// Hub fans out live events to every subscribed channel. Each round type owns
// its own Hub instance; the two hubs share nothing.
type Hub struct {
	name string

	mu   sync.Mutex
	subs map[uuid.UUID]chan Event
}

// New creates a hub. The name only shows up in logs.
func New(name string) *Hub {
	return &Hub{
		name: name,
		subs: make(map[uuid.UUID]chan Event),
	}
}

// Subscribe registers a new output channel and returns its id along with the
// receive side. The channel sees events from the next Publish onward; there is
// no replay.
func (h *Hub) Subscribe() (uuid.UUID, <-chan Event) {
	id := uuid.New()
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	total := len(h.subs)
	h.mu.Unlock()

	log.Debug().
		Str("hub", h.name).
		Str("subscriber_id", id.String()).
		Int("total_subscribers", total).
		Msg("subscriber registered")
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call more
// than once; disconnects are detected asynchronously and may race.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
		close(ch)
	}
	total := len(h.subs)
	h.mu.Unlock()

	if ok {
		log.Debug().
			Str("hub", h.name).
			Str("subscriber_id", id.String()).
			Int("total_subscribers", total).
			Msg("subscriber removed")
	}
}

// Publish delivers an event to every current subscriber in publish order.
// A subscriber whose buffer is full is evicted so it cannot stall the rest.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			delete(h.subs, id)
			close(ch)
			log.Warn().
				Str("hub", h.name).
				Str("subscriber_id", id.String()).
				Str("event_type", string(ev.Type)).
				Msg("subscriber buffer full, evicting")
		}
	}
}

// SubscriberCount returns how many channels are currently registered.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
