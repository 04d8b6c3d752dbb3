package live

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pitchnight/arena/go/internal/hub"
	"github.com/pitchnight/arena/go/internal/phaseclock"
)

// SnapshotFunc returns the current live state for the synthetic connected
// event sent to late joiners.
type SnapshotFunc func() phaseclock.Snapshot

// SSEHandler turns one long-lived request into one hub subscription for its
// lifetime. Each message on the wire is a JSON {type, data, timestamp} event.
type SSEHandler struct {
	hub  *hub.Hub
	snap SnapshotFunc
}

func NewSSEHandler(h *hub.Hub, snap SnapshotFunc) *SSEHandler {
	return &SSEHandler{hub: h, snap: snap}
}

func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	flusher.Flush()

	// Late joiners get the current state immediately instead of waiting for
	// the next change.
	writeSSE(w, hub.Event{Type: hub.EventConnected, Data: h.snap(), Timestamp: time.Now()})
	flusher.Flush()

	id, ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-ch:
			if !open {
				// Evicted by the hub; the client reconnects or polls.
				return
			}
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev hub.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event_type", string(ev.Type)).Msg("failed to marshal live event")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
}
