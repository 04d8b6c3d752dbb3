// Package bridge republishes live events onto NATS for external display
// integrations (lobby screens, stream overlays). The in-process hub stays
// authoritative; the bridge is a plain fan-out subscriber.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/pitchnight/arena/go/internal/hub"
)

// Publisher is the slice of a NATS connection the bridge needs.
// *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Bridge forwards every event from one round's hub to
// <prefix>.<round>.<eventType>.
type Bridge struct {
	pub    Publisher
	prefix string
	round  string
}

func New(pub Publisher, prefix, round string) *Bridge {
	return &Bridge{pub: pub, prefix: prefix, round: round}
}

// Run subscribes to the hub and forwards events until ctx ends or the bridge
// gets evicted as a slow subscriber. Publish failures are logged and skipped;
// the external bus is best-effort.
func (b *Bridge) Run(ctx context.Context, h *hub.Hub) {
	id, ch := h.Subscribe()
	defer h.Unsubscribe(id)

	log.Info().Str("round", b.round).Str("prefix", b.prefix).Msg("nats bridge started")
	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-ch:
			if !open {
				log.Warn().Str("round", b.round).Msg("nats bridge evicted from hub")
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				log.Error().Err(err).Str("round", b.round).Msg("failed to marshal bridge event")
				continue
			}
			subject := fmt.Sprintf("%s.%s.%s", b.prefix, b.round, ev.Type)
			if err := b.pub.Publish(subject, data); err != nil {
				log.Error().Err(err).Str("subject", subject).Msg("failed to publish bridge event")
			}
		}
	}
}

// Connect dials NATS with reconnect handling suited to a long-lived server.
func Connect(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}
