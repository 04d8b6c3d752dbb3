package hub

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	h := New("test")
	_, ch1 := h.Subscribe()
	_, ch2 := h.Subscribe()

	ev := Event{Type: EventStateChanged, Data: "payload", Timestamp: time.Now()}
	h.Publish(ev)

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, ev, got)
		default:
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	h := New("test")
	h.Publish(Event{Type: EventStateChanged})

	_, ch := h.Subscribe()
	select {
	case <-ch:
		t.Fatal("late subscriber must not see earlier events")
	default:
	}
}

func TestDeliveryOrderPerSubscriber(t *testing.T) {
	h := New("test")
	_, ch := h.Subscribe()

	for i := 0; i < 10; i++ {
		h.Publish(Event{Type: EventStateChanged, Data: i})
	}
	for i := 0; i < 10; i++ {
		select {
		case got := <-ch:
			assert.Equal(t, i, got.Data)
		default:
			t.Fatalf("missing event %d", i)
		}
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	h := New("test")
	id, ch := h.Subscribe()

	h.Unsubscribe(id)
	h.Unsubscribe(id)
	h.Unsubscribe(id)

	_, open := <-ch
	assert.False(t, open, "channel closes on unsubscribe")
	assert.Equal(t, 0, h.SubscriberCount())

	// Publishing after everyone left is fine.
	h.Publish(Event{Type: EventStateChanged})
}

func TestSlowSubscriberEvictedWithoutBlockingOthers(t *testing.T) {
	h := New("test")
	_, slow := h.Subscribe()
	_, healthy := h.Subscribe()

	// The healthy subscriber keeps up; nobody drains slow, so its buffer
	// overflows on the last publish.
	for i := 0; i <= subscriberBuffer; i++ {
		h.Publish(Event{Type: EventStateChanged, Data: i})
		ev := <-healthy
		assert.Equal(t, i, ev.Data)
	}

	require.Equal(t, 1, h.SubscriberCount(), "the stalled subscriber is gone")

	// The slow channel was closed after its buffered events.
	drained := 0
	for range slow {
		drained++
		if drained > subscriberBuffer+1 {
			t.Fatal("slow channel never closed")
		}
	}
	assert.Equal(t, subscriberBuffer, drained)
}

func TestManySubscribersFanout(t *testing.T) {
	h := New("test")
	const n = 50
	chans := make([]<-chan Event, n)
	for i := range chans {
		_, chans[i] = h.Subscribe()
	}

	h.Publish(Event{Type: EventTeamChanged, Data: "x"})

	for i, ch := range chans {
		select {
		case ev := <-ch:
			assert.Equal(t, EventTeamChanged, ev.Type)
		default:
			t.Fatal(fmt.Sprintf("subscriber %d missed the event", i))
		}
	}
}
