package live

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchnight/arena/go/internal/hub"
	"github.com/pitchnight/arena/go/internal/phaseclock"
)

func testSnapshot() phaseclock.Snapshot {
	return phaseclock.Snapshot{
		Round:         "voting",
		CurrentPhase:  phaseclock.PhaseIdle,
		PhaseTimeLeft: 0,
		Version:       3,
	}
}

// readEvent reads one "event:"/"data:" pair off the stream.
func readEvent(t *testing.T, r *bufio.Reader) (string, hub.Event) {
	t.Helper()
	var name string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			var ev hub.Event
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
			return name, ev
		}
	}
}

func TestSSEStream(t *testing.T) {
	h := hub.New("sse-test")
	server := httptest.NewServer(NewSSEHandler(h, testSnapshot))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)

	// Late joiners get a synthetic connected event with the current state.
	name, ev := readEvent(t, reader)
	assert.Equal(t, "connected", name)
	assert.Equal(t, hub.EventConnected, ev.Type)

	var snap phaseclock.Snapshot
	data, err := json.Marshal(ev.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, uint64(3), snap.Version)

	// The handler subscribes after the connected event; wait for it.
	require.Eventually(t, func() bool { return h.SubscriberCount() == 1 },
		time.Second, 5*time.Millisecond)

	h.Publish(hub.Event{Type: hub.EventStateChanged, Data: testSnapshot(), Timestamp: time.Now()})

	name, ev = readEvent(t, reader)
	assert.Equal(t, "stateChanged", name)
	assert.Equal(t, hub.EventStateChanged, ev.Type)
}

func TestSSEUnsubscribesOnDisconnect(t *testing.T) {
	h := hub.New("sse-test")
	server := httptest.NewServer(NewSSEHandler(h, testSnapshot))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return h.SubscriberCount() == 1 },
		time.Second, 5*time.Millisecond)

	resp.Body.Close()

	require.Eventually(t, func() bool { return h.SubscriberCount() == 0 },
		time.Second, 5*time.Millisecond, "disconnect must unsubscribe")
}
