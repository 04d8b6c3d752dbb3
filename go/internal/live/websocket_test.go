package live

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchnight/arena/go/internal/hub"
)

func TestWebSocketStream(t *testing.T) {
	h := hub.New("ws-test")
	server := httptest.NewServer(NewWebSocketHandler(h, testSnapshot, DefaultConnConfig()))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev hub.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, hub.EventConnected, ev.Type)

	require.Eventually(t, func() bool { return h.SubscriberCount() == 1 },
		time.Second, 5*time.Millisecond)

	h.Publish(hub.Event{Type: hub.EventStateChanged, Data: testSnapshot(), Timestamp: time.Now()})

	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, hub.EventStateChanged, ev.Type)
}

func TestWebSocketUnsubscribesOnClose(t *testing.T) {
	h := hub.New("ws-test")
	server := httptest.NewServer(NewWebSocketHandler(h, testSnapshot, DefaultConnConfig()))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}

	require.Eventually(t, func() bool { return h.SubscriberCount() == 1 },
		time.Second, 5*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return h.SubscriberCount() == 0 },
		time.Second, 5*time.Millisecond, "close must unsubscribe")
}
