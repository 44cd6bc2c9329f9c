package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edulake/internal/pipeline"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWS(hub, w, r, nil)
	}))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("hub never reached %d clients", want)
}

func TestHubBroadcastReachesClient(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	t.Cleanup(hub.Stop)

	conn := dialTestHub(t, hub)
	waitForClients(t, hub, 1)

	hub.PublishProgress(pipeline.ProgressUpdate{
		RunID:  "run-1",
		Stage:  "transform:housing",
		Status: "completed",
		Rows:   159,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, TypePipelineProgress, msg.Type)

	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "run-1", payload["run_id"])
	assert.Equal(t, "transform:housing", payload["stage"])
	assert.Equal(t, float64(159), payload["rows"])
}

func TestHubUnregisterOnClose(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	t.Cleanup(hub.Stop)

	conn := dialTestHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHubStartIsIdempotent(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	hub.Start()
	t.Cleanup(hub.Stop)

	assert.Equal(t, 0, hub.ClientCount())
}

func TestBroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	t.Cleanup(hub.Stop)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Broadcast(TypePipelineProgress, map[string]int{"i": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked with no clients")
	}
}
