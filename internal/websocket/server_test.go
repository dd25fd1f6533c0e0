package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordandelaney/METAR-Vibe/internal/observability"
	"github.com/jordandelaney/METAR-Vibe/internal/weather"
	"github.com/jordandelaney/METAR-Vibe/pkg/logger"
)

type pushedMessage struct {
	Type string                 `json:"type"`
	Data weather.StationWeather `json:"data"`
}

func newTestHub(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	log, err := logger.New(logger.Config{Level: "error", Format: "console"})
	require.NoError(t, err)

	hub := NewServer(observability.NewUnregisteredMetrics(), log)
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	t.Cleanup(server.Close)
	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Server, want int) {
	t.Helper()

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == want
	}, 2*time.Second, 10*time.Millisecond)
}

func readPush(t *testing.T, conn *websocket.Conn) pushedMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg pushedMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestBroadcastWeather_ReachesClient(t *testing.T) {
	hub, server := newTestHub(t)
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	hub.BroadcastWeather(&weather.StationWeather{Station: "KJFK", FlightCategory: "VFR"})

	msg := readPush(t, conn)
	assert.Equal(t, MessageTypeWeather, msg.Type)
	assert.Equal(t, "KJFK", msg.Data.Station)
	assert.Equal(t, "VFR", msg.Data.FlightCategory)
}

func TestBroadcastWeather_ReachesAllClients(t *testing.T) {
	hub, server := newTestHub(t)
	first := dial(t, server)
	second := dial(t, server)
	waitForClients(t, hub, 2)

	hub.BroadcastWeather(&weather.StationWeather{Station: "KSEA", FlightCategory: "IFR"})

	assert.Equal(t, "KSEA", readPush(t, first).Data.Station)
	assert.Equal(t, "KSEA", readPush(t, second).Data.Station)
}

func TestSubscribe_FiltersStations(t *testing.T) {
	hub, server := newTestHub(t)
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	// Lowercase on purpose, subscriptions are normalized
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "subscribe",
		"data": map[string]any{"stations": []string{"kjfk", "not-a-station"}},
	}))

	var client *Client
	hub.mu.RLock()
	for c := range hub.clients {
		client = c
	}
	hub.mu.RUnlock()
	require.NotNil(t, client)

	require.Eventually(t, func() bool {
		return client.wantsStation("KJFK") && !client.wantsStation("KSEA")
	}, 2*time.Second, 10*time.Millisecond)

	// The unsubscribed station is filtered out, the subscribed one arrives
	hub.BroadcastWeather(&weather.StationWeather{Station: "KSEA", FlightCategory: "IFR"})
	hub.BroadcastWeather(&weather.StationWeather{Station: "KJFK", FlightCategory: "VFR"})

	msg := readPush(t, conn)
	assert.Equal(t, "KJFK", msg.Data.Station)
}

func TestUnregisterOnDisconnect(t *testing.T) {
	hub, server := newTestHub(t)
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}
