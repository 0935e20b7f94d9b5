package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/pkg/logger"
)

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := NewHub(logger.Nop())
	conn := dial(t, hub)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(contracts.StageEvent{RunID: "r1", Stage: contracts.StageClean, Status: contracts.StatusCompleted})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got contracts.StageEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "r1", got.RunID)
	assert.Equal(t, contracts.StageClean, got.Stage)
	assert.Equal(t, contracts.StatusCompleted, got.Status)
}

func TestHub_ReplaysRecentOnConnect(t *testing.T) {
	hub := NewHub(logger.Nop())
	hub.Publish(contracts.StageEvent{RunID: "r0", Stage: contracts.StageAcquire, Status: contracts.StatusStarted})

	conn := dial(t, hub)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got contracts.StageEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "r0", got.RunID)
}

func TestHub_RecentIsBounded(t *testing.T) {
	hub := NewHub(logger.Nop())
	for i := 0; i < replayEvents+10; i++ {
		hub.Publish(contracts.StageEvent{Stage: contracts.StageModel})
	}
	assert.Len(t, hub.Recent(), replayEvents)
}

func TestHub_CloseDisconnects(t *testing.T) {
	hub := NewHub(logger.Nop())
	dial(t, hub)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())
}
