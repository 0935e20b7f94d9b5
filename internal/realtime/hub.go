package realtime

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/epaforecast/internal/contracts"
	"github.com/wonny/epaforecast/internal/metrics"
	"github.com/wonny/epaforecast/pkg/logger"
)

const (
	// Ping/Pong settings
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second

	sendBuffer   = 32
	replayEvents = 50
)

// Hub fans pipeline stage events out to websocket subscribers
// ⭐ SSOT: 파이프라인 이벤트 스트림은 이 허브에서만
type Hub struct {
	logger   *logger.Logger
	upgrader websocket.Upgrader

	clients   map[*subscriber]struct{}
	clientsMu sync.RWMutex

	recent   []contracts.StageEvent
	recentMu sync.RWMutex
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a new hub
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		logger: log.WithField("module", "realtime"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*subscriber]struct{}),
	}
}

// Publish sends an event to every subscriber; slow subscribers are dropped
func (h *Hub) Publish(event contracts.StageEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal stage event")
		return
	}

	h.recentMu.Lock()
	h.recent = append(h.recent, event)
	if len(h.recent) > replayEvents {
		h.recent = h.recent[len(h.recent)-replayEvents:]
	}
	h.recentMu.Unlock()

	h.clientsMu.RLock()
	var slow []*subscriber
	for sub := range h.clients {
		select {
		case sub.send <- payload:
		default:
			slow = append(slow, sub)
		}
	}
	h.clientsMu.RUnlock()

	for _, sub := range slow {
		h.logger.Warn("Dropping slow websocket subscriber")
		h.remove(sub)
	}
}

// Recent returns the last published events, oldest first
func (h *Hub) Recent() []contracts.StageEvent {
	h.recentMu.RLock()
	defer h.recentMu.RUnlock()
	return append([]contracts.StageEvent(nil), h.recent...)
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams events until the client leaves
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}

	// 접속 직후 최근 이벤트 재전송
	for _, ev := range h.Recent() {
		if payload, err := json.Marshal(ev); err == nil {
			select {
			case sub.send <- payload:
			default:
			}
		}
	}

	h.clientsMu.Lock()
	h.clients[sub] = struct{}{}
	h.clientsMu.Unlock()
	metrics.WebsocketClients.Inc()

	h.logger.WithField("remote", r.RemoteAddr).Debug("Websocket subscriber connected")

	go h.writeLoop(sub)
	go h.readLoop(sub)
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.clientsMu.RLock()
	subs := make([]*subscriber, 0, len(h.clients))
	for sub := range h.clients {
		subs = append(subs, sub)
	}
	h.clientsMu.RUnlock()

	for _, sub := range subs {
		h.remove(sub)
	}
}

// remove unregisters sub once and stops its write loop
func (h *Hub) remove(sub *subscriber) {
	h.clientsMu.Lock()
	if _, ok := h.clients[sub]; !ok {
		h.clientsMu.Unlock()
		return
	}
	delete(h.clients, sub)
	close(sub.send)
	h.clientsMu.Unlock()

	metrics.WebsocketClients.Dec()
}

// readLoop consumes control frames; any read error ends the subscription
func (h *Hub) readLoop(sub *subscriber) {
	defer func() {
		h.remove(sub)
		sub.conn.Close()
	}()

	sub.conn.SetReadLimit(512)
	sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writeLoop sends queued events and periodic pings
func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := sub.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
