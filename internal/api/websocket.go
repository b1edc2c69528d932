package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"survivors/internal/chat"
	"survivors/internal/game"

	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections allowed
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP
	MaxWSConnectionsPerIP = 10

	// BroadcastInterval is how often snapshots are pushed to clients
	BroadcastInterval = 100 * time.Millisecond

	wsWriteWait    = 2 * time.Second
	wsMaxMessageSz = 4 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		if IsAllowedOrigin(origin) {
			return true
		}

		log.Printf("⚠️ WebSocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// wsMessage is the envelope for both directions
type wsMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// wsClient tracks a WebSocket connection with its source IP
type wsClient struct {
	conn *websocket.Conn
	ip   string
}

// WebSocketHub pushes snapshots to connected clients and feeds their
// input messages into the engine.
type WebSocketHub struct {
	engine     EngineInterface
	commands   *chat.Handler
	clients    map[*websocket.Conn]*wsClient
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *websocket.Conn
	stopChan   chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	// Connection limiting per IP
	wsLimiter *ConnLimiter
}

// NewWebSocketHub creates a new hub allowing maxPerIP connections per client
// IP, or MaxWSConnectionsPerIP when maxPerIP is not positive. commands may
// be nil, in which case "command" messages are ignored.
func NewWebSocketHub(engine EngineInterface, commands *chat.Handler, maxPerIP int) *WebSocketHub {
	if maxPerIP <= 0 {
		maxPerIP = MaxWSConnectionsPerIP
	}
	return &WebSocketHub{
		engine:     engine,
		commands:   commands,
		clients:    make(map[*websocket.Conn]*wsClient),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *websocket.Conn),
		stopChan:   make(chan struct{}),
		wsLimiter:  NewConnLimiter(maxPerIP),
	}
}

// Run owns every client write until Stop is called
func (h *WebSocketHub) Run() {
	for {
		select {
		case <-h.stopChan:
			h.mu.Lock()
			for conn, client := range h.clients {
				h.wsLimiter.Release(client.ip)
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			UpdateWSConnections(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.conn] = client
			count := len(h.clients)
			h.mu.Unlock()

			log.Printf("📱 Client connected from %s (%d total)", client.ip, count)
			UpdateWSConnections(count)

		case conn := <-h.unregister:
			h.remove(conn)
			count := h.ClientCount()
			log.Printf("📱 Client disconnected (%d remaining)", count)
			UpdateWSConnections(count)

		case message := <-h.broadcast:
			var failed []*websocket.Conn
			h.mu.RLock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					failed = append(failed, conn)
				}
			}
			h.mu.RUnlock()

			for _, conn := range failed {
				h.remove(conn)
			}
			IncrementWSMessages()
		}
	}
}

func (h *WebSocketHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[conn]; ok {
		h.wsLimiter.Release(client.ip)
		delete(h.clients, conn)
		conn.Close()
	}
}

// Stop closes every connection and ends Run and the broadcast loop
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() { close(h.stopChan) })
}

// Broadcast sends a message to all connected clients
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	jsonBytes, err := json.Marshal(wsMessage{Event: event, Data: payload})
	if err != nil {
		return
	}

	select {
	case h.broadcast <- jsonBytes:
	default:
		// Channel full, skip (backpressure)
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// StartBroadcastLoop pushes the latest snapshot every BroadcastInterval
func (h *WebSocketHub) StartBroadcastLoop() {
	ticker := time.NewTicker(BroadcastInterval)

	go func() {
		defer ticker.Stop()
		var lastSeq uint64
		for {
			select {
			case <-h.stopChan:
				return
			case <-ticker.C:
			}

			if h.ClientCount() == 0 {
				continue
			}
			snap := h.engine.GetSnapshot()
			if snap.Sequence == lastSeq {
				continue
			}
			lastSeq = snap.Sequence
			h.Broadcast("game:state", snap)
		}
	}()
}

// handleMessage applies one client command to the engine
func (h *WebSocketHub) handleMessage(ip string, raw []byte) {
	var msg wsMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	switch msg.Event {
	case "input":
		var in game.InputSnapshot
		if err := json.Unmarshal(msg.Data, &in); err == nil {
			h.engine.SetInput(in)
		}
	case "pause":
		var req struct {
			Paused bool `json:"paused"`
		}
		if err := json.Unmarshal(msg.Data, &req); err == nil {
			h.engine.SetPaused(req.Paused)
		}
	case "reward":
		var req struct {
			Kind game.RewardKind `json:"kind"`
		}
		if err := json.Unmarshal(msg.Data, &req); err == nil {
			if err := h.engine.ApplyReward(req.Kind); err != nil {
				log.Printf("⚠️ Reward from %s rejected: %v", ip, err)
			}
		}
	case "command":
		var req struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(msg.Data, &req); err != nil || h.commands == nil {
			return
		}
		h.Broadcast("command:result", commandResult(ip, req.Text, h.commands))
	default:
		log.Printf("📨 Unknown WebSocket event from %s: %q", ip, msg.Event)
	}
}

// HandleWebSocket handles incoming WebSocket connections with DoS protection
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := ClientIP(r)

	if total := h.ClientCount(); total >= MaxWSConnectionsTotal {
		log.Printf("⚠️ WebSocket connection rejected: total limit reached (%d)", total)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	if !h.wsLimiter.Acquire(ip) {
		log.Printf("⚠️ WebSocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		h.wsLimiter.Release(ip) // Release the slot we reserved
		return
	}
	conn.SetReadLimit(wsMaxMessageSz)

	select {
	case h.register <- &wsClient{conn: conn, ip: ip}:
	case <-h.stopChan:
		h.wsLimiter.Release(ip)
		conn.Close()
		return
	}

	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.stopChan:
			}
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			h.handleMessage(ip, message)
		}
	}()
}
