package notify

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/trustedvehicles/dealerdesk/internal/common/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Hub 基于 WebSocket 的广播中心。
// 每个打开的后台页面一条连接；Emit 把事件扇出到所有连接。
// 发送通道满（慢消费者）直接踢掉该连接，绝不阻塞写路径。
type Hub struct {
	log      logger.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
	started bool
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 后台同源页面使用，放开 Origin 检查
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
	}
}

// Start 标记 Hub 可接收连接。
func (h *Hub) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = true
	return nil
}

// Stop 关闭所有连接并拒绝后续广播。
func (h *Hub) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = false
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
	return nil
}

// Emit 广播事件。未 Start 或无连接时丢弃并记 warn 日志。
func (h *Hub) Emit(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Event: eventType, Data: payload})
	if err != nil {
		h.log.Warnf("notify: failed to marshal event %s: %v", eventType, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if !h.started || len(h.clients) == 0 {
		h.log.Warnf("notify: no connected viewers, event %s dropped", eventType)
		return
	}
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			// 慢消费者：异步移除，避免拖住本次广播
			go h.remove(c.id)
		}
	}
}

// ServeHTTP 升级连接并注册到 Hub（挂到 GET /ws）。
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	started := h.started
	h.mu.RUnlock()
	if !started {
		http.Error(w, "notification hub not started", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("notify: websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.log.Debugf("notify: client connected id=%s", c.id)

	go h.writePump(c)
	go h.readPump(c)
}

// ClientCount 当前连接数。
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.send)
		delete(h.clients, id)
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 只消费控制帧；客户端不向服务端发业务消息。
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c.id)
		_ = c.conn.Close()
		h.log.Debugf("notify: client disconnected id=%s", c.id)
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
