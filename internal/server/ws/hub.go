package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 本地服务，不限来源
	},
}

// Message 服务端推送和客户端请求共用的信封
type Message struct {
	Type    string          `json:"type"` // "state", "ping", "pong", "error"
	ID      string          `json:"id,omitempty"`
	GameID  string          `json:"game_id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// StateFunc 取某局的当前状态；局不存在时返回错误
type StateFunc func(gameID string) (any, error)

type client struct {
	id     string
	gameID string
	conn   *websocket.Conn
	send   chan Message
}

// Hub 按对局分组的订阅者集合。每次对局状态变化后 Publish 一次。
type Hub struct {
	mu    sync.Mutex
	subs  map[string]map[*client]struct{}
	state StateFunc
}

func NewHub(state StateFunc) *Hub {
	return &Hub{subs: make(map[string]map[*client]struct{}), state: state}
}

// ServeHTTP 处理 /api/ws?game_id=...，连上先推一次当前状态
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	st, err := h.state(gameID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	payload, err := json.Marshal(st)
	if err != nil {
		http.Error(w, "encode state failed", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	c := &client{
		id:     uuid.NewString(),
		gameID: gameID,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
	}
	c.send <- Message{Type: "state", GameID: gameID, Payload: payload}
	h.register(c)
	log.Printf("websocket %s subscribed to game %s", c.id, gameID)

	go h.writePump(c)
	h.readPump(c)
}

// Publish 把状态推给这一局的所有订阅者。发不进去的慢客户端直接断开。
func (h *Hub) Publish(gameID string, state any) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Println("websocket publish error:", err)
		return
	}
	msg := Message{Type: "state", GameID: gameID, Payload: payload}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.subs[gameID] {
		select {
		case c.send <- msg:
		default:
			log.Printf("websocket %s too slow, dropping", c.id)
			h.removeLocked(c)
		}
	}
}

// Subscribers 某一局当前的订阅数
func (h *Hub) Subscribers(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[gameID])
}

// Drop 断开某一局的全部订阅者，对局关闭时调用
func (h *Hub) Drop(gameID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.subs[gameID] {
		h.removeLocked(c)
	}
}

// Close 断开所有订阅者，服务关闭时调用
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.subs {
		for c := range set {
			h.removeLocked(c)
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[c.gameID]
	if !ok {
		set = make(map[*client]struct{})
		h.subs[c.gameID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked 调用方持有 h.mu；send 只在这里关闭，所以不会重复关
func (h *Hub) removeLocked(c *client) {
	set := h.subs[c.gameID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.subs, c.gameID)
	}
	close(c.send)
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 客户端只会发 ping 和 state 请求，命令一律走 HTTP 接口
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		log.Printf("websocket %s disconnected", c.id)
	}()
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		reply := h.handleMessage(c, msg)

		h.mu.Lock()
		if _, ok := h.subs[c.gameID][c]; ok {
			select {
			case c.send <- reply:
			default:
			}
		}
		h.mu.Unlock()
	}
}

func (h *Hub) handleMessage(c *client, msg Message) Message {
	switch msg.Type {
	case "ping":
		return Message{Type: "pong", ID: msg.ID}
	case "state":
		st, err := h.state(c.gameID)
		if err != nil {
			return Message{Type: "error", ID: msg.ID, Error: err.Error()}
		}
		payload, err := json.Marshal(st)
		if err != nil {
			return Message{Type: "error", ID: msg.ID, Error: "encode state failed"}
		}
		return Message{Type: "state", ID: msg.ID, GameID: c.gameID, Payload: payload}
	default:
		return Message{Type: "error", ID: msg.ID, Error: "unknown message type"}
	}
}
