package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/EgorLis/lobbybot/internal/bot"
)

const (
	pingPeriod   = 10 * time.Second
	pongWait     = 30 * time.Second
	writeTimeout = 5 * time.Second
	sendBuffer   = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// дашборд открывается с того же адреса, остальное режет вход по cookie
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub раздаёт события бота подключённым websocket-клиентам.
// Медленный клиент теряет кадры, бот не ждёт.
type Hub struct {
	log *log.Entry

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	json bool
	send chan []byte
	done chan struct{}
	wmu  sync.Mutex // gorilla не допускает параллельной записи
}

func NewHub(logger log.FieldLogger) *Hub {
	return &Hub{
		log:     logger.WithField("component", "events"),
		clients: map[*client]struct{}{},
	}
}

// Len — число подключённых клиентов.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// EncodeEvent собирает кадр события в виде google.protobuf.Struct.
func EncodeEvent(e bot.Event) (*structpb.Struct, error) {
	data, err := structpb.NewStruct(e.Data)
	if err != nil {
		// значения неподдерживаемых типов уходят строками
		plain := make(map[string]any, len(e.Data))
		for k, v := range e.Data {
			plain[k] = fmt.Sprint(v)
		}
		if data, err = structpb.NewStruct(plain); err != nil {
			return nil, err
		}
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"time":    structpb.NewStringValue(e.Time.UTC().Format(time.RFC3339Nano)),
		"account": structpb.NewStringValue(e.Account),
		"type":    structpb.NewStringValue(e.Type),
		"data":    structpb.NewStructValue(data),
	}}, nil
}

// Broadcast кодирует событие один раз на формат и ставит кадр в очередь
// каждому клиенту.
func (h *Hub) Broadcast(e bot.Event) {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()
	if len(clients) == 0 {
		return
	}

	msg, err := EncodeEvent(e)
	if err != nil {
		h.log.WithError(err).WithField("type", e.Type).Warn("event encode failed")
		return
	}
	var binFrame, jsonFrame []byte
	for _, c := range clients {
		var frame []byte
		if c.json {
			if jsonFrame == nil {
				if jsonFrame, err = protojson.Marshal(msg); err != nil {
					h.log.WithError(err).Warn("event encode failed")
					return
				}
			}
			frame = jsonFrame
		} else {
			if binFrame == nil {
				if binFrame, err = proto.Marshal(msg); err != nil {
					h.log.WithError(err).Warn("event encode failed")
					return
				}
			}
			frame = binFrame
		}
		select {
		case c.send <- frame:
		default:
			h.log.WithField("type", e.Type).Debug("events: client is slow, frame dropped")
		}
	}
}

// Serve переводит запрос в websocket и держит соединение до его закрытия.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	c := &client{
		conn: conn,
		json: r.URL.Query().Get("format") == "json",
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.WithField("remote", r.RemoteAddr).Debug("events client connected")

	go c.writeLoop()
	c.readLoop()

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(c.done)
	_ = conn.Close()
	h.log.WithField("remote", r.RemoteAddr).Debug("events client disconnected")
}

// Close закрывает все соединения, readLoop каждого клиента завершится сам.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.close()
	}
}

// readLoop читает только ради pong и закрытия, входящие кадры игнорируются.
func (c *client) readLoop() {
	c.conn.SetReadLimit(4096)
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

func (c *client) writeLoop() {
	t := time.NewTicker(pingPeriod)
	defer t.Stop()
	typ := websocket.BinaryMessage
	if c.json {
		typ = websocket.TextMessage
	}
	for {
		select {
		case frame := <-c.send:
			c.wmu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := c.conn.WriteMessage(typ, frame)
			c.wmu.Unlock()
			if err != nil {
				_ = c.conn.Close()
				return
			}
		case <-t.C:
			c.wmu.Lock()
			_ = c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeTimeout))
			c.wmu.Unlock()
		case <-c.done:
			return
		}
	}
}

func (c *client) close() {
	c.wmu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closing"),
		time.Now().Add(500*time.Millisecond))
	c.wmu.Unlock()
	_ = c.conn.Close()
}
