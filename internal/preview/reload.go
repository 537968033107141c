package preview

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
)

// ReloadPath is the websocket endpoint live-reload clients connect to.
const ReloadPath = "/__docsite/reload"

type reloadMessage struct {
	Type string `json:"type"`
}

// Hub fans reload notifications out to connected browsers.
type Hub struct {
	ctx        context.Context
	cancel     context.CancelFunc
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan reloadMessage
	done       chan struct{}
}

type client struct {
	conn   *websocket.Conn
	notify chan reloadMessage
}

// NewHub starts the hub loop; it stops when ctx is done or on Close.
func NewHub(ctx context.Context) *Hub {
	ctx, cancel := context.WithCancel(ctx)
	h := &Hub{
		ctx:        ctx,
		cancel:     cancel,
		clients:    make(map[*client]bool),
		register:   make(chan *client, 16),
		unregister: make(chan *client, 16),
		broadcast:  make(chan reloadMessage),
		done:       make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			for c := range h.clients {
				close(c.notify)
				c.conn.Close()
			}
			h.drain()
			return

		case c := <-h.register:
			h.clients[c] = true

		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.notify)
				c.conn.Close()
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.notify <- msg:
				default:
				}
			}
		}
	}
}

func (h *Hub) drain() {
	for {
		select {
		case c := <-h.register:
			c.conn.Close()
		case c := <-h.unregister:
			c.conn.Close()
		default:
			return
		}
	}
}

// Broadcast tells every connected browser to reload. It returns once the
// hub has taken the message, or immediately after shutdown.
func (h *Hub) Broadcast() {
	select {
	case h.broadcast <- reloadMessage{Type: "reload"}:
	case <-h.ctx.Done():
	}
}

// Close disconnects every client and waits for the hub loop to exit.
func (h *Hub) Close() {
	h.cancel()
	<-h.done
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.ctx.Done():
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{conn: conn, notify: make(chan reloadMessage, 1)}
	select {
	case h.register <- c:
	case <-h.ctx.Done():
		conn.Close()
		return
	}

	leave := func() {
		select {
		case h.unregister <- c:
		case <-h.ctx.Done():
		}
	}
	defer leave()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				leave()
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-c.notify:
			if !ok {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-h.ctx.Done():
			return
		}
	}
}

const reloadScript = `<script>(() => {
  const url = (location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '` + ReloadPath + `';
  const ws = new WebSocket(url);
  ws.onmessage = (e) => { if (JSON.parse(e.data).type === 'reload') location.reload(); };
})();</script>`
