package web

import (
	"encoding/binary"
	"github.com/gorilla/websocket"
	"github.com/thelolagemann/gochip8/pkg/log"
	"net/http"
	"sync"
	"time"
)

type hub struct {
	clients map[*Client]bool

	broadcast            chan []byte
	register, unregister chan *Client
	input                chan []byte

	// catchUp returns the messages a newly registered client
	// needs to join the stream.
	catchUp func() [][]byte
	// info returns the ServerInfo header, status and flags.
	info func() []byte

	infoEvery time.Duration
	currentID uint8
	mu        sync.Mutex
	done      chan struct{}

	log.Logger
}

func newHub(logger log.Logger) *hub {
	return &hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		input:      make(chan []byte, 64),
		done:       make(chan struct{}),
		infoEvery:  time.Second,
		catchUp:    func() [][]byte { return nil },
		info:       func() []byte { return []byte{ServerInfo, 0, 0} },
		Logger:     logger,
	}
}

// ServeHTTP upgrades the request to a websocket connection and
// attaches a new client to the hub.
func (w *hub) ServeHTTP(wr http.ResponseWriter, r *http.Request) {
	wr.Header().Set("Access-Control-Allow-Origin", "*")

	// upgrade the connection to a websocket connection
	conn, err := upgrader.Upgrade(wr, r, nil)
	if err != nil {
		w.Errorf("websocket upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	c := w.newClient(conn, r)
	go c.WritePump()
	go c.ReadPump()

	select {
	case w.register <- c:
	case <-w.done:
		conn.Close()
	}
}

// run dispatches messages between the stream and the clients
// until stop is called.
func (w *hub) run() {
	t := time.NewTicker(w.infoEvery)
	defer t.Stop()

	for {
		select {
		case <-w.done:
			for c := range w.clients {
				delete(w.clients, c)
				close(c.Send)
			}
			return
		case c := <-w.register:
			w.clients[c] = true
			w.Infof("client %d connected from %s", c.ID, c.RemoteAddr)

			c.Send <- []byte{ClientIdentify, c.ID}
			for _, msg := range w.catchUp() {
				c.Send <- msg
			}
		case c := <-w.unregister:
			// is this client still registered
			if _, ok := w.clients[c]; ok {
				delete(w.clients, c)
				close(c.Send)
				w.Infof("client %d disconnected", c.ID)
			}
		case msg := <-w.broadcast:
			w.send(msg)
		case <-t.C:
			// periodic info updates
			data := w.info()
			for c := range w.clients {
				latencyBuf := make([]byte, 2)
				binary.LittleEndian.PutUint16(latencyBuf, uint16(c.Latency()/time.Millisecond))
				data = append(data, c.ID)
				data = append(data, latencyBuf...)
			}
			w.send(data)
		}
	}
}

func (w *hub) stop() {
	close(w.done)
}

// send queues msg on every client, dropping clients that can't
// keep up.
func (w *hub) send(msg []byte) {
	for c := range w.clients {
		select {
		case c.Send <- msg:
		default:
			close(c.Send)
			delete(w.clients, c)
			w.Errorf("client %d dropped, send buffer full", c.ID)
		}
	}
}

// newClient creates a new client for the connection.
func (w *hub) newClient(conn *websocket.Conn, r *http.Request) *Client {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.currentID++

	return &Client{
		hub:         w,
		conn:        conn,
		Send:        make(chan []byte, 256),
		ID:          w.currentID,
		RemoteAddr:  r.RemoteAddr,
		UserAgent:   r.Header.Get("User-Agent"),
		connectedAt: time.Now(),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
