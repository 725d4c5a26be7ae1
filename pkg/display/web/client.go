package web

import (
	"github.com/gorilla/websocket"
	"net"
	"sync/atomic"
	"time"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is a websocket connection watching the stream.
type Client struct {
	hub  *hub
	conn *websocket.Conn
	Send chan []byte
	ID   uint8

	RemoteAddr string
	UserAgent  string

	// average round trip time in milliseconds
	avgLatency  atomic.Uint32
	connectedAt time.Time
}

// ReadPump forwards key and control messages from the client to
// the hub, until the connection is closed.
func (c *Client) ReadPump() {
	// deferred function to handle unregistering client
	// and closing connection
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return // connection closed
		}
		if len(message) == 0 {
			continue
		}

		switch message[0] {
		case Closing:
			return
		case KeepAlive:
		default:
			select {
			case c.hub.input <- message:
			case <-c.hub.done:
				return
			}
		}
	}
}

// WritePump writes messages queued on Send to the connection,
// pinging it periodically.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			// hub closed the channel
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// try to write message to client
			if err := c.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

			c.updateLatency()
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) updateLatency() {
	conn, ok := c.conn.UnderlyingConn().(*net.TCPConn)
	if !ok {
		return
	}
	rtt, err := roundTrip(conn)
	if err != nil {
		return
	}
	avg := c.avgLatency.Load()
	c.avgLatency.Store((avg*9 + uint32(rtt/time.Millisecond)) / 10)
}

// Latency returns the smoothed round trip time to the client.
func (c *Client) Latency() time.Duration {
	return time.Duration(c.avgLatency.Load()) * time.Millisecond
}
