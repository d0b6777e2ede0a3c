package protocol

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteWait = 10 * time.Second

// Upgrader upgrades HTTP connections for websocket-backed channels. Origin
// checking is the embedding host's concern; widgets are sandboxed anyway.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// WSChannel is a Channel backed by a websocket connection, for hosts that
// run widgets out of process. Malformed frames are dropped silently, like
// every other malformed message in the protocol.
type WSChannel struct {
	conn *websocket.Conn
	in   chan Envelope

	writeMu sync.Mutex
	once    sync.Once
}

// NewWSChannel wraps an upgraded websocket connection and starts its read
// loop. The caller owns the connection's lifetime through Close.
func NewWSChannel(conn *websocket.Conn) *WSChannel {
	c := &WSChannel{
		conn: conn,
		in:   make(chan Envelope, 64),
	}
	go c.readLoop()
	return c
}

func (c *WSChannel) readLoop() {
	defer c.Close()
	defer close(c.in)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
			// Malformed frame: silent no-op.
			continue
		}
		c.in <- env
	}
}

// Send writes one envelope with a bounded write deadline.
func (c *WSChannel) Send(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := c.conn.WriteJSON(env); err != nil {
		return ErrChannelClosed
	}
	return nil
}

// Recv returns the inbound envelope stream.
func (c *WSChannel) Recv() <-chan Envelope {
	return c.in
}

// Close severs the connection.
func (c *WSChannel) Close() error {
	c.once.Do(func() {
		c.conn.Close()
	})
	return nil
}
