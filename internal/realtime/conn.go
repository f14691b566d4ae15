package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds how long a single websocket write may block.
	writeWait = 5 * time.Second
	// sendBuffer is the per-connection outbound queue depth.  A peer that
	// falls this far behind is treated as unreachable.
	sendBuffer = 16
)

var (
	errConnClosed = errors.New("connection closed")
	errSendFull   = errors.New("send buffer full")
)

// WSConn adapts a gorilla websocket connection to the Handle interface.
// Sends enqueue onto a buffered channel drained by a single writer
// goroutine, so a slow peer never blocks the dispatcher; a full buffer
// fails the send immediately and the registry drops the handle.
type WSConn struct {
	ws   *websocket.Conn
	out  chan []byte
	done chan struct{}
	once sync.Once
}

// NewWSConn wraps an upgraded websocket connection and starts its writer.
func NewWSConn(ws *websocket.Conn) *WSConn {
	c := &WSConn{
		ws:   ws,
		out:  make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	go c.writePump()
	return c
}

// writePump is the sole writer on the underlying conn.  It stops on the
// first transport error; the connection's read loop observes the broken
// transport and unregisters the handle.
func (c *WSConn) writePump() {
	for {
		select {
		case payload := <-c.out:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Send enqueues one text message.  It never blocks: a closed connection
// or a full outbound buffer fails the send immediately.
func (c *WSConn) Send(payload []byte) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}
	select {
	case c.out <- payload:
		return nil
	case <-c.done:
		return errConnClosed
	default:
		return errSendFull
	}
}

// Close stops the writer and closes the underlying transport.  Safe to
// call more than once.
func (c *WSConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return c.ws.Close()
}
