package network

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"

	"github.com/tiaotiao0823/Poker/core/auth"
)

type ConnStatus = int32

const (
	Disconnected ConnStatus = iota
	Connectting
	Connected
)

var ErrConnClosed = errors.New("connection is closed")
var ErrSendBufferFull = errors.New("send buffer is full")

const DefaultSendBufferSize = 64

func GenConnID() string {
	return "ws_" + uuid.NewString()
}

func newWSConn(id string, uinfo *auth.UserInfo, c *ws.Conn, timeout time.Duration) *WSConn {
	return &WSConn{
		id:       id,
		UserInfo: uinfo,
		imp:      c,
		timeout:  timeout,
		chWrite:  make(chan []byte, DefaultSendBufferSize),
		chRead:   make(chan []byte, DefaultSendBufferSize),
		chClosed: make(chan struct{}),
	}
}

// WSConn wraps one websocket connection with buffered read/write pumps.
// Message bodies are opaque to this layer; the server above speaks JSON.
type WSConn struct {
	UserInfo *auth.UserInfo

	imp      *ws.Conn
	status   ConnStatus
	chClosed chan struct{}
	timeout  time.Duration

	chWrite chan []byte
	chRead  chan []byte

	id string
}

func (c *WSConn) ConnID() string {
	return c.id
}

func (c *WSConn) UserID() string {
	if c.UserInfo == nil {
		return ""
	}
	return c.UserInfo.UId
}

func (c *WSConn) RemoteAddr() string {
	if !c.Enable() {
		return ""
	}
	return c.imp.RemoteAddr().String()
}

// Send enqueues raw bytes for delivery. It never blocks: a full buffer
// means the peer is too slow and the send fails instead of stalling the
// caller.
func (c *WSConn) Send(body []byte) error {
	if !c.Enable() {
		return ErrConnClosed
	}
	select {
	case <-c.chClosed:
		return ErrConnClosed
	case c.chWrite <- body:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *WSConn) Close() error {
	old := atomic.SwapInt32(&c.status, Disconnected)
	if old != Connected {
		return nil
	}
	select {
	case <-c.chClosed:
		return nil
	default:
		close(c.chClosed)
		c.imp.Close()
		return nil
	}
}

func (c *WSConn) Enable() bool {
	return c.Status() == Connected
}

func (c *WSConn) Status() ConnStatus {
	return atomic.LoadInt32(&c.status)
}

func (c *WSConn) writeWork() error {
	ping := time.NewTicker(c.timeout / 2)
	defer ping.Stop()
	for {
		select {
		case <-c.chClosed:
			return nil
		case body, ok := <-c.chWrite:
			if !ok {
				return nil
			}
			c.imp.SetWriteDeadline(time.Now().Add(c.timeout))
			if err := c.imp.WriteMessage(ws.TextMessage, body); err != nil {
				return err
			}
		case <-ping.C:
			c.imp.SetWriteDeadline(time.Now().Add(c.timeout))
			if err := c.imp.WriteMessage(ws.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func (c *WSConn) readWork() error {
	c.imp.SetPongHandler(func(string) error {
		c.imp.SetReadDeadline(time.Now().Add(c.timeout))
		return nil
	})
	for {
		c.imp.SetReadDeadline(time.Now().Add(c.timeout))
		_, body, err := c.imp.ReadMessage()
		if err != nil {
			return err
		}
		select {
		case <-c.chClosed:
			return nil
		case c.chRead <- body:
		}
	}
}
