package room

import (
	"encoding/json"

	"github.com/tiaotiao0823/Poker/msg"
)

// Conn is the outbound side of one client connection as the room layer
// sees it. *network.WSConn implements it.
type Conn interface {
	ConnID() string
	UserID() string
	Send(body []byte) error
}

// Session is one authenticated client connection. A connection is
// subscribed to at most one room at a time.
type Session struct {
	conn   Conn
	roomId string
}

func NewSession(conn Conn) *Session {
	return &Session{conn: conn}
}

func (s *Session) ConnID() string {
	return s.conn.ConnID()
}

func (s *Session) UserID() string {
	return s.conn.UserID()
}

// Send marshals and enqueues one outbound message. Failure means the
// connection is gone or too slow; callers drop the subscriber then.
func (s *Session) Send(m *msg.ServerMessage) error {
	body, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.conn.Send(body)
}

func (s *Session) SendError(rerr error) {
	s.Send(&msg.ServerMessage{
		Type:  msg.MsgType_Error,
		Error: msg.FromError(rerr),
	})
}
