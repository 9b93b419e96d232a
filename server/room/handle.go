package room

import (
	"encoding/json"

	log "github.com/tiaotiao0823/Poker/core/log"
	"github.com/tiaotiao0823/Poker/core/network"
	"github.com/tiaotiao0823/Poker/msg"
)

// OnConnPacket dispatches one inbound message. Malformed messages are
// answered with an error on that connection only; they never touch table
// state.
func (s *Server) OnConnPacket(conn *network.WSConn, body []byte) {
	sess := s.session(conn.ConnID())
	if sess == nil {
		return
	}

	m := &msg.ClientMessage{}
	if err := json.Unmarshal(body, m); err != nil {
		log.Debugf("conn %v bad message: %v", conn.ConnID(), err)
		sess.SendError(msg.ErrBadRequest)
		return
	}

	switch m.Type {
	case msg.MsgType_JoinRoom:
		s.handleJoinRoom(sess, m)
	case msg.MsgType_LeaveRoom:
		s.handleLeaveRoom(sess, m)
	case msg.MsgType_GameAction:
		s.handleGameAction(sess, m)
	default:
		sess.SendError(msg.ErrBadRequest)
	}
}

func (s *Server) handleJoinRoom(sess *Session, m *msg.ClientMessage) {
	if m.RoomId == "" {
		sess.SendError(msg.ErrBadRequest)
		return
	}
	// the identity comes from the verified token, never from the payload
	if m.UserId != "" && m.UserId != sess.UserID() {
		sess.SendError(msg.ErrBadRequest)
		return
	}
	if sess.roomId != "" && sess.roomId != m.RoomId {
		s.leaveRoom(sess)
	}

	r := s.rooms.GetOrCreate(m.RoomId, func(roomId string) *Room {
		log.Infof("room %v created", roomId)
		return NewRoom(roomId, s.conf, s.chips, s.onRoomEmpty)
	})
	sess.roomId = m.RoomId
	r.Do(func() {
		r.Join(sess)
	})
}

func (s *Server) handleLeaveRoom(sess *Session, m *msg.ClientMessage) {
	if m.RoomId != "" && m.RoomId != sess.roomId {
		sess.SendError(msg.ErrRoomNotFound)
		return
	}
	s.leaveRoom(sess)
}

func (s *Server) leaveRoom(sess *Session) {
	if sess.roomId == "" {
		return
	}
	r := s.rooms.Find(sess.roomId)
	sess.roomId = ""
	if r != nil {
		r.Do(func() {
			r.Leave(sess)
		})
	}
}

func (s *Server) handleGameAction(sess *Session, m *msg.ClientMessage) {
	roomId := m.RoomId
	if roomId == "" {
		roomId = sess.roomId
	}
	if roomId == "" {
		sess.SendError(msg.ErrRoomNotFound)
		return
	}
	r := s.rooms.Find(roomId)
	if r == nil {
		sess.SendError(msg.ErrRoomNotFound)
		return
	}
	action, amount := m.Action, m.Amount
	r.Do(func() {
		r.Action(sess, action, amount)
	})
}
