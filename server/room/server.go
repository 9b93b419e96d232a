// Package room hosts the multi-table poker node: the websocket entry
// point, the room registry and the per-room game loops.
package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/tiaotiao0823/Poker/core/auth"
	log "github.com/tiaotiao0823/Poker/core/log"
	"github.com/tiaotiao0823/Poker/core/network"
	"github.com/tiaotiao0823/Poker/ledger"
)

func NodeName() string {
	return "poker"
}

type Server struct {
	conf  *Config
	chips ledger.Ledger
	rooms *RoomStore
	ws    *network.WSServer

	mu       sync.Mutex
	sessions map[string]*Session // conn id -> session
}

func NewServer(conf *Config) (*Server, error) {
	if conf == nil {
		conf = DefaultConf
	}

	chips, err := newLedger(conf)
	if err != nil {
		return nil, err
	}

	s := &Server{
		conf:     conf,
		chips:    chips,
		rooms:    NewRoomStore(),
		sessions: make(map[string]*Session),
	}

	s.ws, err = network.NewWSServer(network.WSServerOptions{
		ListenAddr:       conf.WsListenAddr,
		HeatbeatInterval: 30 * time.Second,
		OnConnAuth:       auth.HmacTokenAuth([]byte(conf.TokenSecret)),
		OnConnPacket:     s.OnConnPacket,
		OnConnEnable:     s.OnConnEnable,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newLedger(conf *Config) (ledger.Ledger, error) {
	switch conf.LedgerBackend {
	case "", "memory":
		return ledger.NewMemory(), nil
	case "redis":
		return ledger.NewRedis(conf.RedisDSN)
	case "mysql":
		return ledger.NewMySQL(conf.MysqlDSN)
	}
	return nil, fmt.Errorf("unknown ledger backend %q", conf.LedgerBackend)
}

func (s *Server) Start() error {
	if err := s.ws.Start(); err != nil {
		return err
	}
	log.Infof("%v node listening on %v", NodeName(), s.ws.Address())
	return nil
}

func (s *Server) Stop() error {
	for _, id := range s.rooms.RoomIds() {
		s.rooms.Remove(id)
	}
	return s.ws.Stop()
}

func (s *Server) RoomCount() int {
	return s.rooms.Size()
}

func (s *Server) OnConnEnable(conn *network.WSConn, enable bool) {
	if enable {
		sess := NewSession(conn)
		s.mu.Lock()
		s.sessions[conn.ConnID()] = sess
		s.mu.Unlock()
		log.Debugf("conn %v online, user %v", conn.ConnID(), conn.UserID())
		return
	}

	s.mu.Lock()
	sess := s.sessions[conn.ConnID()]
	delete(s.sessions, conn.ConnID())
	s.mu.Unlock()
	log.Debugf("conn %v offline", conn.ConnID())

	if sess == nil || sess.roomId == "" {
		return
	}
	if r := s.rooms.Find(sess.roomId); r != nil {
		r.Do(func() {
			r.Disconnect(sess)
		})
	}
}

func (s *Server) session(connId string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[connId]
}

func (s *Server) onRoomEmpty(roomId string) {
	log.Infof("room %v is empty, tearing down", roomId)
	s.rooms.Remove(roomId)
}
