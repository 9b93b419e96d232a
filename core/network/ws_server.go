package network

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/tiaotiao0823/Poker/core/auth"
	log "github.com/tiaotiao0823/Poker/core/log"
)

const DefaultHeartbeatSec = 30

type FuncOnConnPacket func(*WSConn, []byte)
type FuncOnConnEnable func(*WSConn, bool)

type WSServerOptions struct {
	ListenAddr       string
	HeatbeatInterval time.Duration

	OnConnPacket FuncOnConnPacket
	OnConnEnable FuncOnConnEnable
	OnConnAuth   auth.TokenAuthFunc
}

func NewWSServer(opts WSServerOptions) (*WSServer, error) {
	ret := &WSServer{
		opts:    opts,
		sockets: make(map[string]*WSConn),
		die:     make(chan bool),
	}
	if ret.opts.HeatbeatInterval < time.Duration(DefaultHeartbeatSec)*time.Second {
		ret.opts.HeatbeatInterval = time.Duration(DefaultHeartbeatSec) * time.Second
	}
	h := &http.ServeMux{}
	h.HandleFunc("/", ret.ServeHTTP)
	ln, err := net.Listen("tcp", ret.opts.ListenAddr)
	if err != nil {
		return nil, err
	}
	ret.listener = ln
	ret.addr = ln.Addr()
	ret.httpsvr = &http.Server{Addr: ret.addr.String(), Handler: h}
	ret.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	return ret, nil
}

type WSServer struct {
	opts     WSServerOptions
	mu       sync.RWMutex
	sockets  map[string]*WSConn
	die      chan bool
	httpsvr  *http.Server
	upgrader ws.Upgrader

	listener net.Listener
	addr     net.Addr
}

func (s *WSServer) Start() error {
	go func() {
		if err := s.httpsvr.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			log.Errorf("ws serve err: %v", err)
		}
	}()
	return nil
}

func (s *WSServer) Stop() error {
	select {
	case <-s.die:
		return nil
	default:
		close(s.die)
	}
	s.httpsvr.Close()
	return nil
}

// token is taken from the query string or the Authorization bearer header.
func tokenFromRequest(r *http.Request) string {
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var uinfo *auth.UserInfo
	if s.opts.OnConnAuth != nil {
		var err error
		uinfo, err = s.opts.OnConnAuth(tokenFromRequest(r))
		if err != nil {
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}
	}

	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	conn := newWSConn(GenConnID(), uinfo, c, s.opts.HeatbeatInterval*2)
	conn.status = Connected
	defer conn.Close()

	s.storeConn(conn)
	defer s.removeConn(conn)

	// the connection is established here
	if s.opts.OnConnEnable != nil {
		s.opts.OnConnEnable(conn, true)
		defer s.opts.OnConnEnable(conn, false)
	}

	go func() {
		defer conn.Close()
		if err := conn.writeWork(); err != nil {
			log.Debugf("conn %v write stopped: %v", conn.ConnID(), err)
		}
	}()

	go func() {
		defer conn.Close()
		if err := conn.readWork(); err != nil && err != io.EOF {
			log.Debugf("conn %v read stopped: %v", conn.ConnID(), err)
		}
	}()

	for {
		select {
		case <-conn.chClosed:
			return
		case <-s.die:
			conn.Close()
			return
		case body, ok := <-conn.chRead:
			if !ok {
				return
			}
			if s.opts.OnConnPacket != nil {
				s.opts.OnConnPacket(conn, body)
			}
		}
	}
}

func (s *WSServer) storeConn(c *WSConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets[c.ConnID()] = c
}

func (s *WSServer) removeConn(c *WSConn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sockets, c.ConnID())
}

func (s *WSServer) Address() string {
	return s.addr.String()
}

func (s *WSServer) SocketCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sockets)
}
