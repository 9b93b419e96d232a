package room

import (
	log "github.com/tiaotiao0823/Poker/core/log"
	"github.com/tiaotiao0823/Poker/msg"
)

// Broadcaster is the per-room subscriber set. Delivery to a dead or slow
// subscriber drops that subscriber; it is never retried or awaited.
// Access is confined to the owning room's goroutine.
type Broadcaster struct {
	roomId string
	subs   map[string]*Session // conn id -> session
}

func NewBroadcaster(roomId string) *Broadcaster {
	return &Broadcaster{
		roomId: roomId,
		subs:   make(map[string]*Session),
	}
}

func (b *Broadcaster) Add(s *Session) {
	b.subs[s.ConnID()] = s
}

func (b *Broadcaster) Remove(connId string) {
	delete(b.subs, connId)
}

func (b *Broadcaster) Count() int {
	return len(b.subs)
}

// Broadcast sends the same message to every subscriber.
func (b *Broadcaster) Broadcast(m *msg.ServerMessage) {
	for _, s := range b.subs {
		b.deliver(s, m)
	}
}

// BroadcastEach sends a per-subscriber message, so private fields like
// hole cards only reach their owner.
func (b *Broadcaster) BroadcastEach(build func(s *Session) *msg.ServerMessage) {
	for _, s := range b.subs {
		b.deliver(s, build(s))
	}
}

func (b *Broadcaster) deliver(s *Session, m *msg.ServerMessage) {
	if m == nil {
		return
	}
	if err := s.Send(m); err != nil {
		log.Warnf("room %v drop subscriber %v: %v", b.roomId, s.ConnID(), err)
		delete(b.subs, s.ConnID())
	}
}
