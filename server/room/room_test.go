package room

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tiaotiao0823/Poker/game/holdem"
	"github.com/tiaotiao0823/Poker/ledger"
	"github.com/tiaotiao0823/Poker/msg"
)

type stubConn struct {
	id   string
	uid  string
	fail bool

	mu   sync.Mutex
	sent [][]byte
}

func (c *stubConn) ConnID() string { return c.id }
func (c *stubConn) UserID() string { return c.uid }

func (c *stubConn) Send(body []byte) error {
	if c.fail {
		return errors.New("send buffer full")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, body)
	return nil
}

func (c *stubConn) messages() []*msg.ServerMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	ret := make([]*msg.ServerMessage, 0, len(c.sent))
	for _, body := range c.sent {
		m := &msg.ServerMessage{}
		if err := json.Unmarshal(body, m); err != nil {
			panic(err)
		}
		ret = append(ret, m)
	}
	return ret
}

func (c *stubConn) lastOfType(mt string) *msg.ServerMessage {
	var ret *msg.ServerMessage
	for _, m := range c.messages() {
		if m.Type == mt {
			ret = m
		}
	}
	return ret
}

func testConf() *Config {
	return &Config{
		SmallBlind:     5,
		BigBlind:       10,
		BuyIn:          100,
		TurnTimeoutSec: 0,
		StartDelaySec:  0,
	}
}

// flush waits until the room goroutine has drained everything queued
// before it.
func flush(r *Room) {
	done := make(chan struct{})
	r.Do(func() { close(done) })
	<-done
}

func TestRoomStoreLifecycle(t *testing.T) {
	store := NewRoomStore()
	conf := testConf()
	chips := ledger.NewMemory()

	create := func(id string) *Room {
		return NewRoom(id, conf, chips, nil)
	}

	r1 := store.GetOrCreate("alpha", create)
	r2 := store.GetOrCreate("alpha", create)
	if r1 != r2 {
		t.Fatal("GetOrCreate created a second room for the same id")
	}
	store.GetOrCreate("beta", create)

	if store.Size() != 2 {
		t.Fatalf("size = %d, want 2", store.Size())
	}
	if got := store.RoomIds(); len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("ids = %v", got)
	}
	if store.Find("alpha") != r1 {
		t.Fatal("Find missed an existing room")
	}
	if store.Find("missing") != nil {
		t.Fatal("Find returned a room for an unknown id")
	}

	store.Remove("alpha")
	if store.Find("alpha") != nil {
		t.Fatal("room still registered after Remove")
	}
	if store.Size() != 1 {
		t.Fatalf("size = %d after remove, want 1", store.Size())
	}
	store.Remove("beta")
}

func TestBroadcasterDropsDeadSubscriber(t *testing.T) {
	b := NewBroadcaster("r1")
	alive := &stubConn{id: "c1", uid: "u1"}
	dead := &stubConn{id: "c2", uid: "u2", fail: true}
	b.Add(NewSession(alive))
	b.Add(NewSession(dead))

	b.Broadcast(&msg.ServerMessage{Type: msg.MsgType_PlayerJoined, UserId: "u3"})

	if b.Count() != 1 {
		t.Fatalf("count = %d, want the dead subscriber dropped", b.Count())
	}
	if got := len(alive.messages()); got != 1 {
		t.Fatalf("alive got %d messages, want 1", got)
	}

	// a later broadcast must not reach the dropped connection
	b.Broadcast(&msg.ServerMessage{Type: msg.MsgType_PlayerLeft, UserId: "u3"})
	if got := len(alive.messages()); got != 2 {
		t.Fatalf("alive got %d messages, want 2", got)
	}
}

func TestBroadcastEachPersonalizes(t *testing.T) {
	b := NewBroadcaster("r1")
	c1 := &stubConn{id: "c1", uid: "u1"}
	c2 := &stubConn{id: "c2", uid: "u2"}
	b.Add(NewSession(c1))
	b.Add(NewSession(c2))

	b.BroadcastEach(func(s *Session) *msg.ServerMessage {
		return &msg.ServerMessage{Type: msg.MsgType_GameStateUpdate, UserId: s.UserID()}
	})

	if got := c1.messages()[0].UserId; got != "u1" {
		t.Fatalf("c1 saw %q, want u1", got)
	}
	if got := c2.messages()[0].UserId; got != "u2" {
		t.Fatalf("c2 saw %q, want u2", got)
	}
}

func TestRoomJoinSeatsAndDebits(t *testing.T) {
	conf := testConf()
	chips := ledger.NewMemory()
	r := NewRoom("r1", conf, chips, nil)
	defer r.Close()

	conn := &stubConn{id: "c1", uid: "u1"}
	s := NewSession(conn)
	r.Do(func() { r.Join(s) })
	flush(r)

	bal, err := chips.Balance(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if bal != ledger.DefaultStartingChips-conf.BuyIn {
		t.Fatalf("balance = %d, want %d", bal, ledger.DefaultStartingChips-conf.BuyIn)
	}
	if conn.lastOfType(msg.MsgType_PlayerJoined) == nil {
		t.Fatal("no player_joined broadcast")
	}
	state := conn.lastOfType(msg.MsgType_GameStateUpdate)
	if state == nil || state.State == nil {
		t.Fatal("no state update after join")
	}
	if len(state.State.Players) != 1 || state.State.Players[0].Chips != conf.BuyIn {
		t.Fatalf("players = %+v", state.State.Players)
	}

	// rejoin on a new connection is a re-subscribe, not a second buy-in
	conn2 := &stubConn{id: "c2", uid: "u1"}
	r.Do(func() { r.Join(NewSession(conn2)) })
	flush(r)
	bal, _ = chips.Balance(context.Background(), "u1")
	if bal != ledger.DefaultStartingChips-conf.BuyIn {
		t.Fatalf("balance = %d after rejoin, want unchanged", bal)
	}
}

func TestRoomJoinRejectedWhenBroke(t *testing.T) {
	conf := testConf()
	conf.BuyIn = ledger.DefaultStartingChips + 1
	chips := ledger.NewMemory()
	r := NewRoom("r1", conf, chips, nil)
	defer r.Close()

	conn := &stubConn{id: "c1", uid: "u1"}
	r.Do(func() { r.Join(NewSession(conn)) })
	flush(r)

	em := conn.lastOfType(msg.MsgType_Error)
	if em == nil || em.Error == nil || em.Error.Code != msg.Code_InsufficientChips {
		t.Fatalf("error message = %+v, want insufficient chips", em)
	}
	bal, _ := chips.Balance(context.Background(), "u1")
	if bal != ledger.DefaultStartingChips {
		t.Fatalf("balance = %d, want untouched", bal)
	}
}

func TestRoomHandStartsAndPlaysOut(t *testing.T) {
	conf := testConf()
	chips := ledger.NewMemory()
	r := NewRoom("r1", conf, chips, nil)
	defer r.Close()

	c1 := &stubConn{id: "c1", uid: "u1"}
	c2 := &stubConn{id: "c2", uid: "u2"}
	s1 := NewSession(c1)
	s2 := NewSession(c2)
	r.Do(func() { r.Join(s1) })
	r.Do(func() { r.Join(s2) })

	deadline := time.Now().Add(2 * time.Second)
	for {
		flush(r)
		state := c1.lastOfType(msg.MsgType_GameStateUpdate)
		if state != nil && state.State != nil && state.State.Phase == "preflop" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("hand never started")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// each viewer sees their own hole cards and nobody else's
	st1 := c1.lastOfType(msg.MsgType_GameStateUpdate).State
	for _, p := range st1.Players {
		switch p.UserId {
		case "u1":
			if len(p.HoleCards) != 2 {
				t.Fatalf("u1 sees %d own cards", len(p.HoleCards))
			}
		default:
			if len(p.HoleCards) != 0 {
				t.Fatalf("u1 sees %v for %v", p.HoleCards, p.UserId)
			}
		}
	}

	// whoever holds the action folds; heads-up that ends the hand
	acting := st1.ActingSeat
	var actor *Session
	for _, p := range st1.Players {
		if p.Seat == acting {
			if p.UserId == "u1" {
				actor = s1
			} else {
				actor = s2
			}
		}
	}
	if actor == nil {
		t.Fatalf("no acting player in %+v", st1)
	}
	r.Do(func() { r.Action(actor, msg.Action_Fold, 0) })
	flush(r)

	// the next hand may already be dealing, so scan for the ended state
	// rather than looking at the latest one
	var ended *msg.GameState
	for _, m := range c2.messages() {
		if m.Type == msg.MsgType_GameStateUpdate && m.State != nil && m.State.Phase == "ended" {
			ended = m.State
		}
	}
	if ended == nil {
		t.Fatal("no ended state broadcast after the fold")
	}
	if len(ended.Winners) != 1 {
		t.Fatalf("winners = %+v", ended.Winners)
	}
}

func TestRoomLeaveRefundsStack(t *testing.T) {
	conf := testConf()
	chips := ledger.NewMemory()
	emptied := make(chan string, 1)
	r := NewRoom("r1", conf, chips, func(id string) { emptied <- id })
	defer r.Close()

	conn := &stubConn{id: "c1", uid: "u1"}
	s := NewSession(conn)
	r.Do(func() { r.Join(s) })
	r.Do(func() { r.Leave(s) })
	flush(r)

	bal, _ := chips.Balance(context.Background(), "u1")
	if bal != ledger.DefaultStartingChips {
		t.Fatalf("balance = %d after leave, want full refund", bal)
	}
	select {
	case id := <-emptied:
		if id != "r1" {
			t.Fatalf("onEmpty got %q", id)
		}
	default:
		t.Fatal("empty room not reported")
	}
}

func TestRoomActionRejectionLeavesTableAlone(t *testing.T) {
	conf := testConf()
	chips := ledger.NewMemory()
	r := NewRoom("r1", conf, chips, nil)
	defer r.Close()

	conn := &stubConn{id: "c1", uid: "u1"}
	s := NewSession(conn)
	r.Do(func() { r.Join(s) })
	r.Do(func() { r.Action(s, "sing", 0) })
	flush(r)

	em := conn.lastOfType(msg.MsgType_Error)
	if em == nil || em.Error == nil || em.Error.Code != msg.Code_InvalidAction {
		t.Fatalf("error = %+v, want invalid action", em)
	}
	var phase holdem.Phase
	r.Do(func() { phase = r.table.Phase() })
	flush(r)
	if phase != holdem.Phase_Waiting {
		t.Fatalf("phase = %v, want waiting", phase)
	}
}
