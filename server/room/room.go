package room

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	log "github.com/tiaotiao0823/Poker/core/log"
	"github.com/tiaotiao0823/Poker/game/holdem"
	"github.com/tiaotiao0823/Poker/game/poker"
	"github.com/tiaotiao0823/Poker/ledger"
	"github.com/tiaotiao0823/Poker/msg"
)

// Room owns one table and serializes every mutation onto a single
// goroutine draining actQue. Two players acting at once can therefore
// never race on the same table; different rooms run fully in parallel.
type Room struct {
	Id string

	conf    *Config
	chips   ledger.Ledger
	table   *holdem.Table
	subs    *Broadcaster
	onEmpty func(roomId string)

	actQue chan func()
	quit   chan bool

	turnTimer  *time.Timer
	startTimer *time.Timer

	log *logrus.Entry
}

func NewRoom(id string, conf *Config, chips ledger.Ledger, onEmpty func(roomId string)) *Room {
	r := &Room{
		Id:      id,
		conf:    conf,
		chips:   chips,
		onEmpty: onEmpty,
		subs:    NewBroadcaster(id),
		actQue:  make(chan func(), 32),
		quit:    make(chan bool),
		log:     log.WithFields(log.Fields{"room": id}),
	}
	r.table = holdem.NewTable(holdem.Options{
		SmallBlind: conf.SmallBlind,
		BigBlind:   conf.BigBlind,
	})
	go r.work()
	return r
}

func (r *Room) work() {
	safecall := func(f func()) {
		defer func() {
			if err := recover(); err != nil {
				r.log.Errorf("panic in room task: %v", err)
			}
		}()
		f()
	}
	for {
		select {
		case f := <-r.actQue:
			safecall(f)
		case <-r.quit:
			return
		}
	}
}

// Do runs f on the room's goroutine. Calls after Close are dropped.
func (r *Room) Do(f func()) {
	select {
	case <-r.quit:
	case r.actQue <- f:
	}
}

func (r *Room) AfterFunc(td time.Duration, f func()) *time.Timer {
	return time.AfterFunc(td, func() {
		r.Do(f)
	})
}

func (r *Room) Close() {
	select {
	case <-r.quit:
		return
	default:
		close(r.quit)
	}
	if r.turnTimer != nil {
		r.turnTimer.Stop()
	}
	if r.startTimer != nil {
		r.startTimer.Stop()
	}
}

// Join subscribes the connection and seats the user if not already
// seated. A rejoin by a seated user is just a re-subscribe.
func (r *Room) Join(s *Session) {
	r.subs.Add(s)
	uid := s.UserID()

	if r.table.PlayerByUser(uid) == nil {
		if err := r.chips.Debit(context.Background(), uid, r.conf.BuyIn); err != nil {
			r.log.Warnf("buy-in debit failed for %v: %v", uid, err)
			s.SendError(msg.ErrInsufficientChips)
			r.sendStateTo(s)
			return
		}
		if _, err := r.table.AddPlayer(uid, r.conf.BuyIn); err != nil {
			r.chips.Credit(context.Background(), uid, r.conf.BuyIn)
			s.SendError(err)
			r.sendStateTo(s)
			return
		}
		r.log.Infof("player %v seated", uid)
		r.subs.Broadcast(&msg.ServerMessage{
			Type:   msg.MsgType_PlayerJoined,
			RoomId: r.Id,
			UserId: uid,
		})
	}

	r.broadcastState()
	r.scheduleStart()
}

// Leave unseats the user, refunds the remaining stack and unsubscribes
// the connection. Mid-hand the player is folded first; chips already bet
// stay in the pot.
func (r *Room) Leave(s *Session) {
	r.subs.Remove(s.ConnID())
	uid := s.UserID()

	if p, err := r.table.RemovePlayer(uid); err == nil {
		if p.Chips > 0 {
			r.chips.Credit(context.Background(), uid, p.Chips)
		}
		r.log.Infof("player %v left with %v chips", uid, p.Chips)
		r.subs.Broadcast(&msg.ServerMessage{
			Type:   msg.MsgType_PlayerLeft,
			RoomId: r.Id,
			UserId: uid,
		})
		r.afterMutation()
	}
	r.checkEmpty()
}

// Disconnect folds the seat but keeps it, so the user can reconnect and
// play on with the same stack. The running hand is unaffected beyond the
// fold.
func (r *Room) Disconnect(s *Session) {
	r.subs.Remove(s.ConnID())
	if err := r.table.ForceFold(s.UserID()); err == nil {
		r.afterMutation()
	}
	r.checkEmpty()
}

// Action routes one game action into the betting engine. Rejections go
// back to the acting connection only; table state is untouched by them.
func (r *Room) Action(s *Session, action string, amount int64) {
	var kind holdem.Action
	switch action {
	case msg.Action_Fold:
		kind = holdem.Action_Fold
	case msg.Action_Call:
		kind = holdem.Action_Call
	case msg.Action_Raise:
		kind = holdem.Action_Raise
	default:
		s.SendError(msg.InvalidActionf("unknown action %q", action))
		return
	}

	if err := r.table.HandleAction(s.UserID(), kind, amount); err != nil {
		s.SendError(err)
		return
	}
	r.afterMutation()
}

// afterMutation publishes the accepted transition and keeps the table
// moving: diagnostics for aborted hands, the action timer for the next
// player, the start timer for the next hand.
func (r *Room) afterMutation() {
	if err := r.table.AbortErr(); err != nil {
		r.log.Errorf("hand %v aborted: %v", r.table.HandID(), err)
		r.subs.Broadcast(&msg.ServerMessage{
			Type:   msg.MsgType_HandAborted,
			RoomId: r.Id,
			Detail: msg.FromError(err).Detail,
		})
	}
	r.broadcastState()
	r.armTurnTimer()
	if r.table.Phase() == holdem.Phase_Ended {
		r.scheduleStart()
	}
}

func (r *Room) broadcastState() {
	r.subs.BroadcastEach(func(s *Session) *msg.ServerMessage {
		return &msg.ServerMessage{
			Type:   msg.MsgType_GameStateUpdate,
			RoomId: r.Id,
			State:  r.snapshot(s.UserID()),
		}
	})
}

func (r *Room) sendStateTo(s *Session) {
	s.Send(&msg.ServerMessage{
		Type:   msg.MsgType_GameStateUpdate,
		RoomId: r.Id,
		State:  r.snapshot(s.UserID()),
	})
}

// snapshot renders the table for one viewer. Hole cards are included
// only for the viewer's own seat until the showdown reveals them.
func (r *Room) snapshot(forUser string) *msg.GameState {
	t := r.table
	state := &msg.GameState{
		RoomId:         r.Id,
		HandId:         t.HandID(),
		Phase:          t.Phase().String(),
		CommunityCards: cardStrings(t.Community()),
		CurrentBet:     t.CurrentBet(),
		SmallBlind:     t.SmallBlind(),
		BigBlind:       t.BigBlind(),
		DealerSeat:     t.Dealer(),
		ActingSeat:     t.ActingSeat(),
	}
	for _, pot := range t.Pots() {
		ps := msg.PotState{Amount: pot.Amount}
		for _, seat := range pot.Eligible {
			if p := playerAt(t, seat); p != nil {
				ps.Eligible = append(ps.Eligible, p.UserID)
			}
		}
		state.Pots = append(state.Pots, ps)
	}
	for _, p := range t.Players() {
		view := msg.PlayerState{
			UserId: p.UserID,
			Seat:   p.Seat,
			Chips:  p.Chips,
			Bet:    p.RoundBet,
			Status: p.Status.String(),
		}
		if p.UserID == forUser || (t.Revealed() && p.InHand()) {
			view.HoleCards = cardStrings(p.HoleCards)
		}
		state.Players = append(state.Players, view)
	}
	for _, w := range t.Winners() {
		ws := msg.WinnerState{UserId: w.UserID, Amount: w.Amount}
		if t.Revealed() && w.Rank != 0 {
			ws.Hand = w.Rank.String()
		}
		state.Winners = append(state.Winners, ws)
	}
	return state
}

func (r *Room) scheduleStart() {
	if !r.table.CanStart() {
		return
	}
	if r.startTimer != nil {
		r.startTimer.Stop()
	}
	r.startTimer = r.AfterFunc(r.conf.StartDelay(), func() {
		if !r.table.CanStart() {
			return
		}
		if err := r.table.StartHand(); err != nil {
			r.log.Warnf("start hand: %v", err)
			return
		}
		r.log.Infof("hand %v started", r.table.HandID())
		r.afterMutation()
	})
}

// armTurnTimer auto-folds the acting player when they take too long. Any
// accepted action re-arms the timer for the next seat.
func (r *Room) armTurnTimer() {
	if r.turnTimer != nil {
		r.turnTimer.Stop()
		r.turnTimer = nil
	}
	if r.conf.TurnTimeout() <= 0 || !r.table.Phase().Betting() {
		return
	}
	seat := r.table.ActingSeat()
	if seat < 0 {
		return
	}
	p := playerAt(r.table, seat)
	if p == nil {
		return
	}
	handId := r.table.HandID()
	uid := p.UserID
	r.turnTimer = r.AfterFunc(r.conf.TurnTimeout(), func() {
		if r.table.HandID() != handId || r.table.ActingSeat() != seat {
			return
		}
		r.log.Infof("player %v timed out, folding", uid)
		if err := r.table.ForceFold(uid); err == nil {
			r.afterMutation()
		}
	})
}

func (r *Room) checkEmpty() {
	if r.table.PlayerCount() == 0 && r.subs.Count() == 0 && r.onEmpty != nil {
		r.onEmpty(r.Id)
	}
}

func playerAt(t *holdem.Table, seat int) *holdem.Player {
	for _, p := range t.Players() {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

func cardStrings(cards []poker.Card) []string {
	ret := make([]string, 0, len(cards))
	for _, c := range cards {
		ret = append(ret, c.String())
	}
	return ret
}
