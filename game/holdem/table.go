// Package holdem implements the Texas Hold'em betting engine: a single
// table's state machine from blinds through showdown, including all-ins
// and side pots. A Table is not safe for concurrent use; the room layer
// serializes every call onto one goroutine.
package holdem

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tiaotiao0823/Poker/game/poker"
	"github.com/tiaotiao0823/Poker/msg"
)

const MaxSeats = 9

const (
	DefaultSmallBlind = 5
	DefaultBigBlind   = 10
)

type Phase int32

const (
	Phase_Waiting Phase = iota
	Phase_Preflop
	Phase_Flop
	Phase_Turn
	Phase_River
	Phase_Showdown
	Phase_Ended
)

func (p Phase) String() string {
	switch p {
	case Phase_Waiting:
		return "waiting"
	case Phase_Preflop:
		return "preflop"
	case Phase_Flop:
		return "flop"
	case Phase_Turn:
		return "turn"
	case Phase_River:
		return "river"
	case Phase_Showdown:
		return "showdown"
	case Phase_Ended:
		return "ended"
	}
	return "unknown"
}

func (p Phase) Betting() bool {
	return p >= Phase_Preflop && p <= Phase_River
}

type Action int32

const (
	Action_Fold Action = iota
	Action_Call
	Action_Raise
)

type Options struct {
	SmallBlind int64
	BigBlind   int64

	// SeedFn supplies the shuffle seed for each hand. Defaults to the
	// system entropy source; tests install a fixed seed.
	SeedFn func() (int64, error)
}

type Table struct {
	opts Options

	seats  [MaxSeats]*Player
	dealer int

	phase      Phase
	handID     string
	deck       *poker.Deck
	community  []poker.Card
	currentBet int64
	acting     int

	// departed keeps the contributions of players removed mid-hand so
	// pot totals stay conserved.
	departed []*Player

	startChips int64
	winners    []Winner
	revealed   bool
	abortErr   error
}

func NewTable(opts Options) *Table {
	if opts.SmallBlind <= 0 {
		opts.SmallBlind = DefaultSmallBlind
	}
	if opts.BigBlind <= opts.SmallBlind {
		opts.BigBlind = DefaultBigBlind
	}
	if opts.SeedFn == nil {
		opts.SeedFn = poker.NewSeed
	}
	return &Table{
		opts:   opts,
		dealer: -1,
		acting: -1,
		phase:  Phase_Waiting,
	}
}

func (t *Table) Phase() Phase        { return t.phase }
func (t *Table) HandID() string      { return t.handID }
func (t *Table) CurrentBet() int64   { return t.currentBet }
func (t *Table) Dealer() int         { return t.dealer }
func (t *Table) ActingSeat() int     { return t.acting }
func (t *Table) SmallBlind() int64   { return t.opts.SmallBlind }
func (t *Table) BigBlind() int64     { return t.opts.BigBlind }
func (t *Table) Winners() []Winner   { return t.winners }
func (t *Table) Revealed() bool      { return t.revealed }
func (t *Table) AbortErr() error     { return t.abortErr }

func (t *Table) Community() []poker.Card {
	out := make([]poker.Card, len(t.community))
	copy(out, t.community)
	return out
}

// Players returns the occupied seats in seat order.
func (t *Table) Players() []*Player {
	ret := make([]*Player, 0, MaxSeats)
	for _, p := range t.seats {
		if p != nil {
			ret = append(ret, p)
		}
	}
	return ret
}

func (t *Table) PlayerCount() int {
	return len(t.Players())
}

func (t *Table) PlayerByUser(userID string) *Player {
	for _, p := range t.seats {
		if p != nil && p.UserID == userID {
			return p
		}
	}
	return nil
}

// Pots returns the current pot strata. Outside a hand it is empty.
func (t *Table) Pots() []Pot {
	return t.buildPots()
}

// TotalChips is the conservation sum: stacks plus everything contributed
// to the hand so far.
func (t *Table) TotalChips() int64 {
	var sum int64
	for _, p := range t.seats {
		if p != nil {
			sum += p.Chips + p.HandBet
		}
	}
	for _, p := range t.departed {
		sum += p.HandBet
	}
	return sum
}

// AddPlayer seats a new player with the given stack at the first free
// seat. Joining mid-hand leaves the player sitting out until the next
// deal.
func (t *Table) AddPlayer(userID string, chips int64) (int, error) {
	if t.PlayerByUser(userID) != nil {
		return -1, msg.ErrDuplicateSeat
	}
	for seat := 0; seat < MaxSeats; seat++ {
		if t.seats[seat] != nil {
			continue
		}
		t.seats[seat] = &Player{
			UserID: userID,
			Seat:   seat,
			Chips:  chips,
			Status: Status_SittingOut,
		}
		t.startChips += chips
		return seat, nil
	}
	return -1, msg.ErrRoomFull
}

// RemovePlayer frees the player's seat, folding them first if a hand is
// running. The returned player carries the stack to refund; chips already
// bet this hand stay in the pot.
func (t *Table) RemovePlayer(userID string) (*Player, error) {
	p := t.PlayerByUser(userID)
	if p == nil {
		return nil, msg.ErrNotSeated
	}
	if t.phase.Betting() {
		wasActing := t.acting == p.Seat
		stillIn := p.InHand()
		if stillIn {
			t.applyFold(p)
		}
		if p.HandBet > 0 || stillIn {
			// the seat frees up but the chips already bet stay in play
			t.departed = append(t.departed, p)
		}
		t.seats[p.Seat] = nil
		t.startChips -= p.Chips
		if wasActing || t.inHandCount() <= 1 || t.roundComplete() {
			t.afterAction(p.Seat)
		}
		return p, nil
	}
	t.seats[p.Seat] = nil
	t.startChips -= p.Chips
	return p, nil
}

// ForceFold folds a seat out of turn (disconnect, action timeout). The
// hand continues uninterrupted for the remaining players.
func (t *Table) ForceFold(userID string) error {
	p := t.PlayerByUser(userID)
	if p == nil {
		return msg.ErrNotSeated
	}
	if !t.phase.Betting() || !p.CanAct() {
		return nil
	}
	wasActing := t.acting == p.Seat
	t.applyFold(p)
	if wasActing || t.inHandCount() <= 1 || t.roundComplete() {
		t.afterAction(p.Seat)
	}
	return nil
}

// CanStart reports whether a fresh hand may be dealt.
func (t *Table) CanStart() bool {
	if t.phase != Phase_Waiting && t.phase != Phase_Ended {
		return false
	}
	return t.eligibleCount() >= 2
}

func (t *Table) eligibleCount() int {
	n := 0
	for _, p := range t.seats {
		if p != nil && p.Chips > 0 {
			n++
		}
	}
	return n
}

// StartHand shuffles a fresh deck, deals hole cards, posts the blinds and
// opens the preflop round.
func (t *Table) StartHand() error {
	if t.phase != Phase_Waiting && t.phase != Phase_Ended {
		return msg.InvalidActionf("hand already running")
	}
	if t.eligibleCount() < 2 {
		return msg.ErrInsufficientPlayers
	}

	seed, err := t.opts.SeedFn()
	if err != nil {
		return fmt.Errorf("deck seed: %w", err)
	}
	t.deck = poker.NewDeck(seed)
	t.handID = uuid.NewString()
	t.community = t.community[:0]
	t.departed = nil
	t.winners = nil
	t.revealed = false
	t.abortErr = nil
	t.currentBet = 0

	t.startChips = 0
	for _, p := range t.seats {
		if p == nil {
			continue
		}
		t.startChips += p.Chips
		p.RoundBet = 0
		p.HandBet = 0
		p.acted = false
		p.HoleCards = nil
		if p.Chips > 0 {
			p.Status = Status_Active
		} else {
			p.Status = Status_SittingOut
		}
	}

	t.dealer = t.nextEligibleFrom(t.dealer + 1)
	t.phase = Phase_Preflop

	for _, seat := range t.seatsFrom(t.dealer + 1) {
		p := t.seats[seat]
		if p.Status != Status_Active {
			continue
		}
		c1, err1 := t.deck.Draw()
		c2, err2 := t.deck.Draw()
		if err1 != nil || err2 != nil {
			t.abortHand(msg.ErrEmptyDeck)
			return msg.ErrEmptyDeck
		}
		p.HoleCards = []poker.Card{c1, c2}
	}

	// blinds come from the two seats after the dealer; a short stack
	// posts all-in for less.
	order := t.activeFrom(t.dealer + 1)
	sb := t.seats[order[0]]
	bb := t.seats[order[1%len(order)]]
	sb.pay(t.opts.SmallBlind)
	bb.pay(t.opts.BigBlind)
	t.currentBet = t.opts.BigBlind

	t.afterAction(bb.Seat)
	return nil
}

// HandleAction validates and applies one player action. A rejected action
// mutates nothing.
func (t *Table) HandleAction(userID string, act Action, amount int64) error {
	if !t.phase.Betting() {
		return msg.InvalidActionf("no betting round in progress")
	}
	p := t.PlayerByUser(userID)
	if p == nil {
		return msg.ErrNotSeated
	}
	if !p.CanAct() {
		return msg.InvalidActionf("player cannot act")
	}
	if p.Seat != t.acting {
		return msg.InvalidActionf("not your turn")
	}

	switch act {
	case Action_Fold:
		t.applyFold(p)
	case Action_Call:
		// a short call converts to all-in instead of being rejected
		p.pay(t.currentBet - p.RoundBet)
		p.acted = true
	case Action_Raise:
		if amount <= t.currentBet {
			return msg.InvalidActionf("raise to %d must exceed current bet %d", amount, t.currentBet)
		}
		delta := amount - p.RoundBet
		if delta > p.Chips {
			return msg.InvalidActionf("raise to %d exceeds stack", amount)
		}
		p.pay(delta)
		t.currentBet = amount
		// a raise re-opens the action for everyone else
		for _, other := range t.seats {
			if other != nil && other != p && other.CanAct() {
				other.acted = false
			}
		}
		p.acted = true
	default:
		return msg.InvalidActionf("unknown action")
	}

	t.afterAction(p.Seat)
	return nil
}

func (t *Table) applyFold(p *Player) {
	p.Status = Status_Folded
	p.acted = true
	p.HoleCards = nil
}

// afterAction advances the acting seat, the street, or the hand itself,
// depending on what the last action completed.
func (t *Table) afterAction(from int) {
	if t.inHandCount() <= 1 {
		t.finishEarly()
		return
	}
	advanced := false
	for t.roundComplete() {
		if t.phase == Phase_River {
			t.showdown()
			return
		}
		if err := t.nextStreet(); err != nil {
			t.abortHand(err)
			return
		}
		advanced = true
	}
	if !advanced {
		t.acting = t.nextActorFrom(from + 1)
	}
}

// roundComplete reports whether the current betting round is settled:
// every player who can still act has matched the current bet and acted
// since the round opened (or since the last raise).
func (t *Table) roundComplete() bool {
	actors := 0
	pending := 0
	for _, p := range t.seats {
		if p == nil || !p.CanAct() {
			continue
		}
		if p.RoundBet != t.currentBet {
			return false
		}
		actors++
		if !p.acted {
			pending++
		}
	}
	if actors <= 1 {
		// no live betting possible against all-ins
		return true
	}
	return pending == 0
}

func (t *Table) nextStreet() error {
	for _, p := range t.seats {
		if p != nil {
			p.RoundBet = 0
			p.acted = false
		}
	}
	t.currentBet = 0

	var deal int
	switch t.phase {
	case Phase_Preflop:
		t.phase = Phase_Flop
		deal = 3
	case Phase_Flop:
		t.phase = Phase_Turn
		deal = 1
	case Phase_Turn:
		t.phase = Phase_River
		deal = 1
	}
	for i := 0; i < deal; i++ {
		c, err := t.deck.Draw()
		if err != nil {
			return msg.ErrEmptyDeck
		}
		t.community = append(t.community, c)
	}
	t.acting = t.nextActorFrom(t.dealer + 1)
	return nil
}

// finishEarly awards everything to the last player still holding cards,
// without a reveal.
func (t *Table) finishEarly() {
	var last *Player
	for _, p := range t.seats {
		if p != nil && p.InHand() {
			last = p
			break
		}
	}
	if last == nil {
		t.abortHand(msg.InvalidActionf("no players left in hand"))
		return
	}
	var total int64
	for _, p := range t.Players() {
		total += p.HandBet
	}
	for _, p := range t.departed {
		total += p.HandBet
	}
	last.Chips += total
	t.winners = []Winner{{Seat: last.Seat, UserID: last.UserID, Amount: total}}
	t.endHand()
}

func (t *Table) showdown() {
	t.phase = Phase_Showdown
	t.revealed = true

	ranks := make(map[int]poker.HandRank)
	for _, p := range t.seats {
		if p != nil && p.InHand() {
			ranks[p.Seat] = poker.Evaluate(append(append([]poker.Card{}, p.HoleCards...), t.community...))
		}
	}
	pots := t.buildPots()

	var potTotal, contribTotal int64
	for _, pot := range pots {
		potTotal += pot.Amount
	}
	for _, p := range t.Players() {
		contribTotal += p.HandBet
	}
	for _, p := range t.departed {
		contribTotal += p.HandBet
	}
	if potTotal != contribTotal {
		t.abortHand(fmt.Errorf("pot mismatch: pots %d, contributed %d", potTotal, contribTotal))
		return
	}

	t.winners = t.awardPots(pots, ranks)

	if got := t.sumStacks(); got != t.startChips {
		t.abortHand(fmt.Errorf("chip conservation broken: have %d, started with %d", got, t.startChips))
		return
	}
	t.endHand()
}

func (t *Table) endHand() {
	t.acting = -1
	t.currentBet = 0
	for _, p := range t.seats {
		if p == nil {
			continue
		}
		p.RoundBet = 0
		p.HandBet = 0
		if p.Chips == 0 {
			p.Status = Status_SittingOut
		}
	}
	t.departed = nil
	t.phase = Phase_Ended
}

// abortHand ends the hand without payouts after an invariant violation.
// The table itself stays usable for the next hand.
func (t *Table) abortHand(err error) {
	t.abortErr = err
	t.winners = nil
	t.endHand()
}

func (t *Table) sumStacks() int64 {
	var sum int64
	for _, p := range t.seats {
		if p != nil {
			sum += p.Chips
		}
	}
	return sum
}

func (t *Table) inHandCount() int {
	n := 0
	for _, p := range t.seats {
		if p != nil && p.InHand() {
			n++
		}
	}
	return n
}

// seatsFrom lists the occupied seats clockwise starting at start.
func (t *Table) seatsFrom(start int) []int {
	ret := make([]int, 0, MaxSeats)
	for i := 0; i < MaxSeats; i++ {
		seat := ((start+i)%MaxSeats + MaxSeats) % MaxSeats
		if t.seats[seat] != nil {
			ret = append(ret, seat)
		}
	}
	return ret
}

// activeFrom lists the seats dealt into the current hand, clockwise from
// start.
func (t *Table) activeFrom(start int) []int {
	ret := make([]int, 0, MaxSeats)
	for _, seat := range t.seatsFrom(start) {
		if t.seats[seat].InHand() {
			ret = append(ret, seat)
		}
	}
	return ret
}

func (t *Table) nextActorFrom(start int) int {
	for _, seat := range t.seatsFrom(start) {
		if t.seats[seat].CanAct() {
			return seat
		}
	}
	return -1
}

func (t *Table) nextEligibleFrom(start int) int {
	for _, seat := range t.seatsFrom(start) {
		if t.seats[seat].Chips > 0 {
			return seat
		}
	}
	return -1
}
