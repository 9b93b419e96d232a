package holdem

import (
	"github.com/tiaotiao0823/Poker/game/poker"
)

type PlayerStatus int32

const (
	Status_Active PlayerStatus = iota
	Status_Folded
	Status_AllIn
	Status_SittingOut
)

func (s PlayerStatus) String() string {
	switch s {
	case Status_Active:
		return "active"
	case Status_Folded:
		return "folded"
	case Status_AllIn:
		return "all-in"
	case Status_SittingOut:
		return "sitting-out"
	}
	return "unknown"
}

// Player is one occupied seat. The owning Table is the sole mutator of a
// player's chips while a hand is running.
type Player struct {
	UserID    string
	Seat      int
	Chips     int64
	HoleCards []poker.Card
	Status    PlayerStatus

	// RoundBet is the amount committed in the current betting round,
	// HandBet the total committed this hand. HandBet is what side-pot
	// strata are computed from.
	RoundBet int64
	HandBet  int64

	// acted reports whether the player has acted since the round opened
	// or since the last raise re-opened the action.
	acted bool
}

// InHand reports whether the player still holds cards this hand.
func (p *Player) InHand() bool {
	return p.Status == Status_Active || p.Status == Status_AllIn
}

// CanAct reports whether the player may still take betting actions.
func (p *Player) CanAct() bool {
	return p.Status == Status_Active
}

// pay moves up to amount from the stack into the player's bets and
// returns what was actually paid. Paying the whole stack puts the player
// all-in.
func (p *Player) pay(amount int64) int64 {
	if amount > p.Chips {
		amount = p.Chips
	}
	p.Chips -= amount
	p.RoundBet += amount
	p.HandBet += amount
	if p.Chips == 0 && p.Status == Status_Active {
		p.Status = Status_AllIn
	}
	return amount
}
