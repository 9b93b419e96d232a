package holdem

import (
	"sort"

	"github.com/tiaotiao0823/Poker/game/poker"
)

// Pot is one stratum of the chips in play. Eligible lists the seats that
// can win it, in seat order.
type Pot struct {
	Amount   int64
	Eligible []int
}

type Winner struct {
	Seat   int
	UserID string
	Amount int64
	Rank   poker.HandRank
}

// buildPots groups the hand's contributions into strata by distinct
// contribution levels. Adjacent strata with an identical eligible set are
// merged, so folded players' partial bets never create spurious pots.
// Contributions of players removed mid-hand count as dead money.
// Invariant: the pot amounts sum to the total contributed this hand.
func (t *Table) buildPots() []Pot {
	contributors := make([]*Player, 0, MaxSeats)
	for _, p := range t.seats {
		if p != nil && p.HandBet > 0 {
			contributors = append(contributors, p)
		}
	}
	for _, p := range t.departed {
		if p.HandBet > 0 {
			contributors = append(contributors, p)
		}
	}

	levels := make([]int64, 0, len(contributors))
	seen := make(map[int64]bool)
	for _, p := range contributors {
		if !seen[p.HandBet] {
			seen[p.HandBet] = true
			levels = append(levels, p.HandBet)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]Pot, 0, len(levels))
	var prev int64
	var dead int64
	for _, level := range levels {
		pot := Pot{}
		for _, p := range contributors {
			c := p.HandBet
			if c > level {
				c = level
			}
			if c > prev {
				pot.Amount += c - prev
			}
			if p.InHand() && t.seats[p.Seat] == p && p.HandBet >= level {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		prev = level
		if pot.Amount == 0 {
			continue
		}
		if len(pot.Eligible) == 0 {
			// the whole stratum came from players no longer in the hand;
			// roll it into the last pot anyone can win
			dead += pot.Amount
			continue
		}
		pot.Amount += dead
		dead = 0
		if n := len(pots); n > 0 && equalSeats(pots[n-1].Eligible, pot.Eligible) {
			pots[n-1].Amount += pot.Amount
		} else {
			pots = append(pots, pot)
		}
	}
	if dead > 0 && len(pots) > 0 {
		pots[len(pots)-1].Amount += dead
	}
	return pots
}

func equalSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// awardPots pays each pot to its best eligible hand. Ties split the pot
// equally; the integer remainder goes to the earliest eligible winner
// after the dealer.
func (t *Table) awardPots(pots []Pot, ranks map[int]poker.HandRank) []Winner {
	byseat := make(map[int]*Winner)
	var order []int
	for _, pot := range pots {
		var best poker.HandRank
		for _, seat := range pot.Eligible {
			if r := ranks[seat]; r > best {
				best = r
			}
		}
		winners := make([]int, 0, len(pot.Eligible))
		for _, seat := range t.seatsFrom(t.dealer + 1) {
			if ranks[seat] == best && containsSeat(pot.Eligible, seat) {
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			continue
		}
		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))
		for i, seat := range winners {
			amount := share
			if i == 0 {
				amount += remainder
			}
			p := t.seats[seat]
			p.Chips += amount
			w, ok := byseat[seat]
			if !ok {
				w = &Winner{Seat: seat, UserID: p.UserID, Rank: ranks[seat]}
				byseat[seat] = w
				order = append(order, seat)
			}
			w.Amount += amount
		}
	}

	ret := make([]Winner, 0, len(order))
	for _, seat := range order {
		ret = append(ret, *byseat[seat])
	}
	return ret
}

func containsSeat(seats []int, seat int) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}
