package poker

type HandCategory uint8

const (
	HighCard HandCategory = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

var categoryNames = map[HandCategory]string{
	HighCard:      "high card",
	Pair:          "pair",
	TwoPair:       "two pair",
	ThreeOfAKind:  "three of a kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full house",
	FourOfAKind:   "four of a kind",
	StraightFlush: "straight flush",
}

func (c HandCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// HandRank is a totally ordered hand strength: the category in the high
// bits, then up to five 4-bit tie-break ranks in descending significance.
// Two hands split a pot exactly when their HandRanks are equal.
type HandRank uint32

func (r HandRank) Category() HandCategory {
	return HandCategory(r >> 20)
}

func (r HandRank) String() string {
	return r.Category().String()
}

func pack(cat HandCategory, keys ...Rank) HandRank {
	v := uint32(cat) << 20
	shift := 16
	for _, k := range keys {
		v |= uint32(k) << shift
		shift -= 4
	}
	return HandRank(v)
}

// Evaluate returns the strength of the best 5-card hand among the given
// 5 to 7 cards. It is pure: no table state, no randomness.
func Evaluate(cards []Card) HandRank {
	n := len(cards)
	if n < 5 {
		return 0
	}
	var best HandRank
	for i := 0; i < n-4; i++ {
		for j := i + 1; j < n-3; j++ {
			for k := j + 1; k < n-2; k++ {
				for l := k + 1; l < n-1; l++ {
					for m := l + 1; m < n; m++ {
						r := rank5([5]Card{cards[i], cards[j], cards[k], cards[l], cards[m]})
						if r > best {
							best = r
						}
					}
				}
			}
		}
	}
	return best
}

func rank5(hand [5]Card) HandRank {
	flush := true
	for i := 1; i < 5; i++ {
		if hand[i].Suit != hand[0].Suit {
			flush = false
			break
		}
	}

	var count [15]uint8
	for _, c := range hand {
		count[c.Rank]++
	}

	// distinct ranks, descending
	distinct := make([]Rank, 0, 5)
	for r := Ace; r >= Two; r-- {
		if count[r] > 0 {
			distinct = append(distinct, r)
		}
	}

	straightHigh := Rank(0)
	if len(distinct) == 5 {
		if distinct[0]-distinct[4] == 4 {
			straightHigh = distinct[0]
		} else if distinct[0] == Ace && distinct[1] == Five {
			// wheel: A-2-3-4-5 plays as a five-high straight
			straightHigh = Five
		}
	}

	if flush && straightHigh != 0 {
		return pack(StraightFlush, straightHigh)
	}

	var quad, trips, kicker Rank
	pairs := make([]Rank, 0, 2)
	singles := make([]Rank, 0, 5)
	for _, r := range distinct {
		switch count[r] {
		case 4:
			quad = r
		case 3:
			trips = r
		case 2:
			pairs = append(pairs, r)
		case 1:
			singles = append(singles, r)
		}
	}

	switch {
	case quad != 0:
		kicker = singles[0]
		return pack(FourOfAKind, quad, kicker)
	case trips != 0 && len(pairs) == 1:
		return pack(FullHouse, trips, pairs[0])
	case flush:
		return pack(Flush, distinct[0], distinct[1], distinct[2], distinct[3], distinct[4])
	case straightHigh != 0:
		return pack(Straight, straightHigh)
	case trips != 0:
		return pack(ThreeOfAKind, trips, singles[0], singles[1])
	case len(pairs) == 2:
		return pack(TwoPair, pairs[0], pairs[1], singles[0])
	case len(pairs) == 1:
		return pack(Pair, pairs[0], singles[0], singles[1], singles[2])
	}
	return pack(HighCard, distinct[0], distinct[1], distinct[2], distinct[3], distinct[4])
}
