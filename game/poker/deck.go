package poker

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"math/rand"
)

var ErrEmptyDeck = errors.New("deck is empty")

const DeckSize = 52

// Deck is an ordered sequence of the 52 canonical cards. It shrinks as
// cards are drawn and is never replenished mid-hand.
type Deck struct {
	cards []Card
}

// NewSeed reads a shuffle seed from the system entropy source.
func NewSeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

// NewDeck builds the 52 canonical cards and shuffles them with a
// Fisher-Yates permutation. A fixed seed yields a fixed order.
func NewDeck(seed int64) *Deck {
	cards := make([]Card, 0, DeckSize)
	for suit := Spade; suit <= Club; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	rng := rand.New(rand.NewSource(seed))
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return &Deck{cards: cards}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, nil
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}
