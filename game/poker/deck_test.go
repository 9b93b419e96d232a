package poker

import "testing"

func TestDeckHas52DistinctCards(t *testing.T) {
	d := NewDeck(1)
	if d.Remaining() != DeckSize {
		t.Fatalf("remaining = %d, want %d", d.Remaining(), DeckSize)
	}

	seen := make(map[Card]bool)
	for i := 0; i < DeckSize; i++ {
		c, err := d.Draw()
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != DeckSize {
		t.Fatalf("drew %d distinct cards, want %d", len(seen), DeckSize)
	}

	if _, err := d.Draw(); err != ErrEmptyDeck {
		t.Fatalf("53rd draw err = %v, want ErrEmptyDeck", err)
	}
}

func TestDeckDeterministicUnderFixedSeed(t *testing.T) {
	a := NewDeck(42)
	b := NewDeck(42)
	for i := 0; i < DeckSize; i++ {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			t.Fatalf("card %d differs: %v vs %v", i, ca, cb)
		}
	}
}

func TestDeckDiffersAcrossSeeds(t *testing.T) {
	a := NewDeck(1)
	b := NewDeck(2)
	same := true
	for i := 0; i < DeckSize; i++ {
		ca, _ := a.Draw()
		cb, _ := b.Draw()
		if ca != cb {
			same = false
			break
		}
	}
	if same {
		t.Fatal("two different seeds produced the same order")
	}
}

func TestNewSeed(t *testing.T) {
	a, err := NewSeed()
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSeed()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("two fresh seeds are equal: %d", a)
	}
}
