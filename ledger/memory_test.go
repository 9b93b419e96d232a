package ledger

import (
	"context"
	"testing"
)

func TestMemoryOpensWithStartingChips(t *testing.T) {
	m := NewMemory()
	bal, err := m.Balance(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if bal != DefaultStartingChips {
		t.Fatalf("balance = %d, want %d", bal, DefaultStartingChips)
	}
}

func TestMemoryDebitCredit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Debit(ctx, "u1", 300); err != nil {
		t.Fatal(err)
	}
	if err := m.Credit(ctx, "u1", 50); err != nil {
		t.Fatal(err)
	}
	bal, _ := m.Balance(ctx, "u1")
	if bal != DefaultStartingChips-300+50 {
		t.Fatalf("balance = %d", bal)
	}
}

func TestMemoryDebitNeverGoesNegative(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Debit(ctx, "u1", DefaultStartingChips+1); err != ErrInsufficientFunds {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	bal, _ := m.Balance(ctx, "u1")
	if bal != DefaultStartingChips {
		t.Fatalf("balance = %d, want untouched after failed debit", bal)
	}
}
