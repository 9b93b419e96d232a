package ledger

import (
	"context"
	"errors"
	"sync"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Memory is the in-process ledger used for tests and standalone runs.
// Unknown users are opened with DefaultStartingChips.
type Memory struct {
	mu       sync.Mutex
	balances map[string]int64
}

func NewMemory() *Memory {
	return &Memory{
		balances: make(map[string]int64),
	}
}

func (m *Memory) open(userID string) int64 {
	if _, ok := m.balances[userID]; !ok {
		m.balances[userID] = DefaultStartingChips
	}
	return m.balances[userID]
}

func (m *Memory) Balance(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open(userID), nil
}

func (m *Memory) Debit(ctx context.Context, userID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open(userID) < amount {
		return ErrInsufficientFunds
	}
	m.balances[userID] -= amount
	return nil
}

func (m *Memory) Credit(ctx context.Context, userID string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open(userID)
	m.balances[userID] += amount
	return nil
}
