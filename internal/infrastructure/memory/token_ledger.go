package memory

import (
	"context"
	"sync"
	"time"
)

// TokenLedger remembers redeemed token ids until their expiry.
type TokenLedger struct {
	mu   sync.Mutex
	used map[string]time.Time
	now  func() time.Time
}

func NewTokenLedger() *TokenLedger {
	return &TokenLedger{used: make(map[string]time.Time), now: time.Now}
}

func (l *TokenLedger) Consume(_ context.Context, id string, until time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, exp := range l.used {
		if !exp.After(now) {
			delete(l.used, k)
		}
	}
	if _, ok := l.used[id]; ok {
		return false, nil
	}
	l.used[id] = until
	return true, nil
}

func (l *TokenLedger) Release(_ context.Context, id string) error {
	l.mu.Lock()
	delete(l.used, id)
	l.mu.Unlock()
	return nil
}
