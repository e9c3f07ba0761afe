package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "used_token:"

// TokenLedger records redeemed action tokens in Redis. Keys expire with the token.
type TokenLedger struct {
	rdb redis.Cmdable
	now func() time.Time
}

func NewTokenLedger(rdb redis.Cmdable) *TokenLedger {
	return &TokenLedger{rdb: rdb, now: time.Now}
}

// Consume reports true only for the first redemption of id.
func (l *TokenLedger) Consume(ctx context.Context, id string, until time.Time) (bool, error) {
	ttl := until.Sub(l.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return l.rdb.SetNX(ctx, tokenKeyPrefix+id, 1, ttl).Result()
}

func (l *TokenLedger) Release(ctx context.Context, id string) error {
	return l.rdb.Del(ctx, tokenKeyPrefix+id).Err()
}
