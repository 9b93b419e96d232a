package ledger

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Redis keeps balances as integer keys so several server processes can
// share one chip ledger.
type Redis struct {
	client *redis.Client
}

// dsn: redis://<user>:<password>@<host>:<port>/<db_number>
func NewRedis(dsn string) (*Redis, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, err
	}
	return &Redis{client: redis.NewClient(opts)}, nil
}

func balanceKey(userID string) string {
	return "poker:chips:" + userID
}

func (r *Redis) open(ctx context.Context, userID string) error {
	return r.client.SetNX(ctx, balanceKey(userID), DefaultStartingChips, 0).Err()
}

func (r *Redis) Balance(ctx context.Context, userID string) (int64, error) {
	if err := r.open(ctx, userID); err != nil {
		return 0, err
	}
	return r.client.Get(ctx, balanceKey(userID)).Int64()
}

func (r *Redis) Debit(ctx context.Context, userID string, amount int64) error {
	if err := r.open(ctx, userID); err != nil {
		return err
	}
	// DECRBY is atomic; a negative result means the debit overdrew and
	// gets reverted.
	left, err := r.client.DecrBy(ctx, balanceKey(userID), amount).Result()
	if err != nil {
		return err
	}
	if left < 0 {
		if err := r.client.IncrBy(ctx, balanceKey(userID), amount).Err(); err != nil {
			return err
		}
		return ErrInsufficientFunds
	}
	return nil
}

func (r *Redis) Credit(ctx context.Context, userID string, amount int64) error {
	if err := r.open(ctx, userID); err != nil {
		return err
	}
	return r.client.IncrBy(ctx, balanceKey(userID), amount).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
