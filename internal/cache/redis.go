package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/salonbooking/config"
	"github.com/Domenick1991/salonbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const lockRetryInterval = 25 * time.Millisecond

type RedisCache struct {
	client          redis.UniversalClient
	availabilityTTL time.Duration
	lockTTL         time.Duration
	lockWait        time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

func NewRedisCache(client redis.UniversalClient, cfg config.BookingConfig) *RedisCache {
	return &RedisCache{
		client:          client,
		availabilityTTL: cfg.AvailabilityCacheTTL,
		lockTTL:         cfg.LockTTL,
		lockWait:        cfg.LockWait,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// GetAvailability returns nil without error on a cache miss.
func (c *RedisCache) GetAvailability(ctx context.Context, salonID int64, date string) ([]domain.DayAvailability, error) {
	data, err := c.client.Get(ctx, availabilityKey(salonID, date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var days []domain.DayAvailability
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (c *RedisCache) SetAvailability(ctx context.Context, salonID int64, date string, days []domain.DayAvailability) error {
	payload, err := json.Marshal(days)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, availabilityKey(salonID, date), payload, c.availabilityTTL)
	pipe.SAdd(ctx, availabilityIndexKey(salonID), availabilityKey(salonID, date))
	pipe.Expire(ctx, availabilityIndexKey(salonID), c.availabilityTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateSalon drops every cached availability view of the salon.
func (c *RedisCache) InvalidateSalon(ctx context.Context, salonID int64) error {
	index := availabilityIndexKey(salonID)
	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil {
		return err
	}
	return c.client.Del(ctx, append(keys, index)...).Err()
}

// LockStaff takes a SET NX PX lock on the staff schedule, retrying until
// lockWait elapses.
func (c *RedisCache) LockStaff(ctx context.Context, staffID int64) (func(), error) {
	key := staffLockKey(staffID)
	token := uuid.NewString()

	if c.lockWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.lockWait)
		defer cancel()
	}

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := c.client.SetNX(ctx, key, token, c.lockTTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("acquire staff lock: %w", err)
		}
		if ok {
			return func() {
				releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = releaseScript.Run(releaseCtx, c.client, []string{key}, token).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, domain.ErrLockTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func availabilityKey(salonID int64, date string) string {
	return fmt.Sprintf("cache:salon:%d:availability:%s", salonID, date)
}

func availabilityIndexKey(salonID int64) string {
	return fmt.Sprintf("cache:salon:%d:availability", salonID)
}

func staffLockKey(staffID int64) string {
	return fmt.Sprintf("lock:staff:%d", staffID)
}
