package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/hotelbooking/config"
	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	roomsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, roomsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		roomsTTL: roomsTTL,
	}
}

// GetRooms returns the cached inventory, or nil on a miss.
func (c *RedisCache) GetRooms(ctx context.Context) ([]domain.Room, error) {
	data, err := c.client.Get(ctx, roomsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rooms []domain.Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (c *RedisCache) SetRooms(ctx context.Context, rooms []domain.Room) error {
	payload, err := json.Marshal(rooms)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, roomsKey(), payload, c.roomsTTL).Err()
}

func (c *RedisCache) InvalidateRooms(ctx context.Context) error {
	return c.client.Del(ctx, roomsKey()).Err()
}

// releaseLockScript deletes the lock only while it still carries the
// caller's token, so an expired holder cannot drop a newer lock.
const releaseLockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// AcquireRoomLock takes a short-lived hold on a room for one stay while a
// booking for it is being written. It returns the token that releases the
// lock, or "" when someone else holds it.
func (c *RedisCache) AcquireRoomLock(ctx context.Context, roomID uuid.UUID, dr domain.DateRange, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, roomLockKey(roomID, dr), token, ttl).Result()
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

func (c *RedisCache) ReleaseRoomLock(ctx context.Context, roomID uuid.UUID, dr domain.DateRange, token string) error {
	if token == "" {
		return nil
	}
	return c.client.Eval(ctx, releaseLockScript, []string{roomLockKey(roomID, dr)}, token).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func roomsKey() string {
	return "cache:rooms"
}

func roomLockKey(roomID uuid.UUID, dr domain.DateRange) string {
	return "lock:room:" + roomID.String() + ":" + dr.CheckIn().Format(domain.DateLayout) + ":" + dr.CheckOut().Format(domain.DateLayout)
}
