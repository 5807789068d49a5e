package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kisanbazar/kisanbazar-backend/pkg/redis"
)

// Store persists cart blobs keyed by user.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, userID uuid.UUID, cart *Cart) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a redis-backed cart store. The TTL renews on every
// write, so abandoned carts eventually expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(userID.String()))
	if err != nil {
		if redis.IsNil(err) {
			return &Cart{Items: []CartItem{}}, nil
		}
		return nil, err
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decoding cart blob: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, userID uuid.UUID, cart *Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encoding cart blob: %w", err)
	}
	return s.client.Set(ctx, s.client.CartKey(userID.String()), string(raw), s.ttl)
}

func (s *redisStore) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, s.client.CartKey(userID.String()))
}
