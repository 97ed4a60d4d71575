package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gaspedidos/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "cart:"
	cartTTL       = 7 * 24 * time.Hour
)

// RedisCartRepository stores one JSON cart snapshot per identity with a TTL.
type RedisCartRepository struct {
	client *redis.Client
}

// NewRedisCartRepository creates a new instance of RedisCartRepository.
func NewRedisCartRepository(client *redis.Client) *RedisCartRepository {
	return &RedisCartRepository{client: client}
}

// SaveCart overwrites the stored snapshot for the identity.
func (r *RedisCartRepository) SaveCart(ctx context.Context, userID string, items []models.CartItem) error {
	body, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for user %s: %w", userID, err)
	}
	if err := r.client.Set(ctx, cartKeyPrefix+userID, body, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart for user %s: %w", userID, err)
	}
	return nil
}

// LoadCart returns the stored snapshot, or an empty cart when none exists.
func (r *RedisCartRepository) LoadCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	body, err := r.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for user %s: %w", userID, err)
	}
	var items []models.CartItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart for user %s: %w", userID, err)
	}
	return items, nil
}

// DeleteCart removes the stored snapshot.
func (r *RedisCartRepository) DeleteCart(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart for user %s: %w", userID, err)
	}
	return nil
}
