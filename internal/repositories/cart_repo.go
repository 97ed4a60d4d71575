package repositories

import (
	"context"

	"gaspedidos/internal/models"
)

// CartRepository persists cart snapshots per identity. Persistence is
// best-effort: the in-memory cart held by the service is the source of truth
// for a running session, the repository only survives restarts.
type CartRepository interface {
	SaveCart(ctx context.Context, userID string, items []models.CartItem) error
	LoadCart(ctx context.Context, userID string) ([]models.CartItem, error)
	DeleteCart(ctx context.Context, userID string) error
}
