package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmorenoc/retail-pos-platform/internal/cart"
	"github.com/dmorenoc/retail-pos-platform/internal/config"
)

// CartSnapshotRepository persists the working cart between sessions, so an
// interrupted sale can be resumed from another terminal.
type CartSnapshotRepository interface {
	Save(ctx context.Context, ownerID uuid.UUID, c *cart.Cart) error
	Load(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error)
	Delete(ctx context.Context, ownerID uuid.UUID) error
}

type snapshotRepository struct {
	client *redis.Client
	cfg    *config.Config
}

func NewCartSnapshotRepo(client *redis.Client, cfg *config.Config) CartSnapshotRepository {
	return &snapshotRepository{client: client, cfg: cfg}
}

func snapshotKey(ownerID uuid.UUID) string {
	return fmt.Sprintf("cart_snapshot:%s", ownerID)
}

func (r *snapshotRepository) Save(ctx context.Context, ownerID uuid.UUID, c *cart.Cart) error {

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize cart snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(ownerID), data, r.cfg.Cache.CartSnapshotTTL).Err(); err != nil {
		return fmt.Errorf("failed to store cart snapshot: %w", err)
	}

	return nil
}

// Load returns nil without error when no snapshot exists for the owner.
func (r *snapshotRepository) Load(ctx context.Context, ownerID uuid.UUID) (*cart.Cart, error) {

	data, err := r.client.Get(ctx, snapshotKey(ownerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart snapshot: %w", err)
	}

	var c cart.Cart

	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}

	return &c, nil
}

func (r *snapshotRepository) Delete(ctx context.Context, ownerID uuid.UUID) error {

	if err := r.client.Del(ctx, snapshotKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart snapshot: %w", err)
	}

	return nil
}
