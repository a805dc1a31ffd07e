package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/cash_register_app/internal/apperrors"
	"github.com/SscSPs/cash_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/cash_register_app/internal/core/ports/repositories"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "cassa"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
}

// SnapshotStore mirrors whole registers to Redis, one key per owner.
type SnapshotStore struct {
	store cmdable
	raw   *redis.Client
}

var _ portsrepo.SnapshotStore = (*SnapshotStore)(nil)

// New connects to the Redis server at url and verifies connectivity.
func New(ctx context.Context, url string) (*SnapshotStore, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &SnapshotStore{store: raw, raw: raw}, nil
}

// SnapshotKey returns the namespaced key holding the owner's register.
func SnapshotKey(ownerID string) string {
	return strings.Join([]string{keyNamespace, "register", ownerID}, ":")
}

func (s *SnapshotStore) FetchSnapshot(ctx context.Context, ownerID string) (*domain.Register, error) {
	if s.store == nil {
		return nil, errors.New("redis client not initialized")
	}
	raw, err := s.store.Get(ctx, SnapshotKey(ownerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot %s: %w", ownerID, err)
	}
	var reg domain.Register
	if err := json.Unmarshal([]byte(raw), &reg); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", ownerID, err)
	}
	reg.Normalize()
	return &reg, nil
}

func (s *SnapshotStore) PutSnapshot(ctx context.Context, reg *domain.Register) error {
	if s.store == nil {
		return errors.New("redis client not initialized")
	}
	raw, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", reg.OwnerID, err)
	}
	if err := s.store.Set(ctx, SnapshotKey(reg.OwnerID), raw, 0).Err(); err != nil {
		return fmt.Errorf("put snapshot %s: %w", reg.OwnerID, err)
	}
	return nil
}

// Ping checks the connection.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	if s.store == nil {
		return errors.New("redis client not initialized")
	}
	return s.store.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *SnapshotStore) Close() error {
	if s.raw == nil {
		return nil
	}
	return s.raw.Close()
}
