package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appsync "github.com/parkops/backend/internal/application/erpsync"
	"github.com/parkops/backend/internal/domain/erpsync"
)

// defaultCatalogueTTL is how long a cached remote catalogue stays valid
const defaultCatalogueTTL = 10 * time.Minute

// RedisCatalogueCache caches remote schema catalogues in Redis, keyed per
// connection. This is suitable for distributed deployments where multiple
// instances share the cached catalogue.
type RedisCatalogueCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisCatalogueCache creates a new Redis-backed catalogue cache
func NewRedisCatalogueCache(cfg RedisConfig, logger *zap.Logger) (*RedisCatalogueCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCatalogueCache{
		client:    client,
		keyPrefix: "erpsync:catalogue:",
		ttl:       defaultCatalogueTTL,
		logger:    logger,
	}, nil
}

// NewRedisCatalogueCacheWithClient creates a cache with an existing Redis client.
// This is useful for testing or when sharing a client across components.
func NewRedisCatalogueCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCatalogueCache {
	if ttl <= 0 {
		ttl = defaultCatalogueTTL
	}
	return &RedisCatalogueCache{
		client:    client,
		keyPrefix: "erpsync:catalogue:",
		ttl:       ttl,
		logger:    logger,
	}
}

// Get returns the cached catalogue for a connection. A cache failure is
// reported as a miss; the caller re-fetches from the remote system.
func (c *RedisCatalogueCache) Get(ctx context.Context, connectionID uuid.UUID) ([]erpsync.RemoteObject, bool) {
	key := c.keyPrefix + connectionID.String()

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Catalogue cache read failed",
				zap.String("connection_id", connectionID.String()),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var objects []erpsync.RemoteObject
	if err := json.Unmarshal(payload, &objects); err != nil {
		c.logger.Warn("Catalogue cache entry corrupt, dropping",
			zap.String("connection_id", connectionID.String()),
			zap.Error(err),
		)
		c.client.Del(ctx, key)
		return nil, false
	}

	return objects, true
}

// Put stores the catalogue for a connection with the configured TTL
func (c *RedisCatalogueCache) Put(ctx context.Context, connectionID uuid.UUID, objects []erpsync.RemoteObject) {
	key := c.keyPrefix + connectionID.String()

	payload, err := json.Marshal(objects)
	if err != nil {
		c.logger.Warn("Catalogue cache encode failed",
			zap.String("connection_id", connectionID.String()),
			zap.Error(err),
		)
		return
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("Catalogue cache write failed",
			zap.String("connection_id", connectionID.String()),
			zap.Error(err),
		)
	}
}

// Close closes the Redis client
func (c *RedisCatalogueCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCatalogueCache implements CatalogueCache
var _ appsync.CatalogueCache = (*RedisCatalogueCache)(nil)
