// Package cache fronts hot read paths with Redis. Only the public
// ACTIVE-proposal listing is cached; everything else reads the database.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-marketplace/internal/config"
	"loan-marketplace/internal/domain/origination"
)

const activeProposalsKey = "proposals:active"

func OpenRedis(cfg config.RedisConfig) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// ProposalCache is a best-effort Redis front for the public proposal
// listing. Errors are logged and treated as misses so Redis outages
// never break reads.
type ProposalCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ origination.ProposalCache = (*ProposalCache)(nil)

func NewProposalCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProposalCache {
	if client == nil {
		panic("redis client cannot be nil for ProposalCache")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ProposalCache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "ProposalCache"),
	}
}

func (c *ProposalCache) GetActive(ctx context.Context) ([]origination.Proposal, bool) {
	payload, err := c.client.Get(ctx, activeProposalsKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "Cache read failed, falling through to database", slog.Any("error", err))
		}
		return nil, false
	}

	var proposals []origination.Proposal
	if err := json.Unmarshal(payload, &proposals); err != nil {
		c.logger.WarnContext(ctx, "Cache payload corrupt, dropping key", slog.Any("error", err))
		c.client.Del(ctx, activeProposalsKey)
		return nil, false
	}
	return proposals, true
}

func (c *ProposalCache) SetActive(ctx context.Context, proposals []origination.Proposal) {
	payload, err := json.Marshal(proposals)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to marshal proposals for cache", slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, activeProposalsKey, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Cache write failed", slog.Any("error", err))
	}
}

func (c *ProposalCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, activeProposalsKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "Cache invalidation failed", slog.Any("error", err))
	}
}
