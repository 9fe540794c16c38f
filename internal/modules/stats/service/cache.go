package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	statsDto "anoa.com/playstats/internal/modules/stats/dto"
	"github.com/redis/go-redis/v9"
)

const CacheKey = "stats:document"

// CachedProvider is a read-through redis cache in front of another provider.
// With a nil client every call goes straight to the wrapped provider.
type CachedProvider struct {
	next        Provider
	redisClient *redis.Client
	ttl         time.Duration
}

func NewCachedProvider(next Provider, redisClient *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:        next,
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (p *CachedProvider) GetStats(ctx context.Context) (*statsDto.StatsDocument, error) {
	if p.redisClient == nil {
		return p.next.GetStats(ctx)
	}

	raw, err := p.redisClient.Get(ctx, CacheKey).Bytes()
	switch {
	case err == nil:
		var doc statsDto.StatsDocument
		if err := json.Unmarshal(raw, &doc); err == nil {
			if doc.TopUsers == nil {
				doc.TopUsers = []statsDto.TopUser{}
			}
			return &doc, nil
		}
		log.Printf("Discarding unreadable cached stats: %v", err)
	case !errors.Is(err, redis.Nil):
		log.Printf("Stats cache read failed, using source: %v", err)
	}

	return p.Refresh(ctx)
}

// Refresh loads from the wrapped provider and stores the result in the cache.
// Cache write failures are logged, not returned.
func (p *CachedProvider) Refresh(ctx context.Context) (*statsDto.StatsDocument, error) {
	doc, err := p.next.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	if p.redisClient == nil {
		return doc, nil
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return doc, nil
	}
	if err := p.redisClient.Set(ctx, CacheKey, payload, p.ttl).Err(); err != nil {
		log.Printf("Stats cache write failed: %v", err)
	}
	return doc, nil
}

// Invalidate drops the cached document so the next read goes to the source.
func (p *CachedProvider) Invalidate(ctx context.Context) error {
	if p.redisClient == nil {
		return nil
	}
	return p.redisClient.Del(ctx, CacheKey).Err()
}
