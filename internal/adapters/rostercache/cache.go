package rostercache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"inviteticketing/internal/domain"
)

const rosterKey = "roster:codes"

type cachedRoster struct {
	source domain.RosterSource
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps a RosterSource with a redis cache of the full roster. Cache
// failures fall through to the underlying source; the cache is an
// optimization, never the authority.
func New(source domain.RosterSource, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) domain.RosterSource {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &cachedRoster{source: source, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *cachedRoster) ListValidCodes(ctx context.Context) ([]domain.InviteCode, error) {
	raw, err := c.rdb.Get(ctx, rosterKey).Bytes()
	if err == nil {
		var codes []domain.InviteCode
		if err := json.Unmarshal(raw, &codes); err == nil {
			return codes, nil
		}
		c.logger.Warn("roster cache entry corrupt, refetching", "key", rosterKey)
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("roster cache read failed", "err", err)
	}

	codes, err := c.source.ListValidCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}

	if raw, err := json.Marshal(codes); err == nil {
		if err := c.rdb.Set(ctx, rosterKey, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("roster cache write failed", "err", err)
		}
	}
	return codes, nil
}

func (c *cachedRoster) GetCodeDetails(ctx context.Context, code string) (*domain.InviteCode, error) {
	codes, err := c.ListValidCodes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range codes {
		if codes[i].Code == code {
			return &codes[i], nil
		}
	}
	return nil, domain.ErrNotFound
}
