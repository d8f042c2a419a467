package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/airrush/charter-api/internal/geo"
)

const defaultGeoTTL = 30 * 24 * time.Hour

// GeoCache implements geo.Cache over Redis. Entries are keyed by the
// lowercased place name and stored as JSON; a miss returns (nil, nil).
type GeoCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGeoCache(client *redis.Client, ttl time.Duration) *GeoCache {
	if ttl <= 0 {
		ttl = defaultGeoTTL
	}
	return &GeoCache{client: client, ttl: ttl}
}

func geoKey(city string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(city))
}

func (c *GeoCache) Get(ctx context.Context, city string) (*geo.Result, bool, error) {
	raw, err := c.client.Get(ctx, geoKey(city)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("geocache get: %w", err)
	}

	var res geo.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false, fmt.Errorf("geocache decode: %w", err)
	}
	return &res, true, nil
}

func (c *GeoCache) Set(ctx context.Context, city string, res *geo.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("geocache encode: %w", err)
	}
	if err := c.client.Set(ctx, geoKey(city), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("geocache set: %w", err)
	}
	return nil
}
