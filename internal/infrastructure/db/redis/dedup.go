package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/airrush/charter-api/internal/core/ports"
)

const defaultDedupTTL = 24 * time.Hour

// NotificationDedup implements notify.Dedup with a Redis key per persisted
// transition. The key encodes the aggregate version and the status, so
// replaying an event never produces a second e-mail, while a cancellation
// emitted against an already-deleted record (same version as the last
// persisted mutation, different status) still goes out.
type NotificationDedup struct {
	client *redis.Client
	ttl    time.Duration
}

func NewNotificationDedup(client *redis.Client, ttl time.Duration) *NotificationDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &NotificationDedup{client: client, ttl: ttl}
}

func dedupKey(ev ports.StatusEvent) string {
	return fmt.Sprintf("notify:%s:%s:%d:%s", ev.Kind, ev.Airwaybill(), ev.Version(), ev.Status())
}

func (d *NotificationDedup) AlreadySent(ctx context.Context, ev ports.StatusEvent) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(ev)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup exists: %w", err)
	}
	return n > 0, nil
}

func (d *NotificationDedup) MarkSent(ctx context.Context, ev ports.StatusEvent) error {
	if err := d.client.Set(ctx, dedupKey(ev), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup set: %w", err)
	}
	return nil
}
