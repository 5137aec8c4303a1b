package push

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fireGuardPrefix = "schoolhub:fired"
	fireGuardTTL    = 36 * time.Hour
)

// FireGuard records in Redis that a daily job fired for a day, so restarts and
// replicas deliver each daily notification once
type FireGuard struct {
	client *redis.Client
}

// NewFireGuard creates a guard backed by client
func NewFireGuard(client *redis.Client) *FireGuard {
	return &FireGuard{client: client}
}

// Acquire claims job for day. It returns false if the job already fired that day.
func (g *FireGuard) Acquire(ctx context.Context, job string, day time.Time) (bool, error) {
	ok, err := g.client.SetNX(ctx, fireGuardKey(job, day), time.Now().UTC().Format(time.RFC3339), fireGuardTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", job, err)
	}
	return ok, nil
}

// Release forgets the claim for job on day
func (g *FireGuard) Release(ctx context.Context, job string, day time.Time) error {
	return g.client.Del(ctx, fireGuardKey(job, day)).Err()
}

func fireGuardKey(job string, day time.Time) string {
	return fmt.Sprintf("%s:%s:%s", fireGuardPrefix, job, day.Format("2006-01-02"))
}
