package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cargoroute/cargoroute_core/internal/planner"
	"github.com/redis/go-redis/v9"
)

// PlanCache stores computed plans in Redis, keyed by a hash of the
// request. A short-lived mutex key dedupes concurrent identical requests
// so only one computes while the rest wait for its result.
type PlanCache struct {
	client   *redis.Client
	ttl      time.Duration
	mutexTTL time.Duration
}

// New connects to Redis and verifies the connection
func New(addr, password string, ttl time.Duration) (*PlanCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &PlanCache{
		client:   client,
		ttl:      ttl,
		mutexTTL: 30 * time.Second,
	}, nil
}

// Close closes the Redis client
func (c *PlanCache) Close() {
	c.client.Close()
}

// Client exposes the underlying Redis client for shared consumers like
// the rate limit middleware.
func (c *PlanCache) Client() *redis.Client {
	return c.client
}

// PlanKey generates a deterministic cache key for a planning request
func PlanKey(req planner.Request) string {
	data := fmt.Sprintf("%s|%s|%.3f|%s|%s",
		req.Source, req.Destination, req.CargoWeightKg, req.GoodsType, req.Priority)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("plan:%x", hash[:8])
}

func lockKey(planKey string) string {
	return fmt.Sprintf("lock:%s", planKey)
}

// Get retrieves a cached plan; (nil, nil) on miss
func (c *PlanCache) Get(ctx context.Context, key string) (*planner.Plan, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var plan planner.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached plan: %w", err)
	}

	return &plan, nil
}

// Set caches a plan under the configured TTL
func (c *PlanCache) Set(ctx context.Context, key string, plan *planner.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// AcquireLock attempts to take the compute mutex for a plan key.
// Returns false when another request is already computing it.
func (c *PlanCache) AcquireLock(ctx context.Context, planKey string) (bool, error) {
	return c.client.SetNX(ctx, lockKey(planKey), "1", c.mutexTTL).Result()
}

// ReleaseLock drops the compute mutex
func (c *PlanCache) ReleaseLock(ctx context.Context, planKey string) error {
	return c.client.Del(ctx, lockKey(planKey)).Err()
}

// WaitForPlan polls until the holder of the compute mutex finishes, then
// returns whatever it cached. Avoids a thundering herd of identical
// network builds.
func (c *PlanCache) WaitForPlan(ctx context.Context, planKey string, maxWait time.Duration) (*planner.Plan, error) {
	deadline := time.Now().Add(maxWait)

	for time.Now().Before(deadline) {
		exists, err := c.client.Exists(ctx, lockKey(planKey)).Result()
		if err != nil {
			return nil, err
		}

		if exists == 0 {
			return c.Get(ctx, planKey)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	return nil, fmt.Errorf("timeout waiting for plan computation")
}

// HealthCheck pings Redis
func (c *PlanCache) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis ping failed: %w", err)
	}
	return nil
}
