package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Per-IP request budgets. Planning requests are expensive, so the
// per-second limit is deliberately low.
const (
	limitPerSecond = 5
	limitPerDay    = 5000
)

// RateLimit implements Redis-backed per-IP rate limiting with a
// per-second and a per-day window. Redis errors fail open so a cache
// outage never blocks planning.
func RateLimit(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		now := time.Now()
		ip := c.IP()

		keySecond := fmt.Sprintf("rl:%s:second:%d", ip, now.Unix())
		keyDay := fmt.Sprintf("rl:%s:day:%s", ip, now.Format("2006-01-02"))

		countSecond, err := rdb.Incr(ctx, keySecond).Result()
		if err == nil {
			rdb.Expire(ctx, keySecond, 2*time.Second)

			if countSecond > limitPerSecond {
				c.Set("X-RateLimit-Limit-Second", strconv.Itoa(limitPerSecond))
				c.Set("X-RateLimit-Remaining-Second", "0")
				c.Set("Retry-After", "1")

				return c.Status(429).JSON(fiber.Map{
					"error":       "rate_limit_exceeded",
					"message":     "Too many requests per second",
					"limit_type":  "per_second",
					"limit":       limitPerSecond,
					"retry_after": 1,
				})
			}
		}

		countDay, err := rdb.Incr(ctx, keyDay).Result()
		if err == nil {
			// 25 hours to handle timezone differences
			rdb.Expire(ctx, keyDay, 25*time.Hour)

			if countDay > limitPerDay {
				tomorrow := now.AddDate(0, 0, 1)
				midnight := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, tomorrow.Location())
				retryAfter := int64(midnight.Sub(now).Seconds())

				c.Set("X-RateLimit-Limit-Day", strconv.Itoa(limitPerDay))
				c.Set("X-RateLimit-Remaining-Day", "0")
				c.Set("Retry-After", strconv.FormatInt(retryAfter, 10))

				return c.Status(429).JSON(fiber.Map{
					"error":       "daily_quota_exceeded",
					"message":     "Daily quota exceeded",
					"limit_type":  "per_day",
					"limit":       limitPerDay,
					"used":        countDay,
					"retry_after": retryAfter,
					"reset_at":    midnight.Format(time.RFC3339),
				})
			}

			c.Set("X-RateLimit-Remaining-Day", strconv.FormatInt(limitPerDay-countDay, 10))
		}

		c.Set("X-RateLimit-Limit-Second", strconv.Itoa(limitPerSecond))
		c.Set("X-RateLimit-Limit-Day", strconv.Itoa(limitPerDay))

		return c.Next()
	}
}
