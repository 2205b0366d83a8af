package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"yatube/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const pageCachePrefix = "page:"

// PageCacheKey is the Redis key of a rendered page. Pages embed the
// navigation of the current viewer, so the viewer is part of the key.
func PageCacheKey(viewerID uint, url string) string {
	viewer := "anon"
	if viewerID != 0 {
		viewer = fmt.Sprintf("user:%d", viewerID)
	}
	return pageCachePrefix + viewer + ":" + url
}

// PageCache stores successful GET responses in Redis for ttl and serves
// them verbatim until they expire. A nil client or non-positive ttl turns
// it into a pass-through; Redis errors never fail the request.
func PageCache(rdb *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil || ttl <= 0 || c.Method() != fiber.MethodGet {
			return c.Next()
		}

		viewerID, _ := c.Locals("userID").(uint)
		key := PageCacheKey(viewerID, c.OriginalURL())
		ctx := c.UserContext()

		body, err := rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			observability.PageCacheResults.WithLabelValues("hit").Inc()
			c.Set("X-Cache", "HIT")
			c.Type("html", "utf-8")
			return c.Send(body)
		case errors.Is(err, redis.Nil):
			observability.PageCacheResults.WithLabelValues("miss").Inc()
		default:
			observability.PageCacheResults.WithLabelValues("error").Inc()
			Logger.WarnContext(ctx, "page cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}

		c.Set("X-Cache", "MISS")
		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			rendered := append([]byte(nil), c.Response().Body()...)
			if setErr := rdb.Set(ctx, key, rendered, ttl).Err(); setErr != nil {
				Logger.WarnContext(ctx, "page cache write failed", slog.String("key", key), slog.String("error", setErr.Error()))
			}
		}
		return nil
	}
}
