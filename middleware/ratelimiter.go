package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sharath018/golftrip-backend/utils"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter limits requests per client IP. formatted uses ulule notation ("10-M", "100-H").
// With a Redis client the counters are shared across instances.
func RateLimiter(formatted, prefix string, rdb *redis.Client) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("rate %q: %w", formatted, err)
	}

	var store limiter.Store
	if rdb != nil {
		store, err = sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: prefix})
		if err != nil {
			return nil, fmt.Errorf("redis limiter store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: prefix})
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance,
		ginlimiter.WithKeyGetter(GetIPFromContext),
		ginlimiter.WithLimitReachedHandler(func(c *gin.Context) {
			utils.RespondError(c, http.StatusTooManyRequests, "Too many attempts, please try again later")
		}),
	), nil
}
