package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/waslahq/wasla/internal/observability/metrics"
	"go.uber.org/zap"
)

// Middleware enforces a rule keyed by client IP. Store errors fail
// open; losing a throttle beats taking down login.
func Middleware(store Store, m *metrics.HTTPMetrics, log *zap.Logger, rule Rule) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rule.Name + ":" + c.ClientIP()

		decision, err := store.Hit(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			log.Warn("throttle check failed",
				zap.String("rule", rule.Name),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if m != nil {
			m.ObserveThrottle(rule.Name, decision.Allowed)
		}

		if !decision.Allowed {
			retrySeconds := int(math.Ceil(decision.RetryAfter.Seconds()))
			if retrySeconds < 1 {
				retrySeconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(retrySeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail":      "Too many requests. Please try again later.",
				"retry_after": retrySeconds,
			})
			return
		}

		c.Next()
	}
}
