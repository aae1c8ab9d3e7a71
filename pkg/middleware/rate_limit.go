package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ulule/limiter/v3"
	stdlibmiddleware "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

type RateLimitConfig struct {
	RequestsPerPeriod int
	Period            time.Duration
	Store             limiter.Store
}

// NewMemoryStore returns an in-process rate limit store.
func NewMemoryStore() limiter.Store {
	return memory.NewStore()
}

// RateLimit applies a global request rate limit per client IP.
func RateLimit(config RateLimitConfig) mux.MiddlewareFunc {
	period := config.Period
	if period == 0 {
		period = time.Second
	}
	store := config.Store
	if store == nil {
		store = NewMemoryStore()
	}
	instance := limiter.New(store, limiter.Rate{
		Period: period,
		Limit:  int64(config.RequestsPerPeriod),
	})
	wrapped := stdlibmiddleware.NewMiddleware(instance)
	return func(next http.Handler) http.Handler {
		return wrapped.Handler(next)
	}
}
