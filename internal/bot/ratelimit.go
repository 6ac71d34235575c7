package bot

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter ограничивает частоту обновлений от одного пользователя
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[int64]*userLimiter
	limit    rate.Limit
	burst    int
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter; perSecond <= 0 отключает ограничение
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[int64]*userLimiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *RateLimiter) Allow(userID int64) bool {
	return l.AllowAt(userID, time.Now())
}

func (l *RateLimiter) AllowAt(userID int64, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	ul, ok := l.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = ul
	}
	ul.lastSeen = now
	return ul.limiter.AllowN(now, 1)
}

// Forget удаляет лимитеры пользователей, не писавших дольше idle
func (l *RateLimiter) Forget(idle time.Duration, now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, ul := range l.limiters {
		if now.Sub(ul.lastSeen) > idle {
			delete(l.limiters, id)
			removed++
		}
	}
	return removed
}
