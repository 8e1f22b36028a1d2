package server

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether the client identified by key may make another
// request.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter keeps one token bucket per client in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time

	lastSweep time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorTTL is how long an idle client's bucket is kept. Idle buckets are
// swept at most once per visitorTTL.
const visitorTTL = 3 * time.Minute

// NewMemoryLimiter allows perSecond requests per client with the given burst.
func NewMemoryLimiter(perSecond float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow implements Limiter. It never fails.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= visitorTTL {
		l.sweep(now)
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

func (l *MemoryLimiter) sweep(now time.Time) {
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(l.visitors, k)
		}
	}
	l.lastSweep = now
}

// RedisLimiter counts requests per client in fixed windows stored in Redis,
// so several server instances share one budget. Each window admits burst
// requests and lasts burst/perSecond seconds.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int64
	window time.Duration
}

// incrWindow increments the window counter and starts its expiry on the
// first hit.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// NewRedisLimiter creates a limiter on client. Keys are prefixed with
// "neekuro:ratelimit:".
func NewRedisLimiter(client redis.UniversalClient, perSecond float64, burst int) *RedisLimiter {
	burst = max(burst, 1)
	window := time.Duration(float64(burst) / perSecond * float64(time.Second))
	return &RedisLimiter{
		client: client,
		prefix: "neekuro:ratelimit:",
		limit:  int64(burst),
		window: max(window, time.Millisecond),
	}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := incrWindow.Run(ctx, l.client, []string{l.prefix + key},
		strconv.FormatInt(l.window.Milliseconds(), 10)).Int64()
	if err != nil {
		return false, err
	}
	return n <= l.limit, nil
}
