package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/GregMSThompson/decision-backend/internal/errs"
)

const (
	limiterIdleTTL      = 10 * time.Minute
	limiterSweepPeriod  = time.Minute
	defaultLimiterRPS   = 5
	defaultLimiterBurst = 10
)

type errorHandler interface {
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

// limiterPool holds one token bucket per uid. Buckets idle for longer than
// ttl are swept so the map does not grow with every user ever seen.
type limiterPool struct {
	mu    sync.Mutex
	m     map[string]*limiterEntry
	rps   float64
	burst int

	ttl        time.Duration
	sweepEvery time.Duration
	now        func() time.Time
	startSweep sync.Once
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.startSweep.Do(func() {
		if p.sweepEvery > 0 {
			go p.sweepLoop()
		}
	})

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*limiterEntry)
	}
	now := p.clock()
	if e, ok := p.m[key]; ok {
		e.lastSeen = now
		return e.l
	}
	rps := p.rps
	if rps <= 0 {
		rps = defaultLimiterRPS
	}
	burst := p.burst
	if burst <= 0 {
		burst = defaultLimiterBurst
	}
	l := rate.NewLimiter(rate.Limit(rps), burst)
	p.m[key] = &limiterEntry{l: l, lastSeen: now}
	return l
}

func (p *limiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}

func (p *limiterPool) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

// sweep drops buckets not used since ttl before now and returns how many
// remain.
func (p *limiterPool) sweep() int {
	cutoff := p.clock().Add(-p.ttl)
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, e := range p.m {
		if e.lastSeen.Before(cutoff) {
			delete(p.m, k)
		}
	}
	return len(p.m)
}

func (p *limiterPool) sweepLoop() {
	ticker := time.NewTicker(p.sweepEvery)
	defer ticker.Stop()
	for range ticker.C {
		p.sweep()
	}
}

// RateLimit limits each authenticated user to rps requests per second.
// It must run after FirebaseAuth.
func RateLimit(rps float64, burst int, rh errorHandler) func(http.Handler) http.Handler {
	limiters := &limiterPool{
		rps:        rps,
		burst:      burst,
		ttl:        limiterIdleTTL,
		sweepEvery: limiterSweepPeriod,
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.Allow(UID(r.Context())) {
				rh.HandleError(w, r, errs.NewRateLimitError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
