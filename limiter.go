package pressfront

import (
	"sync"
	"time"
)

// LoginLimiter rate-limits failed admin logins per client IP.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	stop     chan struct{}
	once     sync.Once
}

// NewLoginLimiter creates a LoginLimiter that allows max failures per window.
// Stop ends its cleanup goroutine.
func NewLoginLimiter(max int, window time.Duration) *LoginLimiter {
	l := &LoginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *LoginLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			cutoff := now.Add(-l.window)
			l.mu.Lock()
			for ip := range l.attempts {
				l.prune(ip, cutoff)
			}
			l.mu.Unlock()
		}
	}
}

// prune drops attempts older than cutoff. l.mu must be held.
func (l *LoginLimiter) prune(ip string, cutoff time.Time) int {
	hits := l.attempts[ip]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.attempts, ip)
		return 0
	}
	l.attempts[ip] = kept
	return len(kept)
}

// Check reports whether ip may attempt another login. It does not record
// anything; call Record after a failure.
func (l *LoginLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prune(ip, time.Now().Add(-l.window)) < l.max
}

// Record registers a failed login for ip.
func (l *LoginLimiter) Record(ip string) {
	l.mu.Lock()
	l.attempts[ip] = append(l.attempts[ip], time.Now())
	l.mu.Unlock()
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *LoginLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}
