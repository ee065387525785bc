package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Requests aggregates the HTTP counters the stats endpoint reports.
type Requests struct {
	Total        Counter
	ClientErrors Counter
	ServerErrors Counter
	started      time.Time
}

func NewRequests() *Requests {
	return &Requests{started: time.Now()}
}

// Observe records one finished request by status code.
func (r *Requests) Observe(status int) {
	r.Total.Inc()
	switch {
	case status >= 500:
		r.ServerErrors.Inc()
	case status >= 400:
		r.ClientErrors.Inc()
	}
}

func (r *Requests) Uptime() time.Duration {
	return time.Since(r.started)
}
