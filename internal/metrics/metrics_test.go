package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Concurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(5000), c.Load())
}

func TestRequests_Observe(t *testing.T) {
	r := NewRequests()

	r.Observe(200)
	r.Observe(404)
	r.Observe(409)
	r.Observe(500)

	assert.Equal(t, uint64(4), r.Total.Load())
	assert.Equal(t, uint64(2), r.ClientErrors.Load())
	assert.Equal(t, uint64(1), r.ServerErrors.Load())
	assert.GreaterOrEqual(t, r.Uptime().Nanoseconds(), int64(0))
}
