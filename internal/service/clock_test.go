package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNameClock_StrictlyIncreasing(t *testing.T) {
	var c nameClock
	now := time.UnixMilli(1_700_000_000_000)

	assert.Equal(t, int64(1_700_000_000_000), c.Next(now))
	assert.Equal(t, int64(1_700_000_000_001), c.Next(now))
	assert.Equal(t, int64(1_700_000_000_002), c.Next(now.Add(-time.Second)))
	assert.Equal(t, int64(1_700_000_005_000), c.Next(now.Add(5*time.Second)))
}

func TestNameClock_Concurrent(t *testing.T) {
	var c nameClock
	now := time.Now()

	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
		wg   sync.WaitGroup
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := c.Next(now)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 100)
}
