package service

import (
	"time"

	"go.uber.org/atomic"
)

// nameClock выдаёт строго возрастающие метки в миллисекундах,
// так что две загрузки в одну миллисекунду получают разные имена.
type nameClock struct {
	last atomic.Int64
}

func (c *nameClock) Next(now time.Time) int64 {
	ms := now.UnixMilli()
	for {
		last := c.last.Load()
		next := ms
		if next <= last {
			next = last + 1
		}
		if c.last.CompareAndSwap(last, next) {
			return next
		}
	}
}
