package sync

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
)

const subSecondModulus = 1000

// MillisecondTicker advances a counter in [0, 1000) once per period. It
// approximates the milliseconds elapsed within the current second between
// full clock syncs and is never aligned with the system clock.
type MillisecondTicker struct {
	count atomic.Uint32

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func (t *MillisecondTicker) Tick() {
	for {
		c := t.count.Load()
		n := c + 1
		if n == subSecondModulus {
			n = 0
		}
		if t.count.CompareAndSwap(c, n) {
			return
		}
	}
}

func (t *MillisecondTicker) Count() uint32 {
	return t.count.Load()
}

// Arm starts ticking with the given period. Arming an armed ticker has no
// effect.
func (t *MillisecondTicker) Arm(clk clock.Clock, period time.Duration) {
	if period <= 0 {
		panic("invalid tick period")
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	stop, done := make(chan struct{}), make(chan struct{})
	tk := clk.Ticker(period)
	go func() {
		defer close(done)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				t.Tick()
			}
		}
	}()
	t.stop, t.done = stop, done
}

// Disarm stops ticking. No tick is applied after Disarm returns.
func (t *MillisecondTicker) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop, t.done = nil, nil
}
