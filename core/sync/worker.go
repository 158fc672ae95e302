package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"go.uber.org/zap"

	"example.com/rtc-sync/core/client"
	"example.com/rtc-sync/net/netif"
)

type syncWorker struct {
	log      *zap.Logger
	src      *client.ClockSource
	timers   clock.Clock
	interval time.Duration

	lastNTPTime atomic.Pointer[time.Time]
	state       atomic.Int32
	stopOnce    sync.Once
	done        chan struct{}
}

func newSyncWorker(log *zap.Logger, src *client.ClockSource, timers clock.Clock,
	interval time.Duration) *syncWorker {
	return &syncWorker{
		log:      log,
		src:      src,
		timers:   timers,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (w *syncWorker) setState(s State) {
	w.state.Store(int32(s))
	workerMetrics.Load().workerState.Set(float64(s))
}

func (w *syncWorker) State() State {
	return State(w.state.Load())
}

// stop moves the worker to its terminal state. It must only be called once
// run has returned or if run has never been started.
func (w *syncWorker) stop() {
	w.stopOnce.Do(func() {
		w.setState(Stopped)
		close(w.done)
	})
}

func (w *syncWorker) wait(ctx context.Context) bool {
	t := w.timers.Timer(w.interval)
	w.setState(Waiting)
	select {
	case <-ctx.Done():
		t.Stop()
		return false
	case <-t.C:
		return true
	}
}

func (w *syncWorker) sync(ctx context.Context, ni netif.Interface) {
	mtrcs := workerMetrics.Load()
	mtrcs.attempts.Inc()
	t, err := w.src.QueryNetworkTime(ctx, ni)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		mtrcs.failures.Inc()
		w.log.Info("failed to get network time, skipping sync cycle", zap.Error(err))
		return
	}
	err = w.src.SetSystemClock(t)
	if err != nil {
		mtrcs.clockSetFailures.Inc()
		w.log.Error("failed to set system clock", zap.Time("time", t), zap.Error(err))
	}
	w.lastNTPTime.Store(&t)
	mtrcs.lastNTPTime.Set(float64(t.Unix()))
	w.log.Debug("synchronized", zap.Time("time", t))
}

// run syncs immediately and then once per interval until ctx is done or the
// network is no longer fully up. Lost connectivity ends the loop for good.
func (w *syncWorker) run(ctx context.Context, ni netif.Interface) {
	defer w.stop()
	for first := true; ; first = false {
		if !first && !w.wait(ctx) {
			return
		}
		if s := ni.ConnectionStatus(); s != netif.GlobalUp {
			w.log.Warn("network is not up, stopping time sync", zap.Stringer("status", s))
			return
		}
		w.setState(Syncing)
		w.sync(ctx, ni)
	}
}
