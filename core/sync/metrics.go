package sync

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"example.com/rtc-sync/base/metrics"
)

type syncMetrics struct {
	attempts         prometheus.Counter
	failures         prometheus.Counter
	clockSetFailures prometheus.Counter
	lastNTPTime      prometheus.Gauge
	workerState      prometheus.Gauge
}

var (
	workerMetrics atomic.Pointer[syncMetrics]
)

func init() {
	workerMetrics.Store(newSyncMetrics())
}

func newSyncMetrics() *syncMetrics {
	return &syncMetrics{
		attempts: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.SyncAttemptsN,
			Help: metrics.SyncAttemptsH,
		}),
		failures: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.SyncFailuresN,
			Help: metrics.SyncFailuresH,
		}),
		clockSetFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: metrics.SyncClockSetFailuresN,
			Help: metrics.SyncClockSetFailuresH,
		}),
		lastNTPTime: promauto.NewGauge(prometheus.GaugeOpts{
			Name: metrics.SyncLastNTPTimeN,
			Help: metrics.SyncLastNTPTimeH,
		}),
		workerState: promauto.NewGauge(prometheus.GaugeOpts{
			Name: metrics.SyncWorkerStateN,
			Help: metrics.SyncWorkerStateH,
		}),
	}
}
