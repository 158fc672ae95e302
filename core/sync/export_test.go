package sync

import (
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func (s *Service) Ticker() *MillisecondTicker {
	return &s.ticker
}

func SyncAttempts() float64 {
	return testutil.ToFloat64(workerMetrics.Load().attempts)
}

func SyncFailures() float64 {
	return testutil.ToFloat64(workerMetrics.Load().failures)
}

func ClockSetFailures() float64 {
	return testutil.ToFloat64(workerMetrics.Load().clockSetFailures)
}
