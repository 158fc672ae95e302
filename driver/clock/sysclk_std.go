//go:build !linux

package clock

import (
	"time"

	"go.uber.org/zap"

	"example.com/rtc-sync/base/timebase"
)

type SystemClock struct {
	Log *zap.Logger
}

var _ timebase.LocalClock = (*SystemClock)(nil)

func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *SystemClock) EpochMillis() uint64 {
	ms := time.Now().UnixMilli()
	if ms < 0 {
		return 0
	}
	return uint64(ms)
}

func (c *SystemClock) Set(t time.Time) error {
	c.Log.Debug("SystemClock.Set, not yet implemented", zap.Time("time", t))
	return nil
}
