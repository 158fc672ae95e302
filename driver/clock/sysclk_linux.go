//go:build linux

package clock

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"go.uber.org/zap"

	"golang.org/x/sys/unix"

	"example.com/rtc-sync/base/timebase"
	"example.com/rtc-sync/base/unixutil"
)

// SystemClock is the process-wide CLOCK_REALTIME. Setting it requires
// CAP_SYS_TIME.
type SystemClock struct {
	Log *zap.Logger
	mu  sync.Mutex
}

var _ timebase.LocalClock = (*SystemClock)(nil)

func gettime(log *zap.Logger) unix.Timespec {
	var ts unix.Timespec
	err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts)
	if err != nil {
		log.Fatal("unix.ClockGettime failed", zap.Error(err))
	}
	return ts
}

func now(log *zap.Logger) time.Time {
	ts := gettime(log)
	return time.Unix(ts.Unix()).UTC()
}

func (c *SystemClock) Now() time.Time {
	return now(c.Log)
}

func (c *SystemClock) EpochMillis() uint64 {
	return unixutil.MillisFromTimespec(gettime(c.Log))
}

func (c *SystemClock) Set(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Log.Debug("setting time", zap.Time("time", t))
	tv := unix.NsecToTimeval(t.UnixNano())
	err := unix.Settimeofday(&tv)
	if err != nil {
		return errors.Wrap(err, "unix.Settimeofday failed")
	}
	return nil
}
