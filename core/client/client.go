package client

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"example.com/rtc-sync/base/timebase"
	"example.com/rtc-sync/net/netif"
)

// TimeSource queries network time over a network interface. The result is in
// seconds since the Unix epoch; a negative result signals failure.
type TimeSource interface {
	Timestamp(ctx context.Context, ni netif.Interface) (int64, error)
}

// ClockSource passes queries through to a TimeSource and clock updates
// through to a LocalClock. It keeps no state and does not retry.
type ClockSource struct {
	Source TimeSource
	Clock  timebase.LocalClock
}

func (c *ClockSource) QueryNetworkTime(ctx context.Context, ni netif.Interface) (
	time.Time, error) {
	ts, err := c.Source.Timestamp(ctx, ni)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "failed to query network time")
	}
	if ts < 0 {
		return time.Time{}, errors.Wrapf(ErrNegativeTimestamp,
			"failed to query network time (%d)", ts)
	}
	return time.Unix(ts, 0).UTC(), nil
}

func (c *ClockSource) SetSystemClock(t time.Time) error {
	return c.Clock.Set(t)
}
