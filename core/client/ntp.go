package client

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/pkg/errors"

	"example.com/rtc-sync/net/netif"
)

const (
	defaultNTPTimeout = 5 * time.Second
	defaultNTPVersion = 4
)

// NTPSource queries an NTP server in client mode.
type NTPSource struct {
	Server  string
	Timeout time.Duration
	Version int
}

var _ TimeSource = (*NTPSource)(nil)

func (s *NTPSource) options(ctx context.Context, ni netif.Interface) ntp.QueryOptions {
	opts := ntp.QueryOptions{
		Version: s.Version,
		Timeout: s.Timeout,
	}
	if opts.Version == 0 {
		opts.Version = defaultNTPVersion
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultNTPTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < opts.Timeout {
			opts.Timeout = d
		}
	}
	if la, ok := ni.(netif.LocalAddresser); ok {
		opts.LocalAddress = la.LocalAddress()
	}
	return opts
}

func (s *NTPSource) Timestamp(ctx context.Context, ni netif.Interface) (int64, error) {
	if s.Server == "" {
		return -1, errNoServer
	}
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	opts := s.options(ctx, ni)
	if opts.Timeout <= 0 {
		return -1, context.DeadlineExceeded
	}
	resp, err := ntp.QueryWithOptions(s.Server, opts)
	if err != nil {
		return -1, errors.Wrapf(err, "query to %s failed", s.Server)
	}
	err = resp.Validate()
	if err != nil {
		return -1, errors.Wrapf(err, "invalid response from %s", s.Server)
	}
	return time.Now().Add(resp.ClockOffset).Unix(), nil
}
