package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"example.com/rtc-sync/core/client"
	"example.com/rtc-sync/net/netif"
)

type fixedSource struct {
	ts  int64
	err error
}

func (s *fixedSource) Timestamp(context.Context, netif.Interface) (int64, error) {
	return s.ts, s.err
}

type recordingClock struct {
	sets []time.Time
	err  error
}

func (c *recordingClock) Now() time.Time      { return time.Unix(0, 0).UTC() }
func (c *recordingClock) EpochMillis() uint64 { return 0 }
func (c *recordingClock) Set(t time.Time) error {
	c.sets = append(c.sets, t)
	return c.err
}

func TestQueryNetworkTime(t *testing.T) {
	errSource := errors.New("timeout")
	tests := []struct {
		name    string
		source  fixedSource
		want    time.Time
		wantErr error
	}{
		{"Success", fixedSource{ts: 1625140800}, time.Unix(1625140800, 0).UTC(), nil},
		{"Epoch", fixedSource{ts: 0}, time.Unix(0, 0).UTC(), nil},
		{"Negative", fixedSource{ts: -1}, time.Time{}, client.ErrNegativeTimestamp},
		{"Error", fixedSource{ts: 1625140800, err: errSource}, time.Time{}, errSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &client.ClockSource{Source: &tt.source, Clock: &recordingClock{}}
			got, err := c.QueryNetworkTime(context.Background(), nil)
			if errors.Cause(err) != tt.wantErr {
				t.Errorf("QueryNetworkTime() error = %v, want %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("QueryNetworkTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetSystemClock(t *testing.T) {
	clk := &recordingClock{}
	c := &client.ClockSource{Source: &fixedSource{}, Clock: clk}

	t0 := time.Unix(1625140800, 0).UTC()
	if err := c.SetSystemClock(t0); err != nil {
		t.Fatalf("SetSystemClock() failed: %v", err)
	}
	if len(clk.sets) != 1 || !clk.sets[0].Equal(t0) {
		t.Errorf("clock sets = %v, want [%v]", clk.sets, t0)
	}

	errSet := errors.New("operation not permitted")
	clk.err = errSet
	if err := c.SetSystemClock(t0); err != errSet {
		t.Errorf("SetSystemClock() error = %v, want %v", err, errSet)
	}
}
