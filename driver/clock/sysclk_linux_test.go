package clock_test

import (
	"os"
	"testing"

	"github.com/pkg/errors"

	"go.uber.org/zap/zaptest"

	"golang.org/x/sys/unix"

	"example.com/rtc-sync/driver/clock"
)

func TestSystemClockSet(t *testing.T) {
	c := &clock.SystemClock{Log: zaptest.NewLogger(t)}

	err := c.Set(c.Now())
	if os.Getenv("HAS_CAP_SYS_TIME") != "" {
		if err != nil {
			t.Fatalf("c.Set() failed: %v", err)
		}
		return
	}
	if err == nil {
		return
	}
	if !errors.Is(err, unix.EPERM) {
		t.Fatalf("c.Set() = %v, want wrapped %v", err, unix.EPERM)
	}
	t.Skipf("c.Set() requires CAP_SYS_TIME: %v", err)
}
