package sync_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"example.com/rtc-sync/core/sync"
)

func TestTickerCount(t *testing.T) {
	tests := []struct {
		ticks int
		want  uint32
	}{
		{0, 0},
		{1, 1},
		{999, 999},
		{1000, 0},
		{1001, 1},
		{2500, 500},
	}

	for _, tt := range tests {
		var tk sync.MillisecondTicker
		for i := 0; i < tt.ticks; i++ {
			tk.Tick()
		}
		if got := tk.Count(); got != tt.want {
			t.Errorf("Count() after %d ticks = %d, want %d", tt.ticks, got, tt.want)
		}
	}
}

func TestTickerArmDisarm(t *testing.T) {
	var tk sync.MillisecondTicker

	tk.Disarm() // not armed

	tk.Arm(clock.New(), time.Millisecond)
	tk.Arm(clock.New(), time.Millisecond)
	waitFor(t, "ticks", func() bool { return tk.Count() >= 5 })

	tk.Disarm()
	c := tk.Count()
	time.Sleep(20 * time.Millisecond)
	if got := tk.Count(); got != c {
		t.Errorf("Count() = %d after Disarm, want %d", got, c)
	}
	tk.Disarm()
}

func TestTickerArmInvalidPeriod(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Arm with a zero period must panic")
		}
	}()
	var tk sync.MillisecondTicker
	tk.Arm(clock.New(), 0)
}
