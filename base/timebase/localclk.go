package timebase

import (
	"time"
)

// LocalClock is the settable wall clock of the device.
type LocalClock interface {
	Now() time.Time
	EpochMillis() uint64
	Set(t time.Time) error
}
