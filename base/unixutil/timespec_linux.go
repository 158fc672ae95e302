package unixutil

import (
	"golang.org/x/sys/unix"
)

// MillisFromTimespec returns the number of milliseconds since the Unix epoch,
// clamped at zero for times before the epoch.
func MillisFromTimespec(ts unix.Timespec) uint64 {
	sec, nsec := ts.Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec)*1000 + uint64(nsec/1e6)
}
