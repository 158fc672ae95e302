package client

import (
	"github.com/pkg/errors"
)

var (
	// ErrNegativeTimestamp is returned when a time source reports failure
	// through a negative timestamp.
	ErrNegativeTimestamp = errors.New("negative timestamp")

	errNoServer = errors.New("no NTP server configured")
)
