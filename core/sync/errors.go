package sync

import (
	"github.com/pkg/errors"
)

// ErrorKind is the worst startup error a Service has seen. It is never
// cleared.
type ErrorKind int32

const (
	NoError ErrorKind = iota
	NoInterface
	ConnectionFailed
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "no error"
	case NoInterface:
		return "no interface"
	case ConnectionFailed:
		return "connection failed"
	default:
		return "unknown error"
	}
}

var (
	errStillConnecting = errors.New("connection still in progress")
)
