// Package netif describes the network interface capability consumed by the
// sync service.
package netif

import (
	"context"
	"sync/atomic"
)

type Status int

const (
	Disconnected Status = iota
	Connecting
	ConnectionError
	GlobalUp
	Unsupported
)

func (s Status) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case ConnectionError:
		return "connection error"
	case GlobalUp:
		return "global up"
	case Unsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// Interface is a network connection owned by the platform. Connect initiates
// the connection; it may return before the connection is usable, in which
// case ConnectionStatus reports the progress.
type Interface interface {
	Connect(ctx context.Context) error
	ConnectionStatus() Status
}

// LocalAddresser is implemented by interfaces that can name the local
// address to bind outgoing queries to.
type LocalAddresser interface {
	LocalAddress() string
}

type defaultHolder struct {
	i Interface
}

var (
	defaultInterface atomic.Pointer[defaultHolder]
)

func RegisterDefault(i Interface) {
	if i == nil {
		panic("default interface must not be nil")
	}
	swapped := defaultInterface.CompareAndSwap(nil, &defaultHolder{i: i})
	if !swapped {
		panic("default interface already registered")
	}
}

// Default returns the process-wide default interface or nil if none has been
// registered.
func Default() Interface {
	h := defaultInterface.Load()
	if h == nil {
		return nil
	}
	return h.i
}
