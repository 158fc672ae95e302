package netif

import (
	"context"
	"net"

	"github.com/pkg/errors"
)

var (
	errNoSuchInterface = errors.New("no such network interface")
	errNoInterfaces    = errors.New("no usable network interface")
)

// HostInterface reports the state of a network interface managed by the host
// operating system. If Name is empty, any non-loopback interface qualifies.
// Links are configured outside this process, so Connect only checks that the
// interface exists.
type HostInterface struct {
	Name string
}

var _ Interface = (*HostInterface)(nil)
var _ LocalAddresser = (*HostInterface)(nil)

func (h *HostInterface) interfaces() ([]net.Interface, error) {
	if h.Name != "" {
		ifi, err := net.InterfaceByName(h.Name)
		if err != nil {
			return nil, errors.Wrapf(errNoSuchInterface, "%s: %v", h.Name, err)
		}
		return []net.Interface{*ifi}, nil
	}
	ifis, err := net.Interfaces()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list network interfaces")
	}
	var res []net.Interface
	for _, ifi := range ifis {
		if ifi.Flags&net.FlagLoopback == 0 {
			res = append(res, ifi)
		}
	}
	if len(res) == 0 {
		return nil, errNoInterfaces
	}
	return res, nil
}

func interfaceIPs(ifi net.Interface) []net.IP {
	addrs, err := ifi.Addrs()
	if err != nil {
		return nil
	}
	var ips []net.IP
	for _, a := range addrs {
		if ipn, ok := a.(*net.IPNet); ok {
			ips = append(ips, ipn.IP)
		}
	}
	return ips
}

func classify(flags net.Flags, ips []net.IP) Status {
	if flags&net.FlagUp == 0 {
		return Disconnected
	}
	for _, ip := range ips {
		if ip.IsGlobalUnicast() {
			return GlobalUp
		}
	}
	return Connecting
}

func (h *HostInterface) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := h.interfaces()
	return err
}

func (h *HostInterface) ConnectionStatus() Status {
	ifis, err := h.interfaces()
	if err != nil {
		return Unsupported
	}
	s := Disconnected
	for _, ifi := range ifis {
		if x := classify(ifi.Flags, interfaceIPs(ifi)); x > s {
			s = x
		}
	}
	return s
}

// LocalAddress returns a global unicast address of a named interface, or the
// empty string to let the operating system choose.
func (h *HostInterface) LocalAddress() string {
	if h.Name == "" {
		return ""
	}
	ifis, err := h.interfaces()
	if err != nil {
		return ""
	}
	for _, ip := range interfaceIPs(ifis[0]) {
		if ip.IsGlobalUnicast() {
			return ip.String()
		}
	}
	return ""
}
