package netif_test

import (
	"context"
	"net"
	"testing"

	"example.com/rtc-sync/net/netif"
)

type staticInterface struct {
	status netif.Status
}

func (i *staticInterface) Connect(context.Context) error { return nil }

func (i *staticInterface) ConnectionStatus() netif.Status { return i.status }

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		flags net.Flags
		ips   []net.IP
		want  netif.Status
	}{
		{"Down", 0, []net.IP{net.ParseIP("192.0.2.1")}, netif.Disconnected},
		{"Up without addresses", net.FlagUp, nil, netif.Connecting},
		{"Up with link-local only", net.FlagUp, []net.IP{net.ParseIP("fe80::1")}, netif.Connecting},
		{"Up with loopback only", net.FlagUp, []net.IP{net.ParseIP("127.0.0.1")}, netif.Connecting},
		{"Up with global IPv4", net.FlagUp, []net.IP{net.ParseIP("fe80::1"), net.ParseIP("192.0.2.1")}, netif.GlobalUp},
		{"Up with global IPv6", net.FlagUp | net.FlagMulticast, []net.IP{net.ParseIP("2001:db8::1")}, netif.GlobalUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := netif.Classify(tt.flags, tt.ips)
			if got != tt.want {
				t.Errorf("classify(%v, %v) = %v, want %v", tt.flags, tt.ips, got, tt.want)
			}
		})
	}
}

func TestHostInterfaceUnknownName(t *testing.T) {
	h := &netif.HostInterface{Name: "rtcsync-test0"}

	if s := h.ConnectionStatus(); s != netif.Unsupported {
		t.Errorf("h.ConnectionStatus() = %v, want %v", s, netif.Unsupported)
	}
	if err := h.Connect(context.Background()); err == nil {
		t.Errorf("h.Connect() must fail for an unknown interface")
	}
	if a := h.LocalAddress(); a != "" {
		t.Errorf("h.LocalAddress() = %q, want empty", a)
	}
}

func TestHostInterfaceConnectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := &netif.HostInterface{}
	if err := h.Connect(ctx); err != context.Canceled {
		t.Errorf("h.Connect() = %v, want %v", err, context.Canceled)
	}
}

func TestRegisterDefault(t *testing.T) {
	netif.ResetDefault()
	defer netif.ResetDefault()

	if netif.Default() != nil {
		t.Fatalf("netif.Default() must be nil before registration")
	}
	i := &staticInterface{status: netif.GlobalUp}
	netif.RegisterDefault(i)
	if netif.Default() != netif.Interface(i) {
		t.Errorf("netif.Default() must return the registered interface")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("second registration must panic")
		}
	}()
	netif.RegisterDefault(&staticInterface{})
}

func TestStatusString(t *testing.T) {
	if s := netif.GlobalUp.String(); s != "global up" {
		t.Errorf("GlobalUp.String() = %q, want %q", s, "global up")
	}
	if s := netif.Status(42).String(); s != "unknown" {
		t.Errorf("Status(42).String() = %q, want %q", s, "unknown")
	}
}
