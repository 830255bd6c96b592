package hardware

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
)

func TestSimulatedRadio(t *testing.T) {
	ctx := context.Background()
	r := NewSimulatedRadio(2, 1, net.IPv4(192, 168, 4, 2))

	for i := 0; i < 2; i++ {
		if err := r.Connect(ctx); !errors.Is(err, errs.ErrNetwork) {
			t.Fatalf("connect %d: err = %v", i, err)
		}
	}
	if err := r.Connect(ctx); err != nil {
		t.Fatalf("third connect: %v", err)
	}

	if ip, _ := r.IPv4(ctx); ip != nil {
		t.Fatalf("first poll ip = %v", ip)
	}
	if ip, _ := r.IPv4(ctx); !ip.Equal(net.IPv4(192, 168, 4, 2)) {
		t.Fatalf("second poll ip = %v", ip)
	}
}

func TestHostRadioLoopback(t *testing.T) {
	ifaces, err := net.Interfaces()
	if err != nil {
		t.Skipf("net.Interfaces: %v", err)
	}

	var lo string
	for _, i := range ifaces {
		if i.Flags&net.FlagLoopback != 0 && i.Flags&net.FlagUp != 0 {
			lo = i.Name
			break
		}
	}
	if lo == "" {
		t.Skip("no loopback interface")
	}

	r := NewHostRadio(lo, "", "", "")
	ctx := context.Background()

	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := r.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ip, err := r.IPv4(ctx)
	if err != nil {
		t.Fatalf("IPv4: %v", err)
	}
	if ip != nil && !ip.IsLoopback() {
		t.Errorf("ip = %v", ip)
	}
}

func TestHostRadioMissingInterface(t *testing.T) {
	if err := NewHostRadio("does-not-exist0", "", "", "").Start(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
