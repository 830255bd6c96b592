package hardware

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os/exec"
	"sync"

	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
)

// HostRadio supervises a Linux network interface. Association is delegated
// to an external command (nmcli by default) when an SSID is configured.
type HostRadio struct {
	iface    string
	ssid     string
	password string
	command  string
}

func NewHostRadio(iface, ssid, password, command string) *HostRadio {
	if command == "" {
		command = "nmcli"
	}

	return &HostRadio{iface: iface, ssid: ssid, password: password, command: command}
}

func (r *HostRadio) Start(_ context.Context) error {
	_, err := net.InterfaceByName(r.iface)
	if err != nil {
		return fmt.Errorf("HostRadio - Start - net.InterfaceByName %s: %w", r.iface, err)
	}

	return nil
}

func (r *HostRadio) Connect(ctx context.Context) error {
	if r.ssid != "" {
		args := []string{"device", "wifi", "connect", r.ssid, "ifname", r.iface}
		if r.password != "" {
			args = append(args, "password", r.password)
		}

		var stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, r.command, args...)
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("HostRadio - Connect - %s: %w: %w (%s)", r.command, errs.ErrNetwork, err, bytes.TrimSpace(stderr.Bytes()))
		}
	}

	iface, err := net.InterfaceByName(r.iface)
	if err != nil {
		return fmt.Errorf("HostRadio - Connect - net.InterfaceByName: %w", err)
	}
	if iface.Flags&net.FlagUp == 0 {
		return fmt.Errorf("HostRadio - Connect - %s is down: %w", r.iface, errs.ErrNetwork)
	}

	return nil
}

// IPv4 returns the first IPv4 address on the interface, or nil.
func (r *HostRadio) IPv4(_ context.Context) (net.IP, error) {
	iface, err := net.InterfaceByName(r.iface)
	if err != nil {
		return nil, fmt.Errorf("HostRadio - IPv4 - net.InterfaceByName: %w", err)
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, fmt.Errorf("HostRadio - IPv4 - iface.Addrs: %w", err)
	}

	for _, a := range addrs {
		if n, ok := a.(*net.IPNet); ok {
			if ip4 := n.IP.To4(); ip4 != nil {
				return ip4, nil
			}
		}
	}

	return nil, nil
}

// SimulatedRadio fails Connect a fixed number of times and then hands out
// an address after a number of polls.
type SimulatedRadio struct {
	mu            sync.Mutex
	failConnects  int
	pollsBeforeIP int
	connects      int
	polls         int
	ip            net.IP
}

func NewSimulatedRadio(failConnects, pollsBeforeIP int, ip net.IP) *SimulatedRadio {
	return &SimulatedRadio{failConnects: failConnects, pollsBeforeIP: pollsBeforeIP, ip: ip}
}

func (r *SimulatedRadio) Start(context.Context) error { return nil }

func (r *SimulatedRadio) Connect(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connects++
	if r.connects <= r.failConnects {
		return fmt.Errorf("SimulatedRadio - Connect - attempt %d: %w", r.connects, errs.ErrNetwork)
	}

	return nil
}

func (r *SimulatedRadio) IPv4(context.Context) (net.IP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.polls++
	if r.polls <= r.pollsBeforeIP {
		return nil, nil
	}

	return r.ip, nil
}

func (r *SimulatedRadio) Connects() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.connects
}
