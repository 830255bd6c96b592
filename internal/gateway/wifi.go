package gateway

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

const (
	_defaultAttempts   = 5
	_defaultBackoff    = 2 * time.Second
	_defaultPolls      = 20
	_defaultPollPeriod = 100 * time.Millisecond
)

type Radio interface {
	Start(ctx context.Context) error
	Connect(ctx context.Context) error
	// IPv4 returns nil while no address is assigned.
	IPv4(ctx context.Context) (net.IP, error)
}

type WifiSettings struct {
	Attempts   int
	Backoff    time.Duration
	Polls      int
	PollPeriod time.Duration
}

func (s WifiSettings) withDefaults() WifiSettings {
	if s.Attempts <= 0 {
		s.Attempts = _defaultAttempts
	}
	if s.Backoff <= 0 {
		s.Backoff = _defaultBackoff
	}
	if s.Polls <= 0 {
		s.Polls = _defaultPolls
	}
	if s.PollPeriod <= 0 {
		s.PollPeriod = _defaultPollPeriod
	}
	return s
}

// WifiSupervisor brings the link up once. Giving up is final: it closes
// Failed and never tries again.
type WifiSupervisor struct {
	radio    Radio
	settings WifiSettings
	machine  *Machine
	clock    clock.Clock
	logger   logger.Interface

	ready  chan struct{}
	failed chan struct{}
	addr   net.IP
}

func NewWifiSupervisor(radio Radio, s WifiSettings, m *Machine, c clock.Clock, l logger.Interface) *WifiSupervisor {
	return &WifiSupervisor{
		radio:    radio,
		settings: s.withDefaults(),
		machine:  m,
		clock:    c,
		logger:   l,
		ready:    make(chan struct{}),
		failed:   make(chan struct{}),
	}
}

// Ready is closed once an address is assigned.
func (w *WifiSupervisor) Ready() <-chan struct{} { return w.ready }

// Failed is closed when the supervisor gives up.
func (w *WifiSupervisor) Failed() <-chan struct{} { return w.failed }

// Addr is valid after Ready is closed.
func (w *WifiSupervisor) Addr() net.IP { return w.addr }

// Run never returns an error: a failed link halts the network tasks, not
// the node.
func (w *WifiSupervisor) Run(ctx context.Context) error {
	if err := w.machine.Transition(WifiConnecting); err != nil {
		w.logger.Error(err, "WifiSupervisor - Run")
	}

	ip, err := w.connect(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error(err, "WifiSupervisor - Run - giving up")
			_ = w.machine.Transition(Offline)
			close(w.failed)
		}

		return nil
	}

	w.addr = ip
	w.logger.Info("WifiSupervisor - Run - address %s", ip)
	_ = w.machine.Transition(Ready)
	close(w.ready)

	return nil
}

func (w *WifiSupervisor) connect(ctx context.Context) (net.IP, error) {
	if err := w.associate(ctx); err != nil {
		return nil, err
	}

	return w.awaitAddress(ctx)
}

// associate makes up to Attempts tries. The wait after failure n (from 0) is
// Backoff * 2^n; there is no wait after the last failure.
func (w *WifiSupervisor) associate(ctx context.Context) error {
	var lastErr error

	for attempt := 0; attempt < w.settings.Attempts; attempt++ {
		lastErr = w.attempt(ctx)
		if lastErr == nil {
			w.logger.Info("WifiSupervisor - associate - connected on attempt %d/%d", attempt+1, w.settings.Attempts)
			return nil
		}

		w.logger.Warn("WifiSupervisor - associate - attempt %d/%d: %v", attempt+1, w.settings.Attempts, lastErr)

		if attempt == w.settings.Attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.clock.After(w.settings.Backoff << attempt):
		}
	}

	return fmt.Errorf("WifiSupervisor - associate - %d attempts: %w", w.settings.Attempts, lastErr)
}

func (w *WifiSupervisor) attempt(ctx context.Context) error {
	if err := w.radio.Start(ctx); err != nil {
		return fmt.Errorf("w.radio.Start: %w", err)
	}
	if err := w.radio.Connect(ctx); err != nil {
		return fmt.Errorf("w.radio.Connect: %w", err)
	}
	return nil
}

func (w *WifiSupervisor) awaitAddress(ctx context.Context) (net.IP, error) {
	for poll := 0; poll < w.settings.Polls; poll++ {
		ip, err := w.radio.IPv4(ctx)
		if err != nil {
			w.logger.Warn("WifiSupervisor - awaitAddress - w.radio.IPv4: %v", err)
		}
		if ip != nil {
			return ip, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-w.clock.After(w.settings.PollPeriod):
		}
	}

	return nil, fmt.Errorf("WifiSupervisor - awaitAddress - no address after %d polls", w.settings.Polls)
}
