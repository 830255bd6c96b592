// Package gateway runs the sensor and display node: presence polling, the
// wifi supervisor, capture requests to the camera, the decision listener
// and the display, each as its own task linked only by channels.
package gateway

import (
	"context"
	"time"

	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const (
	_displayQueue = 2
	_triggerQueue = 1
)

type Settings struct {
	ListenAddress string
	ReadTimeout   time.Duration
	BufferSize    int

	Threshold    float64
	PollInterval time.Duration
	Debounce     int

	Wifi WifiSettings
}

type Gateway struct {
	machine   *Machine
	display   *DisplayTask
	presence  *PresenceTask
	wifi      *WifiSupervisor
	requester *RequestTask
	listener  *Listener
	logger    logger.Interface
}

func New(
	s Settings,
	sensor Sensor,
	radio Radio,
	camera Capturer,
	display Display,
	c clock.Clock,
	l logger.Interface,
) *Gateway {
	displayCh := make(chan DisplayMessage, _displayQueue)
	triggerCh := make(chan struct{}, _triggerQueue)

	m := NewMachine(l)

	return &Gateway{
		machine:   m,
		display:   NewDisplayTask(display, displayCh, l),
		presence:  NewPresenceTask(sensor, displayCh, triggerCh, s.Threshold, s.PollInterval, s.Debounce, c, l),
		wifi:      NewWifiSupervisor(radio, s.Wifi, m, c, l),
		requester: NewRequestTask(camera, triggerCh, displayCh, m, l),
		listener:  NewListener(s.ListenAddress, s.ReadTimeout, s.BufferSize, displayCh, m, l),
		logger:    l,
	}
}

func (g *Gateway) State() State { return g.machine.Current() }

func (g *Gateway) Listener() *Listener { return g.listener }

// Run blocks until ctx is done or the listener cannot bind. Network tasks
// start only after the link is up and never start if it fails.
func (g *Gateway) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error { return g.display.Run(ctx) })
	eg.Go(func() error { return g.presence.Run(ctx) })
	eg.Go(func() error { return g.wifi.Run(ctx) })

	eg.Go(func() error {
		if !g.awaitLink(ctx) {
			return nil
		}

		return g.requester.Run(ctx)
	})

	eg.Go(func() error {
		if !g.awaitLink(ctx) {
			return nil
		}

		return g.listener.Run(ctx)
	})

	return eg.Wait()
}

func (g *Gateway) awaitLink(ctx context.Context) bool {
	select {
	case <-g.wifi.Ready():
		return true
	case <-g.wifi.Failed():
		g.logger.Warn("Gateway - awaitLink - link failed, network tasks halted")
		return false
	case <-ctx.Done():
		return false
	}
}
