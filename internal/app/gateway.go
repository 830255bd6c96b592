package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Access-Gate/config"
	"github.com/andreyxaxa/Access-Gate/internal/gateway"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure/hardware"
	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

// RunGateway runs the sensor and display node until SIGINT or SIGTERM.
func RunGateway(cfg *config.GatewayNode) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Logger
	l := logger.New(cfg.Log.Level)

	c := clock.Real()

	// Hardware
	sensor, closeSensor, err := newSensor(cfg.Sensor, c)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunGateway - newSensor: %w", err))
	}
	defer closeSensor()

	display, closeDisplay, err := newDisplay(cfg.Display, l)
	if err != nil {
		l.Fatal(fmt.Errorf("app - RunGateway - newDisplay: %w", err))
	}
	defer closeDisplay()

	// Node
	g := gateway.New(
		gateway.Settings{
			ListenAddress: net.JoinHostPort("", cfg.Listener.Port),
			ReadTimeout:   cfg.Listener.ReadTimeout,
			BufferSize:    cfg.Listener.BufferSize,
			Threshold:     cfg.Sensor.ThresholdCM,
			PollInterval:  cfg.Sensor.PollInterval,
			Debounce:      cfg.Sensor.Debounce,
			Wifi: gateway.WifiSettings{
				Attempts:   cfg.Wifi.Attempts,
				Backoff:    cfg.Wifi.Backoff,
				Polls:      cfg.Wifi.Polls,
				PollPeriod: cfg.Wifi.PollPeriod,
			},
		},
		sensor,
		newRadio(cfg.Wifi),
		gateway.NewCaptureClient(cfg.Camera.CaptureURL, cfg.Camera.Timeout),
		display,
		c,
		l,
	)

	l.Info("app - RunGateway - starting")

	err = g.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		l.Error(fmt.Errorf("app - RunGateway - g.Run: %w", err))
	}

	l.Info("app - RunGateway - stopped in state %s", g.State())
}

func newSensor(cfg config.Sensor, c clock.Clock) (gateway.Sensor, func(), error) {
	if cfg.Driver == "simulated" {
		return hardware.NewSimulatedSensor(hardware.Reading{Distance: 200}), func() {}, nil
	}

	trig, err := hardware.OpenSysfsPin(cfg.GPIORoot, cfg.TriggerLine)
	if err != nil {
		return nil, nil, fmt.Errorf("hardware.OpenSysfsPin trigger: %w", err)
	}

	echo, err := hardware.OpenSysfsPin(cfg.GPIORoot, cfg.EchoLine)
	if err != nil {
		_ = trig.Close()

		return nil, nil, fmt.Errorf("hardware.OpenSysfsPin echo: %w", err)
	}

	closeFn := func() {
		_ = trig.Close()
		_ = echo.Close()
	}

	return hardware.NewUltrasonic(trig, echo, cfg.EchoTimeout, c), closeFn, nil
}

func newDisplay(cfg config.Display, l logger.Interface) (gateway.Display, func(), error) {
	if cfg.Driver != "lcd" {
		return hardware.NewLogDisplay(l), func() {}, nil
	}

	bus, err := hardware.OpenLinuxI2C(cfg.I2CBus, cfg.Address, cfg.BusTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("hardware.OpenLinuxI2C: %w", err)
	}

	return hardware.NewLCD(bus, cfg.Columns, cfg.Rows), func() { _ = bus.Close() }, nil
}

func newRadio(cfg config.Wifi) gateway.Radio {
	if cfg.Driver == "simulated" {
		return hardware.NewSimulatedRadio(0, 0, net.IPv4(127, 0, 0, 1))
	}

	return hardware.NewHostRadio(cfg.Interface, cfg.SSID, cfg.Password, cfg.Command)
}
