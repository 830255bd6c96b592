package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/andreyxaxa/Access-Gate/config"
	"github.com/andreyxaxa/Access-Gate/internal/controller/camerahttp"
	"github.com/andreyxaxa/Access-Gate/internal/controller/legacylink"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure/apiclient"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure/frame"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure/hardware"
	"github.com/andreyxaxa/Access-Gate/internal/usecase/capture"
	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/httpserver"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

// RunCamera runs the capture node until SIGINT or SIGTERM.
func RunCamera(cfg *config.Camera) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Camera
	camera := frame.NewCamera(
		newFrameSource(cfg.Frame),
		frame.NewProcessor(
			frame.Size(cfg.Frame.Width, cfg.Frame.Height),
			frame.Quality(cfg.Frame.Quality),
			frame.Timestamp(cfg.Frame.Timestamp),
		),
		clock.Real(),
	)

	// Use-Case
	captureUseCase := capture.New(
		camera,
		newIndicator(cfg.Indicator, l),
		apiclient.New(cfg.Upload.APIBaseURL, cfg.Upload.Timeout),
		l,
		capture.Settle(cfg.Frame.Settle),
	)

	// HTTP Server
	httpServer := httpserver.New(l,
		httpserver.Name("camera"),
		httpserver.Port(cfg.HTTP.Port),
		httpserver.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	)
	camerahttp.NewRouter(httpServer.App, captureUseCase, l)

	// Legacy link
	var responder *legacylink.Responder
	if cfg.Legacy.Address != "" {
		responder = legacylink.New(captureUseCase, l, cfg.Legacy.Address, cfg.Legacy.ChunkGap)
		if err := responder.Start(ctx); err != nil {
			l.Fatal(fmt.Errorf("app - RunCamera - responder.Start: %w", err))
		}
	}

	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - RunCamera - signal: %s", s.String())
	case err := <-httpServer.Notify():
		l.Error(fmt.Errorf("app - RunCamera - httpServer.Notify: %w", err))
	}

	// Shutdown
	if err := httpServer.Shutdown(); err != nil {
		l.Error(fmt.Errorf("app - RunCamera - httpServer.Shutdown: %w", err))
	}

	if responder != nil {
		rShutdownCtx, rShutdownCancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
		defer rShutdownCancel()
		if err := responder.Shutdown(rShutdownCtx); err != nil {
			l.Error(fmt.Errorf("app - RunCamera - responder.Shutdown: %w", err))
		}
	}
}

func newFrameSource(cfg config.Frame) frame.Source {
	switch cfg.Source {
	case "file":
		return frame.NewFileSource(cfg.Path)
	case "synthetic":
		return frame.NewSyntheticSource(cfg.Width, cfg.Height)
	default:
		return frame.NewCommandSource(cfg.Command, cfg.Args, cfg.CommandTimeout)
	}
}

func newIndicator(cfg config.Indicator, l logger.Interface) infrastructure.Indicator {
	if cfg.Driver == "sysfs" {
		return hardware.NewSysfsLED(cfg.Root, cfg.Name, cfg.MaxBrightness)
	}

	return hardware.NewLogIndicator(l)
}
