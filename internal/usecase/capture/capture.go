package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure/frame"
	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
)

var (
	ErrCaptureFailed = errors.New("failed to capture image")
	ErrUploadFailed  = errors.New("failed to upload image")
)

const _defaultSettle = 500 * time.Millisecond

type CaptureUseCase struct {
	// guards camera and indicator
	mu        sync.Mutex
	camera    infrastructure.FrameSource
	indicator infrastructure.Indicator

	uploader infrastructure.Uploader

	settle time.Duration
	clock  clock.Clock
	logger logger.Interface
}

func New(
	camera infrastructure.FrameSource,
	indicator infrastructure.Indicator,
	uploader infrastructure.Uploader,
	l logger.Interface,
	opts ...Option,
) *CaptureUseCase {
	uc := &CaptureUseCase{
		camera:    camera,
		indicator: indicator,
		uploader:  uploader,
		settle:    _defaultSettle,
		clock:     clock.Real(),
		logger:    l,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// Capture takes one frame and uploads it. Nothing is stored unless the
// upload completes, since the service persists only full uploads.
func (uc *CaptureUseCase) Capture(ctx context.Context) (*entity.StatusProjection, error) {
	jpeg, err := uc.CaptureFrame(ctx)
	if err != nil {
		return nil, fmt.Errorf("CaptureUseCase - Capture: %w", err)
	}

	uc.inspect(jpeg)

	projection, err := uc.uploader.UploadPicture(ctx, jpeg)
	if err != nil {
		return nil, fmt.Errorf("CaptureUseCase - Capture - uc.uploader.UploadPicture: %w: %w", ErrUploadFailed, err)
	}

	uc.logger.Info("CaptureUseCase - Capture - uploaded as status %s", projection.ID)

	return projection, nil
}

// CaptureFrame holds the camera for flash on, settle, read, flash off. The
// flash is switched off on every path.
func (uc *CaptureUseCase) CaptureFrame(ctx context.Context) ([]byte, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.indicator.On(); err != nil {
		uc.logger.Warn("CaptureUseCase - CaptureFrame - uc.indicator.On: %v", err)
	}
	defer func() {
		if err := uc.indicator.Off(); err != nil {
			uc.logger.Error(err, "CaptureUseCase - CaptureFrame - uc.indicator.Off")
		}
	}()

	select {
	case <-uc.clock.After(uc.settle):
	case <-ctx.Done():
		return nil, fmt.Errorf("CaptureUseCase - CaptureFrame: %w: %w", ErrCaptureFailed, ctx.Err())
	}

	jpeg, err := uc.camera.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("CaptureUseCase - CaptureFrame - uc.camera.Capture: %w: %w", ErrCaptureFailed, err)
	}

	return jpeg, nil
}

// inspect only logs. A frame that fails inspection is still uploaded.
func (uc *CaptureUseCase) inspect(jpeg []byte) {
	info, err := frame.Inspect(jpeg)
	if err != nil {
		uc.logger.Warn("CaptureUseCase - inspect - %d bytes: %v", len(jpeg), err)
		return
	}

	uc.logger.Debug("CaptureUseCase - inspect - %s %dx%d, %d bytes", info.Format, info.Width, info.Height, info.Size)
}
