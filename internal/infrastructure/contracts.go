package infrastructure

import (
	"context"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
)

type (
	// Notifier delivers a decision to the gateway. At most once, no retries.
	Notifier interface {
		Notify(ctx context.Context, push entity.AuthorizationPush) error
	}

	EventPublisher interface {
		Publish(ctx context.Context, event *entity.DecisionEvent) error
		Close() error
	}

	// FrameSource produces one JPEG frame per call.
	FrameSource interface {
		Capture(ctx context.Context) ([]byte, error)
	}

	// Indicator is the camera's illumination LED.
	Indicator interface {
		On() error
		Off() error
	}

	// Uploader sends a captured frame to the status service.
	Uploader interface {
		UploadPicture(ctx context.Context, jpeg []byte) (*entity.StatusProjection, error)
	}
)
