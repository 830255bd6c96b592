package usecase

import (
	"context"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/google/uuid"
)

type (
	StatusUseCase interface {
		CreateFromUpload(ctx context.Context, data []byte) (*entity.StatusProjection, error)
		Get(ctx context.Context, id uuid.UUID) (*entity.StatusProjection, error)
		SetAuthorisation(ctx context.Context, id uuid.UUID, authorised bool) (*entity.StatusProjection, error)
		PushDecision(ctx context.Context, id uuid.UUID) (*entity.StatusProjection, error)
	}

	ReconcileUseCase interface {
		ReconcileOrphans(ctx context.Context, gracePeriod time.Duration, limit int) (int, error)
	}

	CaptureUseCase interface {
		// Capture takes a frame and uploads it.
		Capture(ctx context.Context) (*entity.StatusProjection, error)
		// CaptureFrame only takes the frame.
		CaptureFrame(ctx context.Context) ([]byte, error)
	}
)
