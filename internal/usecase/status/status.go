package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure"
	"github.com/andreyxaxa/Access-Gate/internal/repo"
	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/google/uuid"
)

type StatusUseCase struct {
	pictures repo.PictureRepo
	statuses repo.StatusRepo
	blobs    repo.BlobRepo
	notifier infrastructure.Notifier
	events   infrastructure.EventPublisher

	clock  clock.Clock
	logger logger.Interface
}

func New(
	pictures repo.PictureRepo,
	statuses repo.StatusRepo,
	blobs repo.BlobRepo,
	notifier infrastructure.Notifier,
	events infrastructure.EventPublisher,
	l logger.Interface,
	opts ...Option,
) *StatusUseCase {
	uc := &StatusUseCase{
		pictures: pictures,
		statuses: statuses,
		blobs:    blobs,
		notifier: notifier,
		events:   events,
		clock:    clock.Real(),
		logger:   l,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

func (uc *StatusUseCase) Get(ctx context.Context, id uuid.UUID) (*entity.StatusProjection, error) {
	status, err := uc.statuses.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("StatusUseCase - Get - uc.statuses.FindByID: %w", err)
	}

	projection, err := uc.project(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("StatusUseCase - Get: %w", err)
	}

	return projection, nil
}

// SetAuthorisation does not push the decision; callers follow up with
// PushDecision.
func (uc *StatusUseCase) SetAuthorisation(ctx context.Context, id uuid.UUID, authorised bool) (*entity.StatusProjection, error) {
	status, err := uc.statuses.FindAndUpdateAuthorised(ctx, id, authorised, uc.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("StatusUseCase - SetAuthorisation - uc.statuses.FindAndUpdateAuthorised: %w", err)
	}

	uc.publish(ctx, entity.StatusAuthorisationChanged, status)

	projection, err := uc.project(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("StatusUseCase - SetAuthorisation: %w", err)
	}

	return projection, nil
}

// PushDecision sends the current decision to the gateway once. A failed
// delivery leaves the stored decision as it is.
func (uc *StatusUseCase) PushDecision(ctx context.Context, id uuid.UUID) (*entity.StatusProjection, error) {
	projection, err := uc.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("StatusUseCase - PushDecision: %w", err)
	}

	err = uc.notifier.Notify(ctx, projection.Push())
	if err != nil {
		return nil, fmt.Errorf("StatusUseCase - PushDecision - uc.notifier.Notify: %w", err)
	}

	return projection, nil
}

// project joins status with its picture. A missing picture is an integrity
// fault that still reads as not found.
func (uc *StatusUseCase) project(ctx context.Context, status *entity.Status) (*entity.StatusProjection, error) {
	picture, err := uc.pictures.FindByID(ctx, status.PictureID)
	if err != nil {
		if errors.Is(err, errs.ErrRecordNotFound) {
			uc.logger.Error(err, "StatusUseCase - project - status %s references missing picture %s", status.ID, status.PictureID)

			return nil, fmt.Errorf("uc.pictures.FindByID %s: %w: %w", status.PictureID, errs.ErrIntegrity, err)
		}
		return nil, fmt.Errorf("uc.pictures.FindByID: %w", err)
	}

	return entity.NewStatusProjection(status, picture), nil
}

func (uc *StatusUseCase) publish(ctx context.Context, t entity.EventType, status *entity.Status) {
	err := uc.events.Publish(ctx, entity.NewDecisionEvent(t, status, uc.clock.Now().UTC()))
	if err != nil {
		uc.logger.Warn("StatusUseCase - publish - %s for status %s: %v", t, status.ID, err)
	}
}
