package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/internal/infrastructure"
	"github.com/andreyxaxa/Access-Gate/internal/repo"
	"github.com/andreyxaxa/Access-Gate/pkg/clock"
	"github.com/andreyxaxa/Access-Gate/pkg/logger"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/google/uuid"
)

// Reconciler gives every orphan Picture the Status it should have had.
type Reconciler struct {
	orphans  repo.OrphanPictureRepo
	statuses repo.StatusRepo
	events   infrastructure.EventPublisher

	clock  clock.Clock
	logger logger.Interface
}

func NewReconciler(
	orphans repo.OrphanPictureRepo,
	statuses repo.StatusRepo,
	events infrastructure.EventPublisher,
	c clock.Clock,
	l logger.Interface,
) *Reconciler {
	return &Reconciler{
		orphans:  orphans,
		statuses: statuses,
		events:   events,
		clock:    c,
		logger:   l,
	}
}

// ReconcileOrphans only looks at Pictures older than gracePeriod so an
// upload that is between its two writes is left alone.
func (r *Reconciler) ReconcileOrphans(ctx context.Context, gracePeriod time.Duration, limit int) (int, error) {
	now := r.clock.Now().UTC()

	pictures, err := r.orphans.FindOrphans(ctx, now.Add(-gracePeriod), limit)
	if err != nil {
		return 0, fmt.Errorf("Reconciler - ReconcileOrphans - r.orphans.FindOrphans: %w", err)
	}

	repaired := 0
	for _, picture := range pictures {
		status := &entity.Status{
			ID:         uuid.New(),
			PictureID:  picture.ID,
			Authorised: false,
			CreatedAt:  now,
		}

		err = r.statuses.Insert(ctx, status)
		if errors.Is(err, errs.ErrConflict) {
			continue
		}
		if err != nil {
			return repaired, fmt.Errorf("Reconciler - ReconcileOrphans - r.statuses.Insert: %w", err)
		}

		r.logger.Warn("Reconciler - ReconcileOrphans - created status %s for orphan picture %s", status.ID, picture.ID)

		err = r.events.Publish(ctx, entity.NewDecisionEvent(entity.StatusCreated, status, now))
		if err != nil {
			r.logger.Warn("Reconciler - ReconcileOrphans - r.events.Publish: %v", err)
		}

		repaired++
	}

	return repaired, nil
}
