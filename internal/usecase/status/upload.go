package status

import (
	"context"
	"fmt"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/andreyxaxa/Access-Gate/pkg/idgen"
	"github.com/andreyxaxa/Access-Gate/pkg/types/errs"
	"github.com/google/uuid"
)

const (
	_uploadPrefix = "uploads/"
	_contentType  = "image/jpeg"
)

// CreateFromUpload stores the blob, then the Picture, then its Status.
// The two record writes are sequential. When the Status write fails the
// Picture stays and the error wraps errs.ErrIntegrity; the reconcile sweep
// repairs it later.
func (uc *StatusUseCase) CreateFromUpload(ctx context.Context, data []byte) (*entity.StatusProjection, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("StatusUseCase - CreateFromUpload: %w", errs.ErrEmptyPayload)
	}

	now := uc.clock.Now().UTC()

	name, err := objectName(now)
	if err != nil {
		return nil, fmt.Errorf("StatusUseCase - CreateFromUpload - objectName: %w", err)
	}

	// 1. blob
	url, err := uc.blobs.Upload(ctx, name, data, _contentType)
	if err != nil {
		return nil, fmt.Errorf("StatusUseCase - CreateFromUpload - uc.blobs.Upload: %w", err)
	}

	// 2. picture
	picture := &entity.Picture{
		ID:        uuid.New(),
		Name:      name,
		URL:       url,
		CreatedAt: now,
	}
	err = uc.pictures.Insert(ctx, picture)
	if err != nil {
		return nil, fmt.Errorf("StatusUseCase - CreateFromUpload - uc.pictures.Insert: %w", err)
	}

	// 3. status
	status := &entity.Status{
		ID:         uuid.New(),
		PictureID:  picture.ID,
		Authorised: false,
		CreatedAt:  now,
	}
	err = uc.statuses.Insert(ctx, status)
	if err != nil {
		uc.logger.Error(err, "StatusUseCase - CreateFromUpload - picture %s stored without status", picture.ID)

		return nil, fmt.Errorf("StatusUseCase - CreateFromUpload - uc.statuses.Insert (orphan picture %s): %w: %w",
			picture.ID, errs.ErrIntegrity, err)
	}

	uc.publish(ctx, entity.StatusCreated, status)

	return entity.NewStatusProjection(status, picture), nil
}

func objectName(at time.Time) (string, error) {
	suffix, err := idgen.Generate()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%scapture_%d_%s.jpg", _uploadPrefix, at.Unix(), suffix), nil
}
