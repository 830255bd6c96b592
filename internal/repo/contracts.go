package repo

import (
	"context"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/google/uuid"
)

type (
	PictureRepo interface {
		Insert(ctx context.Context, picture *entity.Picture) error
		FindByID(ctx context.Context, id uuid.UUID) (*entity.Picture, error)
	}

	StatusRepo interface {
		Insert(ctx context.Context, status *entity.Status) error
		FindByID(ctx context.Context, id uuid.UUID) (*entity.Status, error)
		// FindAndUpdateAuthorised is a single atomic find-and-modify. It returns
		// the updated record.
		FindAndUpdateAuthorised(ctx context.Context, id uuid.UUID, authorised bool, updatedAt time.Time) (*entity.Status, error)
	}

	// BlobRepo stores raw objects and returns their public URL.
	BlobRepo interface {
		Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	}

	// OrphanPictureRepo lists Pictures that have no Status.
	OrphanPictureRepo interface {
		FindOrphans(ctx context.Context, createdBefore time.Time, limit int) ([]*entity.Picture, error)
	}
)
