// Package document keeps Pictures and Statuses in MongoDB collections.
package document

import (
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
	"github.com/google/uuid"
)

const (
	picturesCollection = "pictures"
	statusesCollection = "statuses"
)

type pictureDocument struct {
	ID        string     `bson:"_id"`
	Name      string     `bson:"name"`
	URL       string     `bson:"url"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at"`
}

type statusDocument struct {
	ID         string     `bson:"_id"`
	PictureID  string     `bson:"picture_id"`
	Authorised bool       `bson:"authorised"`
	CreatedAt  time.Time  `bson:"created_at"`
	UpdatedAt  *time.Time `bson:"updated_at"`
}

func fromPicture(p *entity.Picture) pictureDocument {
	return pictureDocument{
		ID:        p.ID.String(),
		Name:      p.Name,
		URL:       p.URL,
		CreatedAt: p.CreatedAt.UTC(),
		UpdatedAt: utcPtr(p.UpdatedAt),
	}
}

func (d pictureDocument) entity() (*entity.Picture, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}

	return &entity.Picture{
		ID:        id,
		Name:      d.Name,
		URL:       d.URL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func fromStatus(s *entity.Status) statusDocument {
	return statusDocument{
		ID:         s.ID.String(),
		PictureID:  s.PictureID.String(),
		Authorised: s.Authorised,
		CreatedAt:  s.CreatedAt.UTC(),
		UpdatedAt:  utcPtr(s.UpdatedAt),
	}
}

func (d statusDocument) entity() (*entity.Status, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}

	pictureID, err := uuid.Parse(d.PictureID)
	if err != nil {
		return nil, err
	}

	return &entity.Status{
		ID:         id,
		PictureID:  pictureID,
		Authorised: d.Authorised,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
