package entity

import (
	"time"

	"github.com/google/uuid"
)

// Status is the review decision for exactly one Picture.
type Status struct {
	ID        uuid.UUID `json:"id"`
	PictureID uuid.UUID `json:"picture_id"`

	Authorised bool `json:"authorised"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// StatusProjection is a Status joined with its Picture. It is the body of
// every status-shaped response.
type StatusProjection struct {
	ID         uuid.UUID  `json:"id"`
	Picture    Picture    `json:"picture"`
	Authorised bool       `json:"authorised"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

func NewStatusProjection(s *Status, p *Picture) *StatusProjection {
	return &StatusProjection{
		ID:         s.ID,
		Picture:    *p,
		Authorised: s.Authorised,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// AuthorizationPush is what the gateway receives on POST /authorised.
type AuthorizationPush struct {
	ID         string `json:"id"`
	Authorised bool   `json:"authorised"`
}

func (p *StatusProjection) Push() AuthorizationPush {
	return AuthorizationPush{
		ID:         p.ID.String(),
		Authorised: p.Authorised,
	}
}
