package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	StatusCreated              EventType = "status.created"
	StatusAuthorisationChanged EventType = "status.authorisation_changed"
)

// DecisionEvent is an audit record of a Status change.
type DecisionEvent struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	StatusID   uuid.UUID `json:"status_id"`
	PictureID  uuid.UUID `json:"picture_id"`
	Authorised bool      `json:"authorised"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewDecisionEvent(t EventType, s *Status, at time.Time) *DecisionEvent {
	return &DecisionEvent{
		ID:         uuid.New(),
		Type:       t,
		StatusID:   s.ID,
		PictureID:  s.PictureID,
		Authorised: s.Authorised,
		OccurredAt: at,
	}
}
