package entity

import (
	"time"

	"github.com/google/uuid"
)

type Picture struct {
	ID uuid.UUID `json:"id"`

	Name string `json:"name"`
	URL  string `json:"url"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
