package events

import (
	"context"

	"github.com/andreyxaxa/Access-Gate/internal/entity"
)

// NoopPublisher drops every event. Used when EVENTS_DRIVER=none.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *entity.DecisionEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
