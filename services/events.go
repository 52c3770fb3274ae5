package services

import (
	"context"
	"time"

	"github.com/Dosada05/swiss-tables/models"
)

// EventPublisher receives events after the change is committed. It must
// not block.
type EventPublisher interface {
	Publish(ctx context.Context, event models.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, models.Event) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

func publish(ctx context.Context, p EventPublisher, event models.Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	p.Publish(ctx, event)
}
