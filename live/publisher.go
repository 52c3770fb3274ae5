package live

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Dosada05/swiss-tables/models"
)

// Relay carries encoded messages to every instance, this one included.
type Relay interface {
	Publish(ctx context.Context, payload []byte) error
}

// Publisher turns committed tournament events into websocket messages.
// With a relay the message goes through it; otherwise it is broadcast to
// the local hub directly.
type Publisher struct {
	hub    *Hub
	relay  Relay
	logger *slog.Logger
}

func NewPublisher(hub *Hub, relay Relay, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{hub: hub, relay: relay, logger: logger}
}

func (p *Publisher) Publish(ctx context.Context, event models.Event) {
	payload, err := json.Marshal(Message{
		Type:    string(event.Type),
		Payload: event,
		RoomID:  TournamentRoom,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to encode event", slog.String("type", string(event.Type)), slog.Any("error", err))
		return
	}

	if p.relay != nil {
		err := p.relay.Publish(ctx, payload)
		if err == nil {
			return
		}
		p.logger.WarnContext(ctx, "relay publish failed, broadcasting locally", slog.Any("error", err))
	}
	p.hub.BroadcastRaw(TournamentRoom, payload)
}
