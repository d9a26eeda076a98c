package ports

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
)

// EventPublisher publica eventos ya confirmados (post-commit) hacia el broker.
// El registro durable es la tabla ledger_events; la publicación es best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
}

// PublishCommitted publica cada evento con su tipo como routing key. Un fallo
// de publicación no afecta la transacción ya confirmada: se registra y sigue.
func PublishCommitted(ctx context.Context, pub EventPublisher, events []*entity.LedgerEvent) {
	if pub == nil {
		return
	}
	for _, ev := range events {
		body, err := json.Marshal(dto.EventResponse{
			ID:        ev.ID,
			Type:      ev.Type,
			Payload:   ev.Payload,
			EmittedAt: ev.EmittedAt,
		})
		if err != nil {
			log.Error().Err(err).Str("type", ev.Type).Msg("serializar evento para publicar")
			continue
		}
		if err := pub.Publish(ctx, ev.Type, body); err != nil {
			log.Warn().Err(err).Int64("event_id", ev.ID).Str("type", ev.Type).Msg("publicar evento al broker")
		}
	}
}
