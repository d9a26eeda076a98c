package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

var _ repository.EventRepository = (*EventRepo)(nil)

// EventRepo implementación del puerto EventRepository sobre PostgreSQL
// (usable con pool o tx).
type EventRepo struct {
	q Querier
}

// NewEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEventRepository(q Querier) *EventRepo {
	return &EventRepo{q: q}
}

// Append persiste el evento dentro de la tx en curso; el ID secuencial lo
// asigna BIGSERIAL.
func (r *EventRepo) Append(ev *entity.LedgerEvent) error {
	err := r.q.QueryRow(context.Background(),
		`INSERT INTO ledger_events (type, payload, emitted_at) VALUES ($1, $2, $3) RETURNING id`,
		ev.Type, ev.Payload, ev.EmittedAt,
	).Scan(&ev.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// ListAfter página del log a partir del cursor (exclusivo), en orden de ID.
func (r *EventRepo) ListAfter(afterID int64, limit int) ([]*entity.LedgerEvent, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, type, payload, emitted_at FROM ledger_events WHERE id > $1 ORDER BY id ASC LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEvent
	for rows.Next() {
		var ev entity.LedgerEvent
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.Payload, &ev.EmittedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		list = append(list, &ev)
	}
	return list, rows.Err()
}
