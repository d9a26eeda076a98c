package repository

import "github.com/jhoicas/mercado-ledger/internal/domain/entity"

// EventRepository puerto del log de eventos. Append corre dentro de la misma
// transacción que la mutación que lo origina.
type EventRepository interface {
	// Append persiste el evento y asigna el ID secuencial en ev.ID.
	Append(ev *entity.LedgerEvent) error
	ListAfter(afterID int64, limit int) ([]*entity.LedgerEvent, error)
}
