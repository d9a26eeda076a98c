package events

import (
	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// UseCase lectura del log de eventos. Los indexadores externos reconstruyen
// listados completos de productos/órdenes/aplicaciones a partir de este feed
// más queries puntuales; el núcleo no expone "listar todo".
type UseCase struct {
	events repository.EventRepository
}

// NewUseCase construye el caso de uso del feed.
func NewUseCase(events repository.EventRepository) *UseCase {
	return &UseCase{events: events}
}

// ListAfter página del log a partir del cursor (exclusivo). After en la
// respuesta es el cursor para la siguiente página.
func (uc *UseCase) ListAfter(afterID int64, limit int) (*dto.EventListResponse, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	list, err := uc.events.ListAfter(afterID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EventResponse, 0, len(list))
	next := afterID
	for _, ev := range list {
		items = append(items, dto.EventResponse{
			ID:        ev.ID,
			Type:      ev.Type,
			Payload:   ev.Payload,
			EmittedAt: ev.EmittedAt,
		})
		if ev.ID > next {
			next = ev.ID
		}
	}
	return &dto.EventListResponse{Items: items, After: next}, nil
}
