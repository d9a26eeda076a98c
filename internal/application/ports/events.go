package ports

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// AppendEvent serializa el payload, persiste el evento dentro de la tx en
// curso y lo devuelve para publicarlo después del commit.
func AppendEvent(events repository.EventRepository, eventType string, payload any) (*entity.LedgerEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("serializar payload de %s: %w", eventType, err)
	}
	ev := &entity.LedgerEvent{
		Type:      eventType,
		Payload:   body,
		EmittedAt: time.Now(),
	}
	if err := events.Append(ev); err != nil {
		return nil, fmt.Errorf("persistir evento %s: %w", eventType, err)
	}
	return ev, nil
}
