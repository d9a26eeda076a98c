package dto

import (
	"encoding/json"
	"time"
)

// EventResponse entrada del log de eventos para indexadores externos.
type EventResponse struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	EmittedAt time.Time       `json:"emitted_at"`
}

// EventListResponse página del log; After es el cursor para la siguiente página.
type EventListResponse struct {
	Items []EventResponse `json:"items"`
	After int64           `json:"after"`
}
