package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/application/events"
)

// EventsHandler expone el log de eventos para indexadores externos.
type EventsHandler struct {
	uc *events.UseCase
}

// NewEventsHandler construye el handler del log de eventos.
func NewEventsHandler(uc *events.UseCase) *EventsHandler {
	return &EventsHandler{uc: uc}
}

// List godoc
// @Summary      Página del log de eventos a partir de un cursor
// @Tags         events
// @Produce      json
// @Param        after  query  int  false  "ID del último evento visto"  default(0)
// @Param        limit  query  int  false  "Tamaño de página"            default(100)
// @Success      200    {object}  dto.EventListResponse
// @Router       /api/events [get]
func (h *EventsHandler) List(c *fiber.Ctx) error {
	after := int64(c.QueryInt("after", 0))
	limit := c.QueryInt("limit", 100)
	out, err := h.uc.ListAfter(after, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
