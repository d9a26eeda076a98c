package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest entrada para crear una orden (client).
type CreateOrderRequest struct {
	ProductID   int64  `json:"product_id" validate:"required"`
	Quantity    int64  `json:"quantity"`
	MetadataURI string `json:"metadata_uri" validate:"required"`
}

// UpdateOrderStatusRequest avance de estado por el vendor de la orden o un admin.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID          int64           `json:"id"`
	Buyer       string          `json:"buyer"`
	Vendor      string          `json:"vendor"`
	ProductID   int64           `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      string          `json:"status"`
	MetadataURI string          `json:"metadata_uri"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
