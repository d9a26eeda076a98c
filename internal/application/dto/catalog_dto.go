package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto (vendor activo).
type CreateProductRequest struct {
	MetadataURI string          `json:"metadata_uri" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
}

// UpdateProductRequest sobrescritura completa de los campos mutables (no es
// un patch parcial).
type UpdateProductRequest struct {
	MetadataURI string          `json:"metadata_uri" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
}

// SetProductActiveRequest alterna el flag de publicación del producto.
type SetProductActiveRequest struct {
	Active bool `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          int64           `json:"id"`
	Vendor      string          `json:"vendor"`
	MetadataURI string          `json:"metadata_uri"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductAvailabilityResponse disponibilidad para ordenar.
type ProductAvailabilityResponse struct {
	ID        int64 `json:"id"`
	Available bool  `json:"available"`
}
