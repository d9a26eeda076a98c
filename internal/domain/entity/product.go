package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo de un vendor. El ID es secuencial 1-based,
// inmutable y nunca se reutiliza. Quantity solo baja por la ruta privilegiada
// de ajuste de inventario (colocación de órdenes) o por el dueño, y nunca
// queda negativa.
type Product struct {
	ID          int64
	Vendor      string
	MetadataURI string
	Price       decimal.Decimal // precio por unidad
	Quantity    int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Available indica si el producto puede ordenarse: activo y con stock.
func (p *Product) Available() bool {
	return p.Active && p.Quantity > 0
}
