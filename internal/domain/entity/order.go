package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del ciclo de vida de una orden.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderApproved  OrderStatus = "APPROVED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order orden de compra. Vendor y TotalPrice son snapshots tomados al crear la
// orden y nunca se recalculan, aunque el producto cambie de precio o dueño.
type Order struct {
	ID          int64
	Buyer       string
	Vendor      string // copiado del producto al crear
	ProductID   int64
	Quantity    int64
	TotalPrice  decimal.Decimal // price × quantity al momento de creación
	Status      OrderStatus
	MetadataURI string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
