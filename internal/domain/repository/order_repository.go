package repository

import "github.com/jhoicas/mercado-ledger/internal/domain/entity"

// OrderRepository puerto de persistencia para órdenes.
type OrderRepository interface {
	// Create persiste la orden y asigna el siguiente ID secuencial en o.ID.
	Create(o *entity.Order) error
	GetByID(id int64) (*entity.Order, error)
	GetForUpdate(id int64) (*entity.Order, error)
	UpdateStatus(id int64, status entity.OrderStatus) error
}
