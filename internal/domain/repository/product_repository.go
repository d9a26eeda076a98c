package repository

import "github.com/jhoicas/mercado-ledger/internal/domain/entity"

// ProductRepository puerto de persistencia para productos del catálogo.
type ProductRepository interface {
	// Create persiste el producto y asigna el siguiente ID secuencial en p.ID.
	Create(p *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto; es la base de la garantía de
	// que dos órdenes concurrentes no sobrevendan el mismo stock.
	GetForUpdate(id int64) (*entity.Product, error)
	Update(p *entity.Product) error
	SetActive(id int64, active bool) error
	UpdateQuantity(id int64, quantity int64) error
}
