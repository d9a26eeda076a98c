package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL
// (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, buyer, vendor, product_id, quantity, total_price, status, metadata_uri, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.Buyer, &o.Vendor, &o.ProductID, &o.Quantity, &o.TotalPrice, &o.Status, &o.MetadataURI, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}

// Create persiste la orden; el ID secuencial 1-based lo asigna BIGSERIAL.
// Buyer, vendor y total_price quedan como snapshot inmutable.
func (r *OrderRepo) Create(o *entity.Order) error {
	query := `
		INSERT INTO orders (buyer, vendor, product_id, quantity, total_price, status, metadata_uri, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		o.Buyer, o.Vendor, o.ProductID, o.Quantity, o.TotalPrice, o.Status, o.MetadataURI, o.CreatedAt, o.UpdatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID. (nil, nil) si no existe.
func (r *OrderRepo) GetByID(id int64) (*entity.Order, error) {
	return scanOrder(r.q.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(id int64) (*entity.Order, error) {
	return scanOrder(r.q.QueryRow(context.Background(),
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
}

// UpdateStatus fija el estado de la orden (la validación de transición vive
// en el caso de uso).
func (r *OrderRepo) UpdateStatus(id int64, status entity.OrderStatus) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}
