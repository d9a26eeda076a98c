package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, vendor, metadata_uri, price, quantity, active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Vendor, &p.MetadataURI, &p.Price, &p.Quantity, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

// Create persiste el producto; el ID secuencial 1-based lo asigna BIGSERIAL.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (vendor, metadata_uri, price, quantity, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		p.Vendor, p.MetadataURI, p.Price, p.Quantity, p.Active, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	return scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE): base de la
// serialización de órdenes concurrentes sobre el mismo stock.
func (r *ProductRepo) GetForUpdate(id int64) (*entity.Product, error) {
	return scanProduct(r.q.QueryRow(context.Background(),
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
}

// Update sobrescribe los campos mutables del producto.
func (r *ProductRepo) Update(p *entity.Product) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET metadata_uri = $2, price = $3, quantity = $4, updated_at = $5 WHERE id = $1`,
		p.ID, p.MetadataURI, p.Price, p.Quantity, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// SetActive alterna el flag de publicación.
func (r *ProductRepo) SetActive(id int64, active bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	return nil
}

// UpdateQuantity fija el stock (fila ya bloqueada por el caller).
func (r *ProductRepo) UpdateQuantity(id int64, quantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`,
		id, quantity,
	)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}
	return nil
}
