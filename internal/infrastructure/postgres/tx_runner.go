package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/mercado-ledger/internal/application/auth"
	"github.com/jhoicas/mercado-ledger/internal/application/catalog"
	"github.com/jhoicas/mercado-ledger/internal/application/onboarding"
	"github.com/jhoicas/mercado-ledger/internal/application/orders"
	"github.com/jhoicas/mercado-ledger/internal/application/registry"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos de transacción de cada componente.
var _ auth.TxRunner = (*TxRunner)(nil)
var _ registry.TxRunner = (*TxRunner)(nil)
var _ onboarding.TxRunner = (*TxRunner)(nil)
var _ catalog.TxRunner = (*TxRunner)(nil)
var _ orders.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Cada
// operación pública del ledger corre en un Run*: Commit si todo ok, Rollback
// si algo falla (all-or-nothing, como el modelo de ejecución del ledger).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunAccounts transacción de cuentas (alta, depósito).
func (r *TxRunner) RunAccounts(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	events repository.EventRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewAccountRepository(q), NewEventRepository(q))
	})
}

// RunRegistry transacción del registro de roles.
func (r *TxRunner) RunRegistry(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	settings repository.SettingsRepository,
	events repository.EventRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewAccountRepository(q), NewSettingsRepository(q), NewEventRepository(q))
	})
}

// RunOnboarding transacción del onboarding (aplicación, escrow, tesorería y
// cross-call de promoción).
func (r *TxRunner) RunOnboarding(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	applications repository.ApplicationRepository,
	settings repository.SettingsRepository,
	treasury repository.TreasuryRepository,
	events repository.EventRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewAccountRepository(q), NewApplicationRepository(q),
			NewSettingsRepository(q), NewTreasuryRepository(q), NewEventRepository(q))
	})
}

// RunCatalog transacción del catálogo.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	products repository.ProductRepository,
	accounts repository.AccountRepository,
	settings repository.SettingsRepository,
	events repository.EventRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewProductRepository(q), NewAccountRepository(q),
			NewSettingsRepository(q), NewEventRepository(q))
	})
}

// RunOrders transacción de órdenes (orden + inventario + fondos).
func (r *TxRunner) RunOrders(ctx context.Context, fn func(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	accounts repository.AccountRepository,
	settings repository.SettingsRepository,
	events repository.EventRepository,
) error) error {
	return r.run(ctx, func(q Querier) error {
		return fn(NewOrderRepository(q), NewProductRepository(q),
			NewAccountRepository(q), NewSettingsRepository(q), NewEventRepository(q))
	})
}
