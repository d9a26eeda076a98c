package orders

import (
	"context"

	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// TxRunner transacción de órdenes: creación de la orden + decremento de
// inventario + movimiento de fondos en un único commit. "la orden existe" ⟺
// "el inventario bajó" ⟺ "el pago se movió".
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error) error
}
