package catalog

import (
	"context"

	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// TxRunner transacción del catálogo: mutación del producto + evento en un
// único commit. El repositorio de cuentas permite evaluar los guards de rol
// dentro de la misma transacción.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		products repository.ProductRepository,
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error) error
}
