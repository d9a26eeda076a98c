package registry

import (
	"context"

	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del registro atados a esa tx. Cada operación pública del
// registro corre completa dentro de un Run: o todos sus efectos (mutación de
// rol + evento) se confirman, o ninguno.
type TxRunner interface {
	RunRegistry(ctx context.Context, fn func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error) error
}
