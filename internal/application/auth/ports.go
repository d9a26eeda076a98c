package auth

import (
	"context"

	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// TxRunner transacción de cuentas: alta o abono de saldo + evento en un
// único commit.
type TxRunner interface {
	RunAccounts(ctx context.Context, fn func(
		accounts repository.AccountRepository,
		events repository.EventRepository,
	) error) error
}
