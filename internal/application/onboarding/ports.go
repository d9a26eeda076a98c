package onboarding

import (
	"context"

	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// TxRunner transacción del onboarding: aplicación + escrow + cross-call de
// promoción a vendor en un único commit (all-or-nothing).
type TxRunner interface {
	RunOnboarding(ctx context.Context, fn func(
		accounts repository.AccountRepository,
		applications repository.ApplicationRepository,
		settings repository.SettingsRepository,
		treasury repository.TreasuryRepository,
		events repository.EventRepository,
	) error) error
}
