package repository

import "github.com/shopspring/decimal"

// Claves de configuración privilegiada del ledger.
const (
	SettingOnboardingModule  = "onboarding_module"
	SettingInventoryAdjustor = "inventory_adjustor"
)

// SettingsRepository direcciones autorizadas para los cross-calls
// privilegiados (módulo de onboarding, ajustador de inventario).
// Get devuelve ("", nil) si la clave no está configurada.
type SettingsRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// TreasuryRepository saldo de tesorería del onboarding: stakes retenidos tras
// aprobaciones, menos retiros de admin.
type TreasuryRepository interface {
	Balance() (decimal.Decimal, error)
	BalanceForUpdate() (decimal.Decimal, error)
	SetBalance(balance decimal.Decimal) error
}
