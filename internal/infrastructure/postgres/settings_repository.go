package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)
var _ repository.TreasuryRepository = (*TreasuryRepo)(nil)

// SettingsRepo direcciones privilegiadas del ledger sobre PostgreSQL.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve el valor de la clave, o ("", nil) si no está configurada.
func (r *SettingsRepo) Get(key string) (string, error) {
	var value string
	err := r.q.QueryRow(context.Background(),
		`SELECT value FROM ledger_settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

// Set inserta o sobrescribe la clave.
func (r *SettingsRepo) Set(key, value string) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO ledger_settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// TreasuryRepo saldo de tesorería (fila única) sobre PostgreSQL.
type TreasuryRepo struct {
	q Querier
}

// NewTreasuryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTreasuryRepository(q Querier) *TreasuryRepo {
	return &TreasuryRepo{q: q}
}

// Balance saldo actual.
func (r *TreasuryRepo) Balance() (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT balance FROM ledger_treasury WHERE id = 1`).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get treasury: %w", err)
	}
	return balance, nil
}

// BalanceForUpdate bloquea la fila de tesorería (SELECT FOR UPDATE).
func (r *TreasuryRepo) BalanceForUpdate() (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT balance FROM ledger_treasury WHERE id = 1 FOR UPDATE`).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("lock treasury: %w", err)
	}
	return balance, nil
}

// SetBalance fija el saldo (fila ya bloqueada por el caller).
func (r *TreasuryRepo) SetBalance(balance decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE ledger_treasury SET balance = $1 WHERE id = 1`, balance)
	if err != nil {
		return fmt.Errorf("update treasury: %w", err)
	}
	return nil
}
