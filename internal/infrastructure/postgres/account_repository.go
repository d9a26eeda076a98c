package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL
// (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `address, email, password_hash, role, vendor_active, balance, created_at, updated_at`

func (r *AccountRepo) scanAccount(row pgx.Row) (*entity.Account, error) {
	var a entity.Account
	err := row.Scan(&a.Address, &a.Email, &a.PasswordHash, &a.Role, &a.VendorActive, &a.Balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

// Create persiste una cuenta nueva (rol NONE, saldo 0).
func (r *AccountRepo) Create(account *entity.Account) error {
	query := `
		INSERT INTO accounts (address, email, password_hash, role, vendor_active, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		account.Address, account.Email, account.PasswordHash, account.Role,
		account.VendorActive, account.Balance, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByAddress obtiene una cuenta por address. (nil, nil) si no existe.
func (r *AccountRepo) GetByAddress(address string) (*entity.Account, error) {
	return r.scanAccount(r.q.QueryRow(context.Background(),
		`SELECT `+accountColumns+` FROM accounts WHERE address = $1`, address))
}

// GetByEmail obtiene una cuenta por email.
func (r *AccountRepo) GetByEmail(email string) (*entity.Account, error) {
	return r.scanAccount(r.q.QueryRow(context.Background(),
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
}

// GetForUpdate bloquea la fila de la cuenta (SELECT FOR UPDATE).
func (r *AccountRepo) GetForUpdate(address string) (*entity.Account, error) {
	return r.scanAccount(r.q.QueryRow(context.Background(),
		`SELECT `+accountColumns+` FROM accounts WHERE address = $1 FOR UPDATE`, address))
}

// UpdateRole fuerza rol y flag de vendor.
func (r *AccountRepo) UpdateRole(address string, role entity.Role, vendorActive bool) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE accounts SET role = $2, vendor_active = $3, updated_at = now() WHERE address = $1`,
		address, role, vendorActive,
	)
	if err != nil {
		return fmt.Errorf("update account role: %w", err)
	}
	return nil
}

// UpdateBalance fija el saldo de la cuenta (fila ya bloqueada por el caller).
func (r *AccountRepo) UpdateBalance(address string, balance decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE accounts SET balance = $2, updated_at = now() WHERE address = $1`,
		address, balance,
	)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	return nil
}
