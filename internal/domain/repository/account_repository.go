package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
)

// AccountRepository puerto de persistencia para cuentas (DIP).
// Los Get* devuelven (nil, nil) si la cuenta no existe.
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByAddress(address string) (*entity.Account, error)
	GetByEmail(email string) (*entity.Account, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para mutar saldo o rol
	// sin carreras dentro de la transacción.
	GetForUpdate(address string) (*entity.Account, error)
	UpdateRole(address string, role entity.Role, vendorActive bool) error
	UpdateBalance(address string, balance decimal.Decimal) error
}
