// Package gate predicados de autorización del registro de roles. Se evalúan
// sobre el repositorio de cuentas que recibe cada función: dentro de una
// operación privilegiada ese repositorio es el de la transacción en curso, de
// modo que el rol se relee en el mismo commit que la mutación que protege.
// No hay caché: una revocación confirmada aplica a toda transacción posterior.
package gate

import (
	"fmt"

	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

func roleOf(accounts repository.AccountRepository, address string) (*entity.Account, error) {
	return accounts.GetByAddress(address)
}

// RequireAdmin falla con Unauthorized si el caller no es admin.
func RequireAdmin(accounts repository.AccountRepository, caller string) error {
	acc, err := roleOf(accounts, caller)
	if err != nil {
		return err
	}
	if acc == nil || acc.Role != entity.RoleAdmin {
		return fmt.Errorf("guardia admin: se requiere rol ADMIN: %w", domain.ErrUnauthorized)
	}
	return nil
}

// RequireActiveVendor falla si el caller no es vendor o está suspendido.
func RequireActiveVendor(accounts repository.AccountRepository, caller string) error {
	acc, err := roleOf(accounts, caller)
	if err != nil {
		return err
	}
	if acc == nil || !acc.IsActiveVendor() {
		return fmt.Errorf("guardia vendor: se requiere rol VENDOR activo: %w", domain.ErrUnauthorized)
	}
	return nil
}

// RequireClient falla si el caller no está registrado como cliente.
func RequireClient(accounts repository.AccountRepository, caller string) error {
	acc, err := roleOf(accounts, caller)
	if err != nil {
		return err
	}
	if acc == nil || acc.Role != entity.RoleClient {
		return fmt.Errorf("guardia client: se requiere rol CLIENT: %w", domain.ErrUnauthorized)
	}
	return nil
}

// IsAdmin query sin efecto: rol ADMIN.
func IsAdmin(accounts repository.AccountRepository, address string) (bool, error) {
	acc, err := roleOf(accounts, address)
	if err != nil {
		return false, err
	}
	return acc != nil && acc.Role == entity.RoleAdmin, nil
}

// IsVendor query sin efecto: rol VENDOR con el flag activo.
func IsVendor(accounts repository.AccountRepository, address string) (bool, error) {
	acc, err := roleOf(accounts, address)
	if err != nil {
		return false, err
	}
	return acc != nil && acc.IsActiveVendor(), nil
}

// IsClient query sin efecto: rol CLIENT.
func IsClient(accounts repository.AccountRepository, address string) (bool, error) {
	acc, err := roleOf(accounts, address)
	if err != nil {
		return false, err
	}
	return acc != nil && acc.Role == entity.RoleClient, nil
}
