package registry

import (
	"context"
	"fmt"

	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/application/gate"
	"github.com/jhoicas/mercado-ledger/internal/application/ports"
	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// UseCase operaciones del registro de roles. Toda mutación corre dentro de
// una transacción (TxRunner) junto con su evento; los guards se evalúan
// dentro de esa misma transacción, sobre los repos atados a ella.
type UseCase struct {
	txRunner  TxRunner
	accounts  repository.AccountRepository
	publisher ports.EventPublisher
}

// NewUseCase construye el caso de uso del registro.
func NewUseCase(txRunner TxRunner, accounts repository.AccountRepository, publisher ports.EventPublisher) *UseCase {
	return &UseCase{txRunner: txRunner, accounts: accounts, publisher: publisher}
}

type rolePayload struct {
	Address      string `json:"address"`
	Role         string `json:"role"`
	VendorActive bool   `json:"vendor_active"`
}

// RegisterClient transición None → Client del propio caller.
func (uc *UseCase) RegisterClient(ctx context.Context, caller string) error {
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunRegistry(ctx, func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		acc, err := accounts.GetForUpdate(caller)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrNotFound
		}
		if acc.Role != entity.RoleNone {
			return domain.ErrAlreadyRegistered
		}
		if err := accounts.UpdateRole(caller, entity.RoleClient, false); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventRoleGranted, rolePayload{Address: caller, Role: string(entity.RoleClient)})
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		return nil
	})
	if err != nil {
		return err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return nil
}

// GrantAdmin fuerza el rol ADMIN sobre la cuenta indicada (admin-only).
func (uc *UseCase) GrantAdmin(ctx context.Context, caller, target string) error {
	return uc.grant(ctx, caller, target, entity.RoleAdmin, false)
}

// GrantVendor fuerza el rol VENDOR con el flag activo en true (admin-only).
func (uc *UseCase) GrantVendor(ctx context.Context, caller, target string) error {
	return uc.grant(ctx, caller, target, entity.RoleVendor, true)
}

func (uc *UseCase) grant(ctx context.Context, caller, target string, role entity.Role, vendorActive bool) error {
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunRegistry(ctx, func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		if err := gate.RequireAdmin(accounts, caller); err != nil {
			return err
		}
		ev, err := applyGrant(accounts, events, target, role, vendorActive)
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		return nil
	})
	if err != nil {
		return err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return nil
}

// applyGrant aplica un force-set de rol sobre repos atados a la tx en curso.
// Lo comparten los grants de admin y el cross-call del módulo de onboarding.
func applyGrant(
	accounts repository.AccountRepository,
	events repository.EventRepository,
	target string,
	role entity.Role,
	vendorActive bool,
) (*entity.LedgerEvent, error) {
	acc, err := accounts.GetForUpdate(target)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	if err := accounts.UpdateRole(target, role, vendorActive); err != nil {
		return nil, err
	}
	return ports.AppendEvent(events, entity.EventRoleGranted, rolePayload{
		Address: target, Role: string(role), VendorActive: vendorActive,
	})
}

// GrantVendorFromModule promoción a Vendor solicitada por el módulo de
// onboarding. Solo la dirección configurada como módulo puede invocarla; corre
// sobre los repos de la transacción del llamador para que la aprobación y la
// promoción sean un único commit.
func GrantVendorFromModule(
	moduleKey, target string,
	accounts repository.AccountRepository,
	settings repository.SettingsRepository,
	events repository.EventRepository,
) (*entity.LedgerEvent, error) {
	configured, err := settings.Get(repository.SettingOnboardingModule)
	if err != nil {
		return nil, err
	}
	if configured == "" || configured != moduleKey {
		return nil, fmt.Errorf("cross-call de módulo no autorizado: %w", domain.ErrUnauthorized)
	}
	return applyGrant(accounts, events, target, entity.RoleVendor, true)
}

// SetVendorActive alterna el sub-flag de actividad de un vendor (admin-only).
// Falla si el rol del objetivo no es VENDOR.
func (uc *UseCase) SetVendorActive(ctx context.Context, caller, target string, active bool) error {
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunRegistry(ctx, func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		if err := gate.RequireAdmin(accounts, caller); err != nil {
			return err
		}
		acc, err := accounts.GetForUpdate(target)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrNotFound
		}
		if acc.Role != entity.RoleVendor {
			return domain.ErrInvalidState
		}
		if err := accounts.UpdateRole(target, entity.RoleVendor, active); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventVendorActiveChanged, rolePayload{
			Address: target, Role: string(entity.RoleVendor), VendorActive: active,
		})
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		return nil
	})
	if err != nil {
		return err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return nil
}

// RevokeRole regresa la cuenta objetivo a NONE (admin-only).
func (uc *UseCase) RevokeRole(ctx context.Context, caller, target string) error {
	return uc.revoke(ctx, caller, target, true)
}

// RenounceRole auto-servicio: el caller regresa su propio rol a NONE.
func (uc *UseCase) RenounceRole(ctx context.Context, caller string) error {
	return uc.revoke(ctx, caller, caller, false)
}

func (uc *UseCase) revoke(ctx context.Context, caller, target string, adminOnly bool) error {
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunRegistry(ctx, func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		if adminOnly {
			if err := gate.RequireAdmin(accounts, caller); err != nil {
				return err
			}
		}
		acc, err := accounts.GetForUpdate(target)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrNotFound
		}
		if acc.Role == entity.RoleNone {
			return domain.ErrInvalidState
		}
		if err := accounts.UpdateRole(target, entity.RoleNone, false); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventRoleRevoked, rolePayload{Address: target, Role: string(entity.RoleNone)})
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		return nil
	})
	if err != nil {
		return err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return nil
}

// SetOnboardingModule configura (una sola vez) la dirección autorizada para el
// cross-call de promoción a vendor. Admin-only; falla si ya está configurada.
func (uc *UseCase) SetOnboardingModule(ctx context.Context, caller, module string) error {
	if module == "" {
		return domain.ErrInvalidInput
	}
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunRegistry(ctx, func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		if err := gate.RequireAdmin(accounts, caller); err != nil {
			return err
		}
		existing, err := settings.Get(repository.SettingOnboardingModule)
		if err != nil {
			return err
		}
		if existing != "" {
			return domain.ErrInvalidState
		}
		if err := settings.Set(repository.SettingOnboardingModule, module); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventModuleConfigured, map[string]string{"module": module})
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		return nil
	})
	if err != nil {
		return err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return nil
}

// RoleOf query puntual del rol de una cuenta.
func (uc *UseCase) RoleOf(address string) (*dto.RoleResponse, error) {
	acc, err := uc.accounts.GetByAddress(address)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.RoleResponse{Address: acc.Address, Role: string(acc.Role), VendorActive: acc.VendorActive}, nil
}
