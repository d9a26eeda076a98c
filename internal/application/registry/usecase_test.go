package registry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mercado-ledger/internal/application/registry"
	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
	"github.com/jhoicas/mercado-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	addrAdmin   = "00000000-0000-0000-0000-00000000000a"
	addrVendor  = "00000000-0000-0000-0000-00000000000b"
	addrClient  = "00000000-0000-0000-0000-00000000000c"
	addrNone    = "00000000-0000-0000-0000-00000000000d"
	addrMissing = "00000000-0000-0000-0000-0000000000ff"
)

// buildRegistry construye el caso de uso sobre el store en memoria con un
// admin, un vendor activo, un client y una cuenta sin rol ya sembrados.
func buildRegistry(t *testing.T) (*registry.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	seedAccount(t, store, addrAdmin, "admin@ledger.test", entity.RoleAdmin, false)
	seedAccount(t, store, addrVendor, "vendor@ledger.test", entity.RoleVendor, true)
	seedAccount(t, store, addrClient, "client@ledger.test", entity.RoleClient, false)
	seedAccount(t, store, addrNone, "none@ledger.test", entity.RoleNone, false)
	uc := registry.NewUseCase(store, store.Accounts(), nil)
	return uc, store
}

func seedAccount(t *testing.T, store *memory.Store, address, email string, role entity.Role, vendorActive bool) {
	t.Helper()
	require.NoError(t, store.Accounts().Create(&entity.Account{
		Address:      address,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		VendorActive: vendorActive,
		Balance:      decimal.Zero,
	}))
}

func roleOf(t *testing.T, store *memory.Store, address string) *entity.Account {
	t.Helper()
	acc, err := store.Accounts().GetByAddress(address)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterClient
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterClient_DesdeNone(t *testing.T) {
	uc, store := buildRegistry(t)

	require.NoError(t, uc.RegisterClient(context.Background(), addrNone))

	acc := roleOf(t, store, addrNone)
	assert.Equal(t, entity.RoleClient, acc.Role, "la cuenta debe quedar con rol CLIENT")
	assert.False(t, acc.VendorActive)
}

func TestRegisterClient_YaRegistrado_Falla(t *testing.T) {
	uc, _ := buildRegistry(t)

	err := uc.RegisterClient(context.Background(), addrClient)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered,
		"un client no puede volver a registrarse")

	err = uc.RegisterClient(context.Background(), addrVendor)
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered,
		"una cuenta con cualquier rol distinto de NONE no puede auto-registrarse")
}

func TestRegisterClient_CuentaInexistente_Falla(t *testing.T) {
	uc, _ := buildRegistry(t)

	err := uc.RegisterClient(context.Background(), addrMissing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Grants (admin-only, force-set)
// ──────────────────────────────────────────────────────────────────────────────

func TestGrantAdmin_PorAdmin(t *testing.T) {
	uc, store := buildRegistry(t)

	require.NoError(t, uc.GrantAdmin(context.Background(), addrAdmin, addrNone))
	assert.Equal(t, entity.RoleAdmin, roleOf(t, store, addrNone).Role)
}

func TestGrantAdmin_PorNoAdmin_Falla(t *testing.T) {
	uc, store := buildRegistry(t)

	err := uc.GrantAdmin(context.Background(), addrClient, addrNone)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, entity.RoleNone, roleOf(t, store, addrNone).Role,
		"el rol no debe cambiar cuando el guard rechaza")
}

func TestGrantVendor_ForceSetSobreClient(t *testing.T) {
	uc, store := buildRegistry(t)

	// Los roles son mutuamente exclusivos: el grant sobrescribe el rol previo.
	require.NoError(t, uc.GrantVendor(context.Background(), addrAdmin, addrClient))

	acc := roleOf(t, store, addrClient)
	assert.Equal(t, entity.RoleVendor, acc.Role)
	assert.True(t, acc.VendorActive, "un vendor otorgado directamente nace activo")
}

func TestGrant_ObjetivoInexistente_Falla(t *testing.T) {
	uc, _ := buildRegistry(t)

	err := uc.GrantVendor(context.Background(), addrAdmin, addrMissing)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetVendorActive
// ──────────────────────────────────────────────────────────────────────────────

func TestSetVendorActive_SuspenderYReactivar(t *testing.T) {
	uc, store := buildRegistry(t)

	require.NoError(t, uc.SetVendorActive(context.Background(), addrAdmin, addrVendor, false))
	acc := roleOf(t, store, addrVendor)
	assert.Equal(t, entity.RoleVendor, acc.Role, "suspender no quita el rol")
	assert.False(t, acc.VendorActive)

	require.NoError(t, uc.SetVendorActive(context.Background(), addrAdmin, addrVendor, true))
	assert.True(t, roleOf(t, store, addrVendor).VendorActive)
}

func TestSetVendorActive_SobreNoVendor_Falla(t *testing.T) {
	uc, _ := buildRegistry(t)

	err := uc.SetVendorActive(context.Background(), addrAdmin, addrClient, false)
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"el flag de actividad solo tiene sentido sobre un VENDOR")
}

// ──────────────────────────────────────────────────────────────────────────────
// Revoke / Renounce
// ──────────────────────────────────────────────────────────────────────────────

func TestRevokeRole_LimpiaVendorActive(t *testing.T) {
	uc, store := buildRegistry(t)

	require.NoError(t, uc.RevokeRole(context.Background(), addrAdmin, addrVendor))

	acc := roleOf(t, store, addrVendor)
	assert.Equal(t, entity.RoleNone, acc.Role)
	assert.False(t, acc.VendorActive, "salir del rol VENDOR limpia el sub-flag")
}

func TestRenounceRole_PropioRol(t *testing.T) {
	uc, store := buildRegistry(t)

	require.NoError(t, uc.RenounceRole(context.Background(), addrClient))
	assert.Equal(t, entity.RoleNone, roleOf(t, store, addrClient).Role)
}

func TestRenounceRole_SinRol_Falla(t *testing.T) {
	uc, _ := buildRegistry(t)

	err := uc.RenounceRole(context.Background(), addrNone)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRevokeRole_PorNoAdmin_Falla(t *testing.T) {
	uc, _ := buildRegistry(t)

	err := uc.RevokeRole(context.Background(), addrClient, addrVendor)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// SetOnboardingModule — configuración de una sola vez
// ──────────────────────────────────────────────────────────────────────────────

func TestSetOnboardingModule_SoloUnaVez(t *testing.T) {
	uc, _ := buildRegistry(t)

	require.NoError(t, uc.SetOnboardingModule(context.Background(), addrAdmin, "modulo-onboarding"))

	err := uc.SetOnboardingModule(context.Background(), addrAdmin, "otro-modulo")
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"la clave del módulo es de un solo set, incluso para un admin")
}

func TestSetOnboardingModule_PorNoAdmin_Falla(t *testing.T) {
	uc, _ := buildRegistry(t)

	err := uc.SetOnboardingModule(context.Background(), addrVendor, "modulo-onboarding")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// GrantVendorFromModule — cross-call privilegiado
// ──────────────────────────────────────────────────────────────────────────────

func TestGrantVendorFromModule_ClaveCorrecta(t *testing.T) {
	uc, store := buildRegistry(t)
	require.NoError(t, uc.SetOnboardingModule(context.Background(), addrAdmin, "modulo-onboarding"))

	err := store.RunRegistry(context.Background(), func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		_, err := registry.GrantVendorFromModule("modulo-onboarding", addrClient, accounts, settings, events)
		return err
	})
	require.NoError(t, err)

	acc := roleOf(t, store, addrClient)
	assert.Equal(t, entity.RoleVendor, acc.Role)
	assert.True(t, acc.VendorActive)
}

func TestGrantVendorFromModule_ClaveIncorrecta_Falla(t *testing.T) {
	uc, store := buildRegistry(t)
	require.NoError(t, uc.SetOnboardingModule(context.Background(), addrAdmin, "modulo-onboarding"))

	err := store.RunRegistry(context.Background(), func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		_, err := registry.GrantVendorFromModule("impostor", addrClient, accounts, settings, events)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, entity.RoleClient, roleOf(t, store, addrClient).Role,
		"la transacción se revierte y el rol queda intacto")
}

func TestGrantVendorFromModule_SinClaveConfigurada_Falla(t *testing.T) {
	_, store := buildRegistry(t)

	err := store.RunRegistry(context.Background(), func(
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		_, err := registry.GrantVendorFromModule("modulo-onboarding", addrClient, accounts, settings, events)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized,
		"sin clave configurada nadie puede invocar el cross-call")
}

// ──────────────────────────────────────────────────────────────────────────────
// Log de eventos
// ──────────────────────────────────────────────────────────────────────────────

func TestMutaciones_EmitenEventos(t *testing.T) {
	uc, store := buildRegistry(t)

	require.NoError(t, uc.RegisterClient(context.Background(), addrNone))
	require.NoError(t, uc.GrantAdmin(context.Background(), addrAdmin, addrNone))
	require.NoError(t, uc.RevokeRole(context.Background(), addrAdmin, addrNone))

	evs, err := store.Events().ListAfter(0, 10)
	require.NoError(t, err)
	require.Len(t, evs, 3)
	assert.Equal(t, entity.EventRoleGranted, evs[0].Type)
	assert.Equal(t, entity.EventRoleGranted, evs[1].Type)
	assert.Equal(t, entity.EventRoleRevoked, evs[2].Type)
	assert.Equal(t, int64(1), evs[0].ID, "los IDs del log son secuenciales desde 1")
	assert.Equal(t, int64(3), evs[2].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guards dentro de la transacción
// ──────────────────────────────────────────────────────────────────────────────

func TestGuard_LeeRolVigente_TrasRevocacion(t *testing.T) {
	uc, store := buildRegistry(t)

	require.NoError(t, uc.GrantAdmin(context.Background(), addrAdmin, addrNone))
	require.NoError(t, uc.RenounceRole(context.Background(), addrNone))

	err := uc.GrantVendor(context.Background(), addrNone, addrClient)
	assert.ErrorIs(t, err, domain.ErrUnauthorized,
		"el guard relee el rol dentro de la transacción: un admin que renunció ya no puede")
	assert.Equal(t, entity.RoleClient, roleOf(t, store, addrClient).Role)
}

// Grants y revocaciones en paralelo sobre la misma cuenta: cada operación (y
// su guard) corre completa bajo la serialización del store, así que el
// registro termina en uno de los dos estados finales alcanzables. Con -race
// verifica además que ninguna lectura escapa al mutex.
func TestMutacionesConcurrentes_GuardsSerializados(t *testing.T) {
	uc, store := buildRegistry(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = uc.GrantVendor(context.Background(), addrAdmin, addrNone)
		}()
		go func() {
			defer wg.Done()
			// ErrInvalidState si el otro goroutine aún no otorgó nada.
			_ = uc.RevokeRole(context.Background(), addrAdmin, addrNone)
		}()
	}
	wg.Wait()

	acc := roleOf(t, store, addrNone)
	assert.Contains(t, []entity.Role{entity.RoleVendor, entity.RoleNone}, acc.Role,
		"tras el entrelazado el rol es uno de los dos estados finales posibles")
	if acc.Role == entity.RoleNone {
		assert.False(t, acc.VendorActive, "NONE nunca conserva el flag de vendor")
	}
}
