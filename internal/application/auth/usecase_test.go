package auth_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mercado-ledger/internal/application/auth"
	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/mercado-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testJWT = auth.JWTConfig{
	Secret:     "test-secret-key-for-unit-tests",
	ExpMinutes: 60,
	Issuer:     "mercado-ledger-test",
}

func buildAuth(t *testing.T) (*auth.UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return auth.NewUseCase(store, store.Accounts(), nil, testJWT), store
}

func register(t *testing.T, uc *auth.UseCase, email string) *dto.AccountResponse {
	t.Helper()
	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: email, Password: "supersecreta",
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_NaceSinRolYSinSaldo(t *testing.T) {
	uc, store := buildAuth(t)

	out := register(t, uc, "ana@ledger.test")

	assert.NotEmpty(t, out.Address, "el alta asigna una address nueva")
	assert.Equal(t, string(entity.RoleNone), out.Role, "la cuenta nace con rol NONE")
	assert.True(t, out.Balance.IsZero())

	acc, err := store.Accounts().GetByAddress(out.Address)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.NotEqual(t, "supersecreta", acc.PasswordHash, "nunca se persiste el password plano")
}

func TestRegister_PasswordCorto_Falla(t *testing.T) {
	uc, _ := buildAuth(t)

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ana@ledger.test", Password: "corta",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_EmailDuplicado_Falla(t *testing.T) {
	uc, _ := buildAuth(t)
	register(t, uc, "ana@ledger.test")

	_, err := uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ana@ledger.test", Password: "otraclave123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_TokenPortaLaAddress(t *testing.T) {
	uc, _ := buildAuth(t)
	registered := register(t, uc, "ana@ledger.test")

	out, err := uc.Login(dto.LoginRequest{Email: "ana@ledger.test", Password: "supersecreta"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	address, err := pkgjwt.Parse(testJWT.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.Address, address,
		"el claim del token es la address; el rol se lee del registro, no del token")
}

func TestLogin_PasswordIncorrecto_Falla(t *testing.T) {
	uc, _ := buildAuth(t)
	register(t, uc, "ana@ledger.test")

	_, err := uc.Login(dto.LoginRequest{Email: "ana@ledger.test", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_EmailInexistente_Falla(t *testing.T) {
	uc, _ := buildAuth(t)

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@ledger.test", Password: "loquesea1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Deposit / Me
// ──────────────────────────────────────────────────────────────────────────────

func TestDeposit_AcumulaSaldo(t *testing.T) {
	uc, _ := buildAuth(t)
	registered := register(t, uc, "ana@ledger.test")

	out, err := uc.Deposit(context.Background(), registered.Address, decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.True(t, out.Balance.Equal(decimal.NewFromInt(25)))

	out, err = uc.Deposit(context.Background(), registered.Address, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, out.Balance.Equal(decimal.NewFromInt(35)))
}

func TestDeposit_MontoNoPositivo_Falla(t *testing.T) {
	uc, _ := buildAuth(t)
	registered := register(t, uc, "ana@ledger.test")

	_, err := uc.Deposit(context.Background(), registered.Address, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Deposit(context.Background(), registered.Address, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeposit_CuentaInexistente_Falla(t *testing.T) {
	uc, _ := buildAuth(t)

	_, err := uc.Deposit(context.Background(), "no-existe", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMe_DevuelveLaCuenta(t *testing.T) {
	uc, _ := buildAuth(t)
	registered := register(t, uc, "ana@ledger.test")

	out, err := uc.Me(registered.Address)
	require.NoError(t, err)
	assert.Equal(t, "ana@ledger.test", out.Email)

	_, err = uc.Me("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
