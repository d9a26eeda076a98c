package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/application/ports"
	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
	"github.com/jhoicas/mercado-ledger/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase cuentas del ledger: alta (la cuenta nace con rol NONE y saldo 0),
// login y abono de saldo. La identidad del caller en cada transacción es la
// address del claim del JWT; el rol se lee en vivo del registro, nunca del token.
type UseCase struct {
	txRunner  TxRunner
	accounts  repository.AccountRepository
	publisher ports.EventPublisher
	jwtCfg    JWTConfig
}

// NewUseCase construye el caso de uso de cuentas.
func NewUseCase(txRunner TxRunner, accounts repository.AccountRepository, publisher ports.EventPublisher, jwtCfg JWTConfig) *UseCase {
	return &UseCase{txRunner: txRunner, accounts: accounts, publisher: publisher, jwtCfg: jwtCfg}
}

// Register crea la cuenta: address nueva, hash bcrypt, rol NONE, saldo 0.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AccountResponse, error) {
	if in.Email == "" || len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.accounts.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	account := &entity.Account{
		Address:      uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleNone,
		VendorActive: false,
		Balance:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var emitted []*entity.LedgerEvent
	err = uc.txRunner.RunAccounts(ctx, func(
		accounts repository.AccountRepository,
		events repository.EventRepository,
	) error {
		if err := accounts.Create(account); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventAccountRegistered, map[string]string{"address": account.Address})
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return toAccountResponse(account), nil
}

// Login verifica credenciales y genera el JWT con la address como sujeto.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := uc.accounts.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, account.Address, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Account: *toAccountResponse(account)}, nil
}

// Deposit abona saldo a la cuenta del caller. Sustituye el fondeo nativo de
// la cadena; el on-ramp real queda fuera del núcleo.
func (uc *UseCase) Deposit(ctx context.Context, caller string, amount decimal.Decimal) (*dto.AccountResponse, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.AccountResponse
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunAccounts(ctx, func(
		accounts repository.AccountRepository,
		events repository.EventRepository,
	) error {
		account, err := accounts.GetForUpdate(caller)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		account.Balance = account.Balance.Add(amount)
		if err := accounts.UpdateBalance(caller, account.Balance); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventAccountDeposited, map[string]any{
			"address": caller, "amount": amount,
		})
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		out = toAccountResponse(account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return out, nil
}

// Me devuelve la cuenta del caller.
func (uc *UseCase) Me(caller string) (*dto.AccountResponse, error) {
	account, err := uc.accounts.GetByAddress(caller)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}
	return toAccountResponse(account), nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		Address:      a.Address,
		Email:        a.Email,
		Role:         string(a.Role),
		VendorActive: a.VendorActive,
		Balance:      a.Balance,
		CreatedAt:    a.CreatedAt,
	}
}
