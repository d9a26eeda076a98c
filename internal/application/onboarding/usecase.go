package onboarding

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/application/gate"
	"github.com/jhoicas/mercado-ledger/internal/application/ports"
	"github.com/jhoicas/mercado-ledger/internal/application/registry"
	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// UseCase onboarding de vendors: aplicaciones con stake en escrow, decisión
// de admin y tesorería. El stake queda retenido exactamente mientras la
// aplicación está PENDING; aprobar lo acumula en tesorería, rechazar lo
// devuelve completo en la misma transacción.
type UseCase struct {
	txRunner      TxRunner
	applications  repository.ApplicationRepository
	treasury      repository.TreasuryRepository
	accounts      repository.AccountRepository
	publisher     ports.EventPublisher
	requiredStake decimal.Decimal
	moduleKey     string // identidad de este módulo ante el registro de roles
}

// NewUseCase construye el caso de uso. moduleKey debe coincidir con la
// dirección configurada en el registro vía SetOnboardingModule.
func NewUseCase(
	txRunner TxRunner,
	applications repository.ApplicationRepository,
	treasury repository.TreasuryRepository,
	accounts repository.AccountRepository,
	publisher ports.EventPublisher,
	requiredStake decimal.Decimal,
	moduleKey string,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		applications:  applications,
		treasury:      treasury,
		accounts:      accounts,
		publisher:     publisher,
		requiredStake: requiredStake,
		moduleKey:     moduleKey,
	}
}

// RequiredStake el stake requerido publicado.
func (uc *UseCase) RequiredStake() decimal.Decimal {
	return uc.requiredStake
}

type applicationPayload struct {
	Applicant   string          `json:"applicant"`
	MetadataURI string          `json:"metadata_uri,omitempty"`
	Stake       decimal.Decimal `json:"stake"`
	Status      string          `json:"status"`
}

// Apply presenta una aplicación de vendor. El pago debe ser exactamente el
// stake requerido y se debita del saldo del solicitante hacia el escrow.
func (uc *UseCase) Apply(ctx context.Context, caller string, in dto.ApplyRequest) (*dto.ApplicationResponse, error) {
	if in.MetadataURI == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Payment.Equal(uc.requiredStake) {
		return nil, domain.ErrInvalidStake
	}
	var out *dto.ApplicationResponse
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunOnboarding(ctx, func(
		accounts repository.AccountRepository,
		applications repository.ApplicationRepository,
		settings repository.SettingsRepository,
		treasury repository.TreasuryRepository,
		events repository.EventRepository,
	) error {
		acc, err := accounts.GetForUpdate(caller)
		if err != nil {
			return err
		}
		if acc == nil {
			return domain.ErrNotFound
		}
		if acc.IsActiveVendor() {
			return domain.ErrAlreadyVendor
		}
		existing, err := applications.GetForUpdate(caller)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status == entity.ApplicationPending {
			return domain.ErrAlreadyPending
		}
		if acc.Balance.LessThan(in.Payment) {
			return domain.ErrInsufficientFunds
		}
		// Debita el stake hacia el escrow del módulo
		if err := accounts.UpdateBalance(caller, acc.Balance.Sub(in.Payment)); err != nil {
			return err
		}
		now := time.Now()
		app := &entity.VendorApplication{
			Applicant:   caller,
			MetadataURI: in.MetadataURI,
			Stake:       in.Payment,
			Status:      entity.ApplicationPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if existing != nil {
			app.CreatedAt = existing.CreatedAt
		}
		if err := applications.Upsert(app); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventApplicationFiled, applicationPayload{
			Applicant: caller, MetadataURI: in.MetadataURI, Stake: in.Payment, Status: string(entity.ApplicationPending),
		})
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		out = toApplicationResponse(app)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return out, nil
}

// Approve aprueba una aplicación PENDING (admin-only): promueve al solicitante
// a Vendor vía el cross-call privilegiado del registro y retiene el stake en
// tesorería. Todo en un único commit.
func (uc *UseCase) Approve(ctx context.Context, caller, applicant string) error {
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunOnboarding(ctx, func(
		accounts repository.AccountRepository,
		applications repository.ApplicationRepository,
		settings repository.SettingsRepository,
		treasury repository.TreasuryRepository,
		events repository.EventRepository,
	) error {
		if err := gate.RequireAdmin(accounts, caller); err != nil {
			return err
		}
		// Bloqueo cuenta → aplicación, el mismo orden que Apply.
		if _, err := accounts.GetForUpdate(applicant); err != nil {
			return err
		}
		app, err := applications.GetForUpdate(applicant)
		if err != nil {
			return err
		}
		if app == nil || app.Status != entity.ApplicationPending {
			return domain.ErrNotPending
		}
		grantEv, err := registry.GrantVendorFromModule(uc.moduleKey, applicant, accounts, settings, events)
		if err != nil {
			return err
		}
		balance, err := treasury.BalanceForUpdate()
		if err != nil {
			return err
		}
		if err := treasury.SetBalance(balance.Add(app.Stake)); err != nil {
			return err
		}
		app.Status = entity.ApplicationApproved
		app.UpdatedAt = time.Now()
		if err := applications.Upsert(app); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventApplicationApproved, applicationPayload{
			Applicant: applicant, Stake: app.Stake, Status: string(entity.ApplicationApproved),
		})
		if err != nil {
			return err
		}
		emitted = append(emitted, grantEv, ev)
		return nil
	})
	if err != nil {
		return err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return nil
}

// Reject rechaza una aplicación PENDING (admin-only) devolviendo el stake
// completo al solicitante. El reembolso y el cambio de estado son atómicos:
// si el abono no puede aplicarse, toda la operación se revierte.
func (uc *UseCase) Reject(ctx context.Context, caller, applicant string) error {
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunOnboarding(ctx, func(
		accounts repository.AccountRepository,
		applications repository.ApplicationRepository,
		settings repository.SettingsRepository,
		treasury repository.TreasuryRepository,
		events repository.EventRepository,
	) error {
		if err := gate.RequireAdmin(accounts, caller); err != nil {
			return err
		}
		// Bloqueo cuenta → aplicación, el mismo orden que Apply.
		acc, err := accounts.GetForUpdate(applicant)
		if err != nil {
			return err
		}
		app, err := applications.GetForUpdate(applicant)
		if err != nil {
			return err
		}
		if app == nil || app.Status != entity.ApplicationPending {
			return domain.ErrNotPending
		}
		if acc == nil {
			return domain.ErrTransferFailed
		}
		refund := app.Stake
		if err := accounts.UpdateBalance(applicant, acc.Balance.Add(refund)); err != nil {
			return domain.ErrTransferFailed
		}
		app.Status = entity.ApplicationRejected
		app.Stake = decimal.Zero
		app.UpdatedAt = time.Now()
		if err := applications.Upsert(app); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventApplicationRejected, applicationPayload{
			Applicant: applicant, Stake: refund, Status: string(entity.ApplicationRejected),
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

// WithdrawTreasury retira fondos acumulados (no en escrow) hacia una cuenta.
func (uc *UseCase) WithdrawTreasury(ctx context.Context, caller, to string, amount decimal.Decimal) error {
	if to == "" || !amount.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunOnboarding(ctx, func(
		accounts repository.AccountRepository,
		applications repository.ApplicationRepository,
		settings repository.SettingsRepository,
		treasury repository.TreasuryRepository,
		events repository.EventRepository,
	) error {
		if err := gate.RequireAdmin(accounts, caller); err != nil {
			return err
		}
		// Bloqueo cuenta → tesorería, consistente con el resto del módulo.
		acc, err := accounts.GetForUpdate(to)
		if err != nil {
			return err
		}
		balance, err := treasury.BalanceForUpdate()
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}
		if acc == nil {
			return domain.ErrNotFound
		}
		if err := treasury.SetBalance(balance.Sub(amount)); err != nil {
			return err
		}
		if err := accounts.UpdateBalance(to, acc.Balance.Add(amount)); err != nil {
			return domain.ErrTransferFailed
		}
		ev, err := ports.AppendEvent(events, entity.EventTreasuryWithdrawn, map[string]any{
			"to": to, "amount": amount,
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

// GetApplication query puntual de la aplicación de un solicitante.
func (uc *UseCase) GetApplication(applicant string) (*dto.ApplicationResponse, error) {
	app, err := uc.applications.GetByApplicant(applicant)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}
	return toApplicationResponse(app), nil
}

// TreasuryBalance saldo actual de tesorería (admin-only).
func (uc *UseCase) TreasuryBalance(caller string) (*dto.TreasuryResponse, error) {
	if err := gate.RequireAdmin(uc.accounts, caller); err != nil {
		return nil, err
	}
	balance, err := uc.treasury.Balance()
	if err != nil {
		return nil, err
	}
	return &dto.TreasuryResponse{Balance: balance}, nil
}

func toApplicationResponse(app *entity.VendorApplication) *dto.ApplicationResponse {
	return &dto.ApplicationResponse{
		Applicant:   app.Applicant,
		MetadataURI: app.MetadataURI,
		Stake:       app.Stake,
		Status:      string(app.Status),
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}
}
