// Package memory implementa los puertos de persistencia sobre mapas en
// memoria con semántica all-or-nothing: cada Run* toma un snapshot del estado
// y lo restaura si el callback falla. Un mutex global serializa las
// mutaciones, igual que el log serial del ledger. Lo usan los tests de los
// casos de uso; no requiere PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-ledger/internal/application/auth"
	"github.com/jhoicas/mercado-ledger/internal/application/catalog"
	"github.com/jhoicas/mercado-ledger/internal/application/onboarding"
	"github.com/jhoicas/mercado-ledger/internal/application/orders"
	"github.com/jhoicas/mercado-ledger/internal/application/registry"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

var _ auth.TxRunner = (*Store)(nil)
var _ registry.TxRunner = (*Store)(nil)
var _ onboarding.TxRunner = (*Store)(nil)
var _ catalog.TxRunner = (*Store)(nil)
var _ orders.TxRunner = (*Store)(nil)

// Store estado completo del ledger en memoria.
type Store struct {
	mu sync.Mutex

	accounts     map[string]entity.Account // por address
	applications map[string]entity.VendorApplication
	products     map[int64]entity.Product
	orders       map[int64]entity.Order
	events       []entity.LedgerEvent
	settings     map[string]string
	treasury     decimal.Decimal

	nextProductID int64
	nextOrderID   int64
	nextEventID   int64
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]entity.Account),
		applications: make(map[string]entity.VendorApplication),
		products:     make(map[int64]entity.Product),
		orders:       make(map[int64]entity.Order),
		settings:     make(map[string]string),
		treasury:     decimal.Zero,
	}
}

type snapshot struct {
	accounts      map[string]entity.Account
	applications  map[string]entity.VendorApplication
	products      map[int64]entity.Product
	orders        map[int64]entity.Order
	events        []entity.LedgerEvent
	settings      map[string]string
	treasury      decimal.Decimal
	nextProductID int64
	nextOrderID   int64
	nextEventID   int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		accounts:      make(map[string]entity.Account, len(s.accounts)),
		applications:  make(map[string]entity.VendorApplication, len(s.applications)),
		products:      make(map[int64]entity.Product, len(s.products)),
		orders:        make(map[int64]entity.Order, len(s.orders)),
		events:        append([]entity.LedgerEvent(nil), s.events...),
		settings:      make(map[string]string, len(s.settings)),
		treasury:      s.treasury,
		nextProductID: s.nextProductID,
		nextOrderID:   s.nextOrderID,
		nextEventID:   s.nextEventID,
	}
	for k, v := range s.accounts {
		snap.accounts[k] = v
	}
	for k, v := range s.applications {
		snap.applications[k] = v
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.settings {
		snap.settings[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.applications = snap.applications
	s.products = snap.products
	s.orders = snap.orders
	s.events = snap.events
	s.settings = snap.settings
	s.treasury = snap.treasury
	s.nextProductID = snap.nextProductID
	s.nextOrderID = snap.nextOrderID
	s.nextEventID = snap.nextEventID
}

// run serializa la operación y restaura el snapshot si fn falla.
func (s *Store) run(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// enter toma el mutex para accesos fuera de Run*; dentro de una transacción el
// mutex ya lo sostiene run, y el mutex no es reentrante.
func (s *Store) enter(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// RunAccounts implementa auth.TxRunner.
func (s *Store) RunAccounts(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	events repository.EventRepository,
) error) error {
	return s.run(func() error {
		return fn(&accountRepo{s: s, inTx: true}, &eventRepo{s: s, inTx: true})
	})
}

// RunRegistry implementa registry.TxRunner.
func (s *Store) RunRegistry(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	settings repository.SettingsRepository,
	events repository.EventRepository,
) error) error {
	return s.run(func() error {
		return fn(&accountRepo{s: s, inTx: true}, &settingsRepo{s: s, inTx: true}, &eventRepo{s: s, inTx: true})
	})
}

// RunOnboarding implementa onboarding.TxRunner.
func (s *Store) RunOnboarding(ctx context.Context, fn func(
	accounts repository.AccountRepository,
	applications repository.ApplicationRepository,
	settings repository.SettingsRepository,
	treasury repository.TreasuryRepository,
	events repository.EventRepository,
) error) error {
	return s.run(func() error {
		return fn(&accountRepo{s: s, inTx: true}, &applicationRepo{s: s, inTx: true},
			&settingsRepo{s: s, inTx: true}, &treasuryRepo{s: s, inTx: true}, &eventRepo{s: s, inTx: true})
	})
}

// RunCatalog implementa catalog.TxRunner.
func (s *Store) RunCatalog(ctx context.Context, fn func(
	products repository.ProductRepository,
	accounts repository.AccountRepository,
	settings repository.SettingsRepository,
	events repository.EventRepository,
) error) error {
	return s.run(func() error {
		return fn(&productRepo{s: s, inTx: true}, &accountRepo{s: s, inTx: true},
			&settingsRepo{s: s, inTx: true}, &eventRepo{s: s, inTx: true})
	})
}

// RunOrders implementa orders.TxRunner.
func (s *Store) RunOrders(ctx context.Context, fn func(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	accounts repository.AccountRepository,
	settings repository.SettingsRepository,
	events repository.EventRepository,
) error) error {
	return s.run(func() error {
		return fn(&orderRepo{s: s, inTx: true}, &productRepo{s: s, inTx: true},
			&accountRepo{s: s, inTx: true}, &settingsRepo{s: s, inTx: true}, &eventRepo{s: s, inTx: true})
	})
}

// Accounts repositorio de cuentas atado al store (para queries fuera de tx).
func (s *Store) Accounts() repository.AccountRepository { return &accountRepo{s: s} }

// Applications repositorio de aplicaciones atado al store.
func (s *Store) Applications() repository.ApplicationRepository { return &applicationRepo{s: s} }

// Products repositorio de productos atado al store.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Orders repositorio de órdenes atado al store.
func (s *Store) Orders() repository.OrderRepository { return &orderRepo{s: s} }

// Events repositorio del log de eventos atado al store.
func (s *Store) Events() repository.EventRepository { return &eventRepo{s: s} }

// Settings repositorio de configuración privilegiada atado al store.
func (s *Store) Settings() repository.SettingsRepository { return &settingsRepo{s: s} }

// Treasury repositorio de tesorería atado al store.
func (s *Store) Treasury() repository.TreasuryRepository { return &treasuryRepo{s: s} }
