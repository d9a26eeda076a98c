package memory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// Los repos devuelven copias: las entidades en el store solo mutan a través
// de los métodos del repositorio, igual que las filas en postgres. El flag
// inTx marca los repos entregados por Run*, que ya corren bajo el mutex; los
// repos de los accessors toman el mutex en cada acceso.

type accountRepo struct {
	s    *Store
	inTx bool
}

var _ repository.AccountRepository = (*accountRepo)(nil)

func (r *accountRepo) Create(account *entity.Account) error {
	defer r.s.enter(r.inTx)()
	for _, a := range r.s.accounts {
		if a.Email == account.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	// Inserta los timestamps tal cual, como el INSERT de postgres.
	r.s.accounts[account.Address] = *account
	return nil
}

func (r *accountRepo) GetByAddress(address string) (*entity.Account, error) {
	defer r.s.enter(r.inTx)()
	a, ok := r.s.accounts[address]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *accountRepo) GetByEmail(email string) (*entity.Account, error) {
	defer r.s.enter(r.inTx)()
	for _, a := range r.s.accounts {
		if a.Email == email {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *accountRepo) GetForUpdate(address string) (*entity.Account, error) {
	// El mutex del store ya serializa; mismo contrato que el SELECT FOR UPDATE.
	defer r.s.enter(r.inTx)()
	a, ok := r.s.accounts[address]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *accountRepo) UpdateRole(address string, role entity.Role, vendorActive bool) error {
	defer r.s.enter(r.inTx)()
	a, ok := r.s.accounts[address]
	if !ok {
		return domain.ErrNotFound
	}
	a.Role = role
	a.VendorActive = vendorActive
	a.UpdatedAt = time.Now()
	r.s.accounts[address] = a
	return nil
}

func (r *accountRepo) UpdateBalance(address string, balance decimal.Decimal) error {
	defer r.s.enter(r.inTx)()
	a, ok := r.s.accounts[address]
	if !ok {
		return domain.ErrNotFound
	}
	if balance.IsNegative() {
		return domain.ErrInsufficientFunds
	}
	a.Balance = balance
	a.UpdatedAt = time.Now()
	r.s.accounts[address] = a
	return nil
}

type applicationRepo struct {
	s    *Store
	inTx bool
}

var _ repository.ApplicationRepository = (*applicationRepo)(nil)

func (r *applicationRepo) GetByApplicant(applicant string) (*entity.VendorApplication, error) {
	defer r.s.enter(r.inTx)()
	app, ok := r.s.applications[applicant]
	if !ok {
		return nil, nil
	}
	return &app, nil
}

func (r *applicationRepo) GetForUpdate(applicant string) (*entity.VendorApplication, error) {
	defer r.s.enter(r.inTx)()
	app, ok := r.s.applications[applicant]
	if !ok {
		return nil, nil
	}
	return &app, nil
}

func (r *applicationRepo) Upsert(app *entity.VendorApplication) error {
	defer r.s.enter(r.inTx)()
	// created_at no se toca en el conflicto, como el ON CONFLICT de postgres.
	if existing, ok := r.s.applications[app.Applicant]; ok {
		app.CreatedAt = existing.CreatedAt
	}
	r.s.applications[app.Applicant] = *app
	return nil
}

type productRepo struct {
	s    *Store
	inTx bool
}

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) Create(p *entity.Product) error {
	defer r.s.enter(r.inTx)()
	r.s.nextProductID++
	p.ID = r.s.nextProductID
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(id int64) (*entity.Product, error) {
	defer r.s.enter(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetForUpdate(id int64) (*entity.Product, error) {
	defer r.s.enter(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) Update(p *entity.Product) error {
	defer r.s.enter(r.inTx)()
	existing, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	r.s.products[p.ID] = *p
	return nil
}

func (r *productRepo) SetActive(id int64, active bool) error {
	defer r.s.enter(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Active = active
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return nil
}

func (r *productRepo) UpdateQuantity(id int64, quantity int64) error {
	defer r.s.enter(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		return domain.ErrInsufficientStock
	}
	p.Quantity = quantity
	p.UpdatedAt = time.Now()
	r.s.products[id] = p
	return nil
}

type orderRepo struct {
	s    *Store
	inTx bool
}

var _ repository.OrderRepository = (*orderRepo)(nil)

func (r *orderRepo) Create(o *entity.Order) error {
	defer r.s.enter(r.inTx)()
	r.s.nextOrderID++
	o.ID = r.s.nextOrderID
	r.s.orders[o.ID] = *o
	return nil
}

func (r *orderRepo) GetByID(id int64) (*entity.Order, error) {
	defer r.s.enter(r.inTx)()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *orderRepo) GetForUpdate(id int64) (*entity.Order, error) {
	defer r.s.enter(r.inTx)()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *orderRepo) UpdateStatus(id int64, status entity.OrderStatus) error {
	defer r.s.enter(r.inTx)()
	o, ok := r.s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.s.orders[id] = o
	return nil
}

type eventRepo struct {
	s    *Store
	inTx bool
}

var _ repository.EventRepository = (*eventRepo)(nil)

func (r *eventRepo) Append(ev *entity.LedgerEvent) error {
	defer r.s.enter(r.inTx)()
	r.s.nextEventID++
	ev.ID = r.s.nextEventID
	ev.EmittedAt = time.Now()
	r.s.events = append(r.s.events, *ev)
	return nil
}

func (r *eventRepo) ListAfter(afterID int64, limit int) ([]*entity.LedgerEvent, error) {
	defer r.s.enter(r.inTx)()
	out := make([]*entity.LedgerEvent, 0, limit)
	for i := range r.s.events {
		if r.s.events[i].ID <= afterID {
			continue
		}
		cp := r.s.events[i]
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type settingsRepo struct {
	s    *Store
	inTx bool
}

var _ repository.SettingsRepository = (*settingsRepo)(nil)

func (r *settingsRepo) Get(key string) (string, error) {
	defer r.s.enter(r.inTx)()
	return r.s.settings[key], nil
}

func (r *settingsRepo) Set(key, value string) error {
	defer r.s.enter(r.inTx)()
	r.s.settings[key] = value
	return nil
}

type treasuryRepo struct {
	s    *Store
	inTx bool
}

var _ repository.TreasuryRepository = (*treasuryRepo)(nil)

func (r *treasuryRepo) Balance() (decimal.Decimal, error) {
	defer r.s.enter(r.inTx)()
	return r.s.treasury, nil
}

func (r *treasuryRepo) BalanceForUpdate() (decimal.Decimal, error) {
	defer r.s.enter(r.inTx)()
	return r.s.treasury, nil
}

func (r *treasuryRepo) SetBalance(balance decimal.Decimal) error {
	defer r.s.enter(r.inTx)()
	if balance.IsNegative() {
		return domain.ErrInsufficientFunds
	}
	r.s.treasury = balance
	return nil
}
