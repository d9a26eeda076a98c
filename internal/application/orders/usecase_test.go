package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mercado-ledger/internal/application/catalog"
	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/application/onboarding"
	"github.com/jhoicas/mercado-ledger/internal/application/orders"
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
	addrBuyer   = "00000000-0000-0000-0000-00000000000c"
	adjustorKey = "componente-ordenes"
)

type fixture struct {
	store   *memory.Store
	orders  *orders.UseCase
	catalog *catalog.UseCase
}

// buildOrders deja el mercado listo para ordenar: vendor activo con un
// producto publicado (precio 10, stock 5) y un buyer CLIENT con saldo 100.
func buildOrders(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Accounts().Create(&entity.Account{
		Address: addrAdmin, Email: "admin@ledger.test", PasswordHash: "x",
		Role: entity.RoleAdmin, Balance: decimal.Zero,
	}))
	require.NoError(t, store.Accounts().Create(&entity.Account{
		Address: addrVendor, Email: "vendor@ledger.test", PasswordHash: "x",
		Role: entity.RoleVendor, VendorActive: true, Balance: decimal.Zero,
	}))
	require.NoError(t, store.Accounts().Create(&entity.Account{
		Address: addrBuyer, Email: "buyer@ledger.test", PasswordHash: "x",
		Role: entity.RoleClient, Balance: decimal.NewFromInt(100),
	}))
	require.NoError(t, store.Settings().Set(repository.SettingInventoryAdjustor, adjustorKey))

	f := &fixture{
		store:   store,
		orders:  orders.NewUseCase(store, store.Orders(), nil, adjustorKey),
		catalog: catalog.NewUseCase(store, store.Products(), nil),
	}
	_, err := f.catalog.CreateProduct(context.Background(), addrVendor, dto.CreateProductRequest{
		MetadataURI: "ipfs://producto", Price: decimal.NewFromInt(10), Quantity: 5,
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) balance(t *testing.T, address string) decimal.Decimal {
	t.Helper()
	acc, err := f.store.Accounts().GetByAddress(address)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc.Balance
}

func (f *fixture) stock(t *testing.T, productID int64) int64 {
	t.Helper()
	p, err := f.store.Products().GetByID(productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) createOrder(t *testing.T, quantity int64) *dto.OrderResponse {
	t.Helper()
	out, err := f.orders.CreateOrder(context.Background(), addrBuyer, dto.CreateOrderRequest{
		ProductID: 1, Quantity: quantity, MetadataURI: "ipfs://envio",
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateOrder_PagaDescuentaYCongela(t *testing.T) {
	f := buildOrders(t)

	out := f.createOrder(t, 3)

	assert.Equal(t, int64(1), out.ID, "la primera orden recibe el ID 1")
	assert.Equal(t, string(entity.OrderPending), out.Status)
	assert.Equal(t, addrVendor, out.Vendor, "el vendor se copia del producto al crear")
	assert.True(t, out.TotalPrice.Equal(decimal.NewFromInt(30)), "total = precio × cantidad")

	assert.Equal(t, int64(2), f.stock(t, 1), "la orden descuenta el stock")
	assert.True(t, f.balance(t, addrBuyer).Equal(decimal.NewFromInt(70)), "el buyer paga al crear")
	assert.True(t, f.balance(t, addrVendor).Equal(decimal.NewFromInt(30)), "el vendor cobra al crear")
}

func TestCreateOrder_SoloClient(t *testing.T) {
	f := buildOrders(t)

	_, err := f.orders.CreateOrder(context.Background(), addrVendor, dto.CreateOrderRequest{
		ProductID: 1, Quantity: 1, MetadataURI: "ipfs://envio",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un vendor no puede ordenar")

	_, err = f.orders.CreateOrder(context.Background(), addrAdmin, dto.CreateOrderRequest{
		ProductID: 1, Quantity: 1, MetadataURI: "ipfs://envio",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un admin tampoco")
}

func TestCreateOrder_StockInsuficiente_NoTocaNada(t *testing.T) {
	f := buildOrders(t)

	_, err := f.orders.CreateOrder(context.Background(), addrBuyer, dto.CreateOrderRequest{
		ProductID: 1, Quantity: 6, MetadataURI: "ipfs://envio",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(5), f.stock(t, 1))
	assert.True(t, f.balance(t, addrBuyer).Equal(decimal.NewFromInt(100)),
		"una orden fallida no mueve saldos")
	_, err = f.orders.GetOrder(1)
	assert.ErrorIs(t, err, domain.ErrNotFound, "la orden no llega a existir")
}

func TestCreateOrder_SaldoInsuficiente_NoTocaNada(t *testing.T) {
	f := buildOrders(t)
	require.NoError(t, f.store.Accounts().UpdateBalance(addrBuyer, decimal.NewFromInt(5)))

	_, err := f.orders.CreateOrder(context.Background(), addrBuyer, dto.CreateOrderRequest{
		ProductID: 1, Quantity: 1, MetadataURI: "ipfs://envio",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	assert.Equal(t, int64(5), f.stock(t, 1), "el stock no se descuenta si el pago falla")
	assert.True(t, f.balance(t, addrVendor).IsZero())
}

func TestCreateOrder_ProductoDespublicado_Falla(t *testing.T) {
	f := buildOrders(t)
	require.NoError(t, f.catalog.SetProductActive(context.Background(), addrVendor, 1, false))

	_, err := f.orders.CreateOrder(context.Background(), addrBuyer, dto.CreateOrderRequest{
		ProductID: 1, Quantity: 1, MetadataURI: "ipfs://envio",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateOrder_ProductoInexistente_Falla(t *testing.T) {
	f := buildOrders(t)

	_, err := f.orders.CreateOrder(context.Background(), addrBuyer, dto.CreateOrderRequest{
		ProductID: 99, Quantity: 1, MetadataURI: "ipfs://envio",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateOrder_EntradaInvalida(t *testing.T) {
	f := buildOrders(t)

	_, err := f.orders.CreateOrder(context.Background(), addrBuyer, dto.CreateOrderRequest{
		ProductID: 1, Quantity: 0, MetadataURI: "ipfs://envio",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.CreateOrder(context.Background(), addrBuyer, dto.CreateOrderRequest{
		ProductID: 1, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateOrder_TotalPriceInmutable(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 2) // total 20 con precio 10

	// El vendor sube el precio después; la orden conserva su snapshot.
	_, err := f.catalog.UpdateProduct(context.Background(), addrVendor, 1, dto.UpdateProductRequest{
		MetadataURI: "ipfs://producto", Price: decimal.NewFromInt(99), Quantity: 3,
	})
	require.NoError(t, err)

	got, err := f.orders.GetOrder(out.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalPrice.Equal(decimal.NewFromInt(20)),
		"el total de la orden nunca se recalcula")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus — transiciones solo hacia adelante
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_FlujoCompleto(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 1)

	got, err := f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderApproved)
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderApproved), got.Status)

	got, err = f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderShipped)
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderShipped), got.Status)
}

func TestUpdateStatus_SaltoDeEstado_Falla(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 1)

	_, err := f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderShipped)
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"PENDING no puede saltar directo a SHIPPED")
}

func TestUpdateStatus_RetrocesoOCancelacion_Rechazados(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 1)
	_, err := f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderApproved)
	require.NoError(t, err)

	// PENDING y CANCELLED no son destinos válidos de UpdateStatus.
	_, err = f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderPending)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"cancelar va por CancelOrder, nunca por UpdateStatus")
}

func TestUpdateStatus_SoloVendorDeLaOrdenOAdmin(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 1)

	_, err := f.orders.UpdateStatus(context.Background(), addrBuyer, out.ID, entity.OrderApproved)
	assert.ErrorIs(t, err, domain.ErrForbidden, "el buyer no avanza estados")

	got, err := f.orders.UpdateStatus(context.Background(), addrAdmin, out.ID, entity.OrderApproved)
	require.NoError(t, err, "un admin sí puede avanzar la orden")
	assert.Equal(t, string(entity.OrderApproved), got.Status)
}

func TestUpdateStatus_TerminalShipped(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 1)
	_, err := f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderApproved)
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderShipped)
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderShipped)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "SHIPPED es terminal")
}

// ──────────────────────────────────────────────────────────────────────────────
// CancelOrder
// ──────────────────────────────────────────────────────────────────────────────

func TestCancelOrder_SoloBuyerYSoloPendiente(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 2)

	err := f.orders.CancelOrder(context.Background(), addrVendor, out.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "ni el vendor ni un admin cancelan órdenes")

	require.NoError(t, f.orders.CancelOrder(context.Background(), addrBuyer, out.ID))
	got, err := f.orders.GetOrder(out.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderCancelled), got.Status)
}

func TestCancelOrder_SinReembolso(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 2) // paga 20

	require.NoError(t, f.orders.CancelOrder(context.Background(), addrBuyer, out.ID))

	assert.True(t, f.balance(t, addrBuyer).Equal(decimal.NewFromInt(80)),
		"cancelar no devuelve el pago")
	assert.True(t, f.balance(t, addrVendor).Equal(decimal.NewFromInt(20)))
	assert.Equal(t, int64(3), f.stock(t, 1), "cancelar tampoco repone stock")
}

func TestCancelOrder_SegundaVez_Falla(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 1)
	require.NoError(t, f.orders.CancelOrder(context.Background(), addrBuyer, out.ID))

	err := f.orders.CancelOrder(context.Background(), addrBuyer, out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState,
		"la segunda cancelación falla porque la orden ya no está PENDING")
}

func TestCancelOrder_DespuesDeAprobar_Falla(t *testing.T) {
	f := buildOrders(t)
	out := f.createOrder(t, 1)
	_, err := f.orders.UpdateStatus(context.Background(), addrVendor, out.ID, entity.OrderApproved)
	require.NoError(t, err)

	err = f.orders.CancelOrder(context.Background(), addrBuyer, out.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario de punta a punta: onboarding → catálogo → orden
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenarioCompleto_DeAplicacionAOrdenEnviada(t *testing.T) {
	const (
		moduleKey     = "modulo-onboarding"
		addrAspirante = "00000000-0000-0000-0000-0000000000e1"
	)
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Accounts().Create(&entity.Account{
		Address: addrAdmin, Email: "admin@ledger.test", PasswordHash: "x",
		Role: entity.RoleAdmin, Balance: decimal.Zero,
	}))
	require.NoError(t, store.Accounts().Create(&entity.Account{
		Address: addrAspirante, Email: "aspirante@ledger.test", PasswordHash: "x",
		Role: entity.RoleNone, Balance: decimal.NewFromInt(10),
	}))
	require.NoError(t, store.Accounts().Create(&entity.Account{
		Address: addrBuyer, Email: "buyer@ledger.test", PasswordHash: "x",
		Role: entity.RoleNone, Balance: decimal.NewFromInt(50),
	}))

	registryUC := registry.NewUseCase(store, store.Accounts(), nil)
	onboardingUC := onboarding.NewUseCase(
		store, store.Applications(), store.Treasury(), store.Accounts(), nil,
		decimal.NewFromInt(5), moduleKey,
	)
	catalogUC := catalog.NewUseCase(store, store.Products(), nil)
	ordersUC := orders.NewUseCase(store, store.Orders(), nil, adjustorKey)

	// El admin configura las claves de capacidad.
	require.NoError(t, registryUC.SetOnboardingModule(ctx, addrAdmin, moduleKey))
	require.NoError(t, catalogUC.SetInventoryAdjustor(ctx, addrAdmin, adjustorKey))

	// El aspirante aplica y es aprobado: queda vendor activo.
	_, err := onboardingUC.Apply(ctx, addrAspirante, dto.ApplyRequest{
		MetadataURI: "ipfs://perfil", Payment: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	require.NoError(t, onboardingUC.Approve(ctx, addrAdmin, addrAspirante))

	// Publica un producto.
	p, err := catalogUC.CreateProduct(ctx, addrAspirante, dto.CreateProductRequest{
		MetadataURI: "ipfs://cafe", Price: decimal.NewFromInt(4), Quantity: 10,
	})
	require.NoError(t, err)

	// El comprador se registra como client y ordena.
	require.NoError(t, registryUC.RegisterClient(ctx, addrBuyer))
	order, err := ordersUC.CreateOrder(ctx, addrBuyer, dto.CreateOrderRequest{
		ProductID: p.ID, Quantity: 3, MetadataURI: "ipfs://envio",
	})
	require.NoError(t, err)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(12)))

	// El vendor despacha.
	_, err = ordersUC.UpdateStatus(ctx, addrAspirante, order.ID, entity.OrderApproved)
	require.NoError(t, err)
	_, err = ordersUC.UpdateStatus(ctx, addrAspirante, order.ID, entity.OrderShipped)
	require.NoError(t, err)

	// Contabilidad final del escenario.
	buyer, _ := store.Accounts().GetByAddress(addrBuyer)
	vendor, _ := store.Accounts().GetByAddress(addrAspirante)
	treasury, _ := store.Treasury().Balance()
	assert.True(t, buyer.Balance.Equal(decimal.NewFromInt(38)), "50 - 12 de la orden")
	assert.True(t, vendor.Balance.Equal(decimal.NewFromInt(17)), "10 - 5 de stake + 12 de la venta")
	assert.True(t, treasury.Equal(decimal.NewFromInt(5)), "el stake aprobado vive en tesorería")

	prod, _ := store.Products().GetByID(p.ID)
	assert.Equal(t, int64(7), prod.Quantity)

	// El log registra cada transición del escenario en orden.
	evs, err := store.Events().ListAfter(0, 100)
	require.NoError(t, err)
	var tipos []string
	for _, ev := range evs {
		tipos = append(tipos, ev.Type)
	}
	assert.Equal(t, []string{
		entity.EventModuleConfigured,
		entity.EventAdjustorConfigured,
		entity.EventApplicationFiled,
		entity.EventRoleGranted,
		entity.EventApplicationApproved,
		entity.EventProductCreated,
		entity.EventRoleGranted,
		entity.EventInventoryDecreased,
		entity.EventOrderCreated,
		entity.EventOrderStatusUpdated,
		entity.EventOrderStatusUpdated,
	}, tipos)
}
