package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-ledger/internal/application/catalog"
	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/application/gate"
	"github.com/jhoicas/mercado-ledger/internal/application/ports"
	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// validTransitions máquina de estados de la orden, solo hacia adelante.
// CANCELLED es alcanzable únicamente desde PENDING y únicamente por el buyer
// (vía CancelOrder, nunca por UpdateStatus).
var validTransitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderPending:   {entity.OrderApproved},
	entity.OrderApproved:  {entity.OrderShipped},
	entity.OrderShipped:   {},
	entity.OrderCancelled: {},
}

func canTransition(from, to entity.OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// UseCase flujo de órdenes. Posee la capacidad de ajuste de inventario
// (adjustorKey) con la que invoca el decremento privilegiado del catálogo
// dentro de su propia transacción.
type UseCase struct {
	txRunner    TxRunner
	orders      repository.OrderRepository
	publisher   ports.EventPublisher
	adjustorKey string
}

// NewUseCase construye el caso de uso. adjustorKey debe coincidir con la
// dirección configurada en el catálogo vía SetInventoryAdjustor.
func NewUseCase(txRunner TxRunner, orders repository.OrderRepository, publisher ports.EventPublisher, adjustorKey string) *UseCase {
	return &UseCase{txRunner: txRunner, orders: orders, publisher: publisher, adjustorKey: adjustorKey}
}

type orderPayload struct {
	ID         int64           `json:"id"`
	Buyer      string          `json:"buyer,omitempty"`
	Vendor     string          `json:"vendor,omitempty"`
	ProductID  int64           `json:"product_id,omitempty"`
	Quantity   int64           `json:"quantity,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price,omitempty"`
	Status     string          `json:"status"`
}

// CreateOrder crea una orden para un client: valida producto activo y stock,
// toma el snapshot de vendor y totalPrice, debita al buyer, acredita al
// vendor y decrementa inventario, todo en una transacción. Si el decremento
// falla, la orden no existe.
func (uc *UseCase) CreateOrder(ctx context.Context, caller string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.Quantity <= 0 || in.MetadataURI == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *dto.OrderResponse
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunOrders(ctx, func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		if err := gate.RequireClient(accounts, caller); err != nil {
			return err
		}
		// Bloquea la fila del producto: dos órdenes concurrentes sobre el
		// mismo stock se serializan aquí y la segunda falla por stock.
		product, err := products.GetForUpdate(in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if !product.Active {
			return domain.ErrInvalidState
		}
		if in.Quantity > product.Quantity {
			return domain.ErrInsufficientStock
		}
		totalPrice := product.Price.Mul(decimal.NewFromInt(in.Quantity))

		buyer, err := accounts.GetForUpdate(caller)
		if err != nil {
			return err
		}
		if buyer == nil {
			return domain.ErrNotFound
		}
		if buyer.Balance.LessThan(totalPrice) {
			return domain.ErrInsufficientFunds
		}
		vendor, err := accounts.GetForUpdate(product.Vendor)
		if err != nil {
			return err
		}
		if vendor == nil {
			return domain.ErrTransferFailed
		}
		// Pago directo al vendor en la creación; la cancelación no reembolsa.
		if err := accounts.UpdateBalance(caller, buyer.Balance.Sub(totalPrice)); err != nil {
			return domain.ErrTransferFailed
		}
		if err := accounts.UpdateBalance(product.Vendor, vendor.Balance.Add(totalPrice)); err != nil {
			return domain.ErrTransferFailed
		}

		decEv, err := catalog.DecrementInventory(uc.adjustorKey, product, in.Quantity, products, settings, events)
		if err != nil {
			return err
		}

		now := time.Now()
		order := &entity.Order{
			Buyer:       caller,
			Vendor:      product.Vendor,
			ProductID:   product.ID,
			Quantity:    in.Quantity,
			TotalPrice:  totalPrice,
			Status:      entity.OrderPending,
			MetadataURI: in.MetadataURI,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := orders.Create(order); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventOrderCreated, orderPayload{
			ID: order.ID, Buyer: caller, Vendor: order.Vendor, ProductID: product.ID,
			Quantity: in.Quantity, TotalPrice: totalPrice, Status: string(entity.OrderPending),
		})
		if err != nil {
			return err
		}
		emitted = append(emitted, decEv, ev)
		out = toOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return out, nil
}

// UpdateStatus avanza el estado de la orden; solo el vendor de la orden o un
// admin, y solo transiciones hacia adelante (PENDING→APPROVED→SHIPPED).
func (uc *UseCase) UpdateStatus(ctx context.Context, caller string, orderID int64, status entity.OrderStatus) (*dto.OrderResponse, error) {
	switch status {
	case entity.OrderApproved, entity.OrderShipped:
	default:
		return nil, domain.ErrInvalidInput
	}
	var out *dto.OrderResponse
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunOrders(ctx, func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		order, err := orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Vendor != caller {
			isAdmin, err := gate.IsAdmin(accounts, caller)
			if err != nil {
				return err
			}
			if !isAdmin {
				return fmt.Errorf("solo el vendor de la orden o un admin pueden avanzar el estado: %w", domain.ErrForbidden)
			}
		}
		if !canTransition(order.Status, status) {
			return domain.ErrInvalidState
		}
		if err := orders.UpdateStatus(orderID, status); err != nil {
			return err
		}
		order.Status = status
		order.UpdatedAt = time.Now()
		ev, err := ports.AppendEvent(events, entity.EventOrderStatusUpdated, orderPayload{ID: orderID, Status: string(status)})
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		out = toOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return out, nil
}

// CancelOrder cancela una orden PENDING; solo el buyer. Un segundo intento
// falla porque el estado ya no es PENDING. No hay reembolso.
func (uc *UseCase) CancelOrder(ctx context.Context, caller string, orderID int64) error {
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunOrders(ctx, func(
		orders repository.OrderRepository,
		products repository.ProductRepository,
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		order, err := orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Buyer != caller {
			return fmt.Errorf("solo el buyer puede cancelar la orden: %w", domain.ErrForbidden)
		}
		if order.Status != entity.OrderPending {
			return domain.ErrInvalidState
		}
		if err := orders.UpdateStatus(orderID, entity.OrderCancelled); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventOrderCancelled, orderPayload{ID: orderID, Status: string(entity.OrderCancelled)})
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

// GetOrder query puntual; falla NotFound si no existe.
func (uc *UseCase) GetOrder(orderID int64) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order), nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:          o.ID,
		Buyer:       o.Buyer,
		Vendor:      o.Vendor,
		ProductID:   o.ProductID,
		Quantity:    o.Quantity,
		TotalPrice:  o.TotalPrice,
		Status:      string(o.Status),
		MetadataURI: o.MetadataURI,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
