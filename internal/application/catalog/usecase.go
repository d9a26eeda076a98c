package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/mercado-ledger/internal/application/dto"
	"github.com/jhoicas/mercado-ledger/internal/application/gate"
	"github.com/jhoicas/mercado-ledger/internal/application/ports"
	"github.com/jhoicas/mercado-ledger/internal/domain"
	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

// UseCase catálogo de productos por vendor. El único camino de decremento de
// inventario es la capacidad de ajuste (DecrementInventory) que posee el
// componente de órdenes, no el admin genérico.
type UseCase struct {
	txRunner  TxRunner
	products  repository.ProductRepository
	publisher ports.EventPublisher
}

// NewUseCase construye el caso de uso del catálogo.
func NewUseCase(txRunner TxRunner, products repository.ProductRepository, publisher ports.EventPublisher) *UseCase {
	return &UseCase{txRunner: txRunner, products: products, publisher: publisher}
}

type productPayload struct {
	ID       int64           `json:"id"`
	Vendor   string          `json:"vendor,omitempty"`
	Price    decimal.Decimal `json:"price,omitempty"`
	Quantity int64           `json:"quantity"`
	Active   bool            `json:"active"`
}

func validateProductInput(metadataURI string, price decimal.Decimal, quantity int64) error {
	if metadataURI == "" || !price.GreaterThan(decimal.Zero) || quantity <= 0 {
		return domain.ErrInvalidInput
	}
	return nil
}

// CreateProduct crea un producto con el siguiente ID secuencial (vendor activo).
func (uc *UseCase) CreateProduct(ctx context.Context, caller string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateProductInput(in.MetadataURI, in.Price, in.Quantity); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		Vendor:      caller,
		MetadataURI: in.MetadataURI,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunCatalog(ctx, func(
		products repository.ProductRepository,
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		if err := gate.RequireActiveVendor(accounts, caller); err != nil {
			return err
		}
		if err := products.Create(product); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventProductCreated, productPayload{
			ID: product.ID, Vendor: caller, Price: in.Price, Quantity: in.Quantity, Active: true,
		})
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
	return toProductResponse(product), nil
}

// UpdateProduct sobrescribe los campos mutables; solo el vendor dueño.
func (uc *UseCase) UpdateProduct(ctx context.Context, caller string, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validateProductInput(in.MetadataURI, in.Price, in.Quantity); err != nil {
		return nil, err
	}
	var out *dto.ProductResponse
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunCatalog(ctx, func(
		products repository.ProductRepository,
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		product, err := products.GetForUpdate(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.Vendor != caller {
			return fmt.Errorf("solo el vendor dueño puede actualizar el producto: %w", domain.ErrForbidden)
		}
		product.MetadataURI = in.MetadataURI
		product.Price = in.Price
		product.Quantity = in.Quantity
		product.UpdatedAt = time.Now()
		if err := products.Update(product); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventProductUpdated, productPayload{
			ID: id, Vendor: product.Vendor, Price: in.Price, Quantity: in.Quantity, Active: product.Active,
		})
		if err != nil {
			return err
		}
		emitted = append(emitted, ev)
		out = toProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	ports.PublishCommitted(ctx, uc.publisher, emitted)
	return out, nil
}

// SetProductActive alterna la publicación; vendor dueño o admin, independiente
// del nivel de stock.
func (uc *UseCase) SetProductActive(ctx context.Context, caller string, id int64, active bool) error {
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunCatalog(ctx, func(
		products repository.ProductRepository,
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		product, err := products.GetForUpdate(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.Vendor != caller {
			isAdmin, err := gate.IsAdmin(accounts, caller)
			if err != nil {
				return err
			}
			if !isAdmin {
				return fmt.Errorf("solo el vendor dueño o un admin pueden cambiar el flag: %w", domain.ErrForbidden)
			}
		}
		if err := products.SetActive(id, active); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventProductActiveSet, productPayload{
			ID: id, Vendor: product.Vendor, Quantity: product.Quantity, Active: active,
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

// DecrementInventory camino único y privilegiado de decremento de stock,
// usado por la colocación de órdenes. adjustorKey debe coincidir con la
// dirección configurada como ajustador de inventario; corre sobre los repos
// de la transacción del llamador. La fila del producto debe venir ya
// bloqueada (GetForUpdate) por quien invoca.
func DecrementInventory(
	adjustorKey string,
	product *entity.Product,
	quantity int64,
	products repository.ProductRepository,
	settings repository.SettingsRepository,
	events repository.EventRepository,
) (*entity.LedgerEvent, error) {
	configured, err := settings.Get(repository.SettingInventoryAdjustor)
	if err != nil {
		return nil, err
	}
	if configured == "" || configured != adjustorKey {
		return nil, fmt.Errorf("ajuste de inventario no autorizado: %w", domain.ErrUnauthorized)
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if quantity > product.Quantity {
		return nil, domain.ErrInsufficientStock
	}
	newQuantity := product.Quantity - quantity
	if err := products.UpdateQuantity(product.ID, newQuantity); err != nil {
		return nil, err
	}
	product.Quantity = newQuantity
	return ports.AppendEvent(events, entity.EventInventoryDecreased, productPayload{
		ID: product.ID, Vendor: product.Vendor, Quantity: newQuantity, Active: product.Active,
	})
}

// SetInventoryAdjustor configura la dirección autorizada para el ajuste
// privilegiado de inventario (la posee el componente de órdenes). Admin-only.
func (uc *UseCase) SetInventoryAdjustor(ctx context.Context, caller, adjustor string) error {
	if adjustor == "" {
		return domain.ErrInvalidInput
	}
	var emitted []*entity.LedgerEvent
	err := uc.txRunner.RunCatalog(ctx, func(
		products repository.ProductRepository,
		accounts repository.AccountRepository,
		settings repository.SettingsRepository,
		events repository.EventRepository,
	) error {
		if err := gate.RequireAdmin(accounts, caller); err != nil {
			return err
		}
		if err := settings.Set(repository.SettingInventoryAdjustor, adjustor); err != nil {
			return err
		}
		ev, err := ports.AppendEvent(events, entity.EventAdjustorConfigured, map[string]string{"adjustor": adjustor})
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

// GetProduct query puntual; falla NotFound si no existe.
func (uc *UseCase) GetProduct(id int64) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// ProductPrice precio unitario actual del producto.
func (uc *UseCase) ProductPrice(id int64) (decimal.Decimal, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	return product.Price, nil
}

// ProductAvailable existe AND activo AND stock > 0.
func (uc *UseCase) ProductAvailable(id int64) (*dto.ProductAvailabilityResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	available := product != nil && product.Available()
	return &dto.ProductAvailabilityResponse{ID: id, Available: available}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Vendor:      p.Vendor,
		MetadataURI: p.MetadataURI,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
