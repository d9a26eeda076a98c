package entity

import (
	"encoding/json"
	"time"
)

// Tipos de evento emitidos en cada transición de estado. Los indexadores
// externos reconstruyen listados completos a partir de este log más queries
// puntuales.
const (
	EventAccountRegistered   = "account.registered"
	EventAccountDeposited    = "account.deposited"
	EventRoleGranted         = "role.granted"
	EventRoleRevoked         = "role.revoked"
	EventVendorActiveChanged = "vendor.active_changed"
	EventModuleConfigured    = "registry.module_configured"
	EventAdjustorConfigured  = "catalog.adjustor_configured"
	EventApplicationFiled    = "application.filed"
	EventApplicationApproved = "application.approved"
	EventApplicationRejected = "application.rejected"
	EventTreasuryWithdrawn   = "treasury.withdrawn"
	EventProductCreated      = "product.created"
	EventProductUpdated      = "product.updated"
	EventProductActiveSet    = "product.active_changed"
	EventInventoryDecreased  = "product.inventory_decreased"
	EventOrderCreated        = "order.created"
	EventOrderStatusUpdated  = "order.status_updated"
	EventOrderCancelled      = "order.cancelled"
)

// LedgerEvent entrada del log de eventos. El ID es secuencial y lo asigna el
// almacén al persistir, dentro de la misma transacción que la mutación.
type LedgerEvent struct {
	ID        int64
	Type      string
	Payload   json.RawMessage
	EmittedAt time.Time
}
