package dto

// GrantRoleRequest otorga un rol a la cuenta indicada (admin-only).
type GrantRoleRequest struct {
	Address string `json:"address" validate:"required"`
}

// SetVendorActiveRequest suspende o reactiva la capacidad de venta de un vendor.
type SetVendorActiveRequest struct {
	Active bool `json:"active"`
}

// SetModuleRequest configura la dirección del módulo de onboarding (una sola vez).
type SetModuleRequest struct {
	Module string `json:"module" validate:"required"`
}

// RoleResponse rol actual de una cuenta.
type RoleResponse struct {
	Address      string `json:"address"`
	Role         string `json:"role"`
	VendorActive bool   `json:"vendor_active"`
}
