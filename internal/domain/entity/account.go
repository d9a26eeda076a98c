package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role rol de una cuenta en el registro. Es mutuamente exclusivo: una cuenta
// tiene a lo sumo uno de {Admin, Vendor, Client} a la vez.
type Role string

const (
	RoleNone   Role = "NONE"
	RoleAdmin  Role = "ADMIN"
	RoleVendor Role = "VENDOR"
	RoleClient Role = "CLIENT"
)

// Account cuenta del ledger: identidad (address), credenciales, rol y saldo.
// VendorActive solo tiene significado cuando Role = VENDOR y se limpia en
// cualquier transición fuera de ese rol.
type Account struct {
	Address      string // UUID asignado al registrarse
	Email        string
	PasswordHash string // bcrypt, nunca plano después de persistir
	Role         Role
	VendorActive bool
	Balance      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActiveVendor indica si la cuenta puede vender: rol Vendor Y flag activo.
func (a *Account) IsActiveVendor() bool {
	return a.Role == RoleVendor && a.VendorActive
}
