package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest alta de cuenta. La cuenta nace con rol NONE y saldo 0.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountResponse estado visible de una cuenta.
type AccountResponse struct {
	Address      string          `json:"address"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	VendorActive bool            `json:"vendor_active"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LoginResponse token JWT más la cuenta.
type LoginResponse struct {
	Token   string          `json:"token"`
	Account AccountResponse `json:"account"`
}

// DepositRequest abono de saldo a la cuenta del caller.
type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
