package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyRequest aplicación de vendor. Payment debe coincidir exactamente con el
// stake requerido publicado.
type ApplyRequest struct {
	MetadataURI string          `json:"metadata_uri" validate:"required"`
	Payment     decimal.Decimal `json:"payment"`
}

// ApplicationResponse estado de la aplicación de un solicitante.
type ApplicationResponse struct {
	Applicant   string          `json:"applicant"`
	MetadataURI string          `json:"metadata_uri"`
	Stake       decimal.Decimal `json:"stake"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StakeResponse el stake requerido publicado.
type StakeResponse struct {
	RequiredStake decimal.Decimal `json:"required_stake"`
}

// WithdrawRequest retiro de tesorería hacia una cuenta (admin-only).
type WithdrawRequest struct {
	To     string          `json:"to" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// TreasuryResponse saldo acumulado de tesorería.
type TreasuryResponse struct {
	Balance decimal.Decimal `json:"balance"`
}
