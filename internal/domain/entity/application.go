package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplicationStatus estado de una aplicación de vendor.
// PENDING → {APPROVED | REJECTED}; desde REJECTED se puede re-aplicar.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// VendorApplication aplicación de onboarding con stake en escrow.
// Hay un registro por solicitante; re-aplicar sobrescribe el anterior cuando
// ya no está PENDING. El stake queda en escrow exactamente mientras el estado
// es PENDING: al aprobar pasa a tesorería, al rechazar se devuelve completo.
type VendorApplication struct {
	Applicant   string
	MetadataURI string
	Stake       decimal.Decimal
	Status      ApplicationStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
