package repository

import "github.com/jhoicas/mercado-ledger/internal/domain/entity"

// ApplicationRepository puerto de persistencia para aplicaciones de vendor.
// Hay a lo sumo un registro por applicant; Upsert sobrescribe el existente.
type ApplicationRepository interface {
	GetByApplicant(applicant string) (*entity.VendorApplication, error)
	GetForUpdate(applicant string) (*entity.VendorApplication, error)
	Upsert(app *entity.VendorApplication) error
}
