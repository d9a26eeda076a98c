package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/mercado-ledger/internal/domain/entity"
	"github.com/jhoicas/mercado-ledger/internal/domain/repository"
)

var _ repository.ApplicationRepository = (*ApplicationRepo)(nil)

// ApplicationRepo implementación del puerto ApplicationRepository sobre
// PostgreSQL (usable con pool o tx).
type ApplicationRepo struct {
	q Querier
}

// NewApplicationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApplicationRepository(q Querier) *ApplicationRepo {
	return &ApplicationRepo{q: q}
}

const applicationColumns = `applicant, metadata_uri, stake, status, created_at, updated_at`

func scanApplication(row pgx.Row) (*entity.VendorApplication, error) {
	var a entity.VendorApplication
	err := row.Scan(&a.Applicant, &a.MetadataURI, &a.Stake, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	return &a, nil
}

// GetByApplicant obtiene la aplicación de un solicitante. (nil, nil) si no existe.
func (r *ApplicationRepo) GetByApplicant(applicant string) (*entity.VendorApplication, error) {
	return scanApplication(r.q.QueryRow(context.Background(),
		`SELECT `+applicationColumns+` FROM vendor_applications WHERE applicant = $1`, applicant))
}

// GetForUpdate bloquea la fila de la aplicación (SELECT FOR UPDATE).
func (r *ApplicationRepo) GetForUpdate(applicant string) (*entity.VendorApplication, error) {
	return scanApplication(r.q.QueryRow(context.Background(),
		`SELECT `+applicationColumns+` FROM vendor_applications WHERE applicant = $1 FOR UPDATE`, applicant))
}

// Upsert inserta o sobrescribe la aplicación del solicitante (un registro por
// applicant).
func (r *ApplicationRepo) Upsert(app *entity.VendorApplication) error {
	query := `
		INSERT INTO vendor_applications (applicant, metadata_uri, stake, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (applicant) DO UPDATE
		SET metadata_uri = EXCLUDED.metadata_uri, stake = EXCLUDED.stake,
		    status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		app.Applicant, app.MetadataURI, app.Stake, app.Status, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert application: %w", err)
	}
	return nil
}
