package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tms-settlements/internal/domain/entity"
	"github.com/jhoicas/tms-settlements/internal/domain/repository"
)

var _ repository.DriverRepository = (*DriverRepo)(nil)

// Los nombres viven en users; el conductor puede no tener usuario vinculado.
const driverSelect = `
	SELECT d.id, d.company_id, COALESCE(d.user_id::text, ''), d.driver_number, d.status,
	       d.pay_type, d.pay_rate, COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
	       d.deleted_at, d.created_at, d.updated_at
	  FROM drivers d
	  LEFT JOIN users u ON u.id = d.user_id`

// DriverRepo implementación de DriverRepository (solo lectura).
type DriverRepo struct {
	q Querier
}

// NewDriverRepository construye el adaptador.
func NewDriverRepository(q Querier) *DriverRepo {
	return &DriverRepo{q: q}
}

// GetByID obtiene un conductor por ID (incluye borrados; el llamador decide).
func (r *DriverRepo) GetByID(ctx context.Context, id string) (*entity.Driver, error) {
	d, err := scanDriver(r.q.QueryRow(ctx, driverSelect+` WHERE d.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver: %w", err)
	}
	return d, nil
}

// ListActiveByCompany conductores no borrados de la empresa con estado en statuses.
func (r *DriverRepo) ListActiveByCompany(ctx context.Context, companyID string, statuses []string) ([]*entity.Driver, error) {
	query := driverSelect + `
	 WHERE d.company_id = $1
	   AND d.deleted_at IS NULL
	   AND d.status = ANY($2)
	 ORDER BY d.driver_number, d.id`
	rows, err := r.q.Query(ctx, query, companyID, statuses)
	if err != nil {
		return nil, fmt.Errorf("list active drivers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanDriver(row pgx.Row) (*entity.Driver, error) {
	var d entity.Driver
	if err := row.Scan(
		&d.ID, &d.CompanyID, &d.UserID, &d.DriverNumber, &d.Status,
		&d.PayType, &d.PayRate, &d.FirstName, &d.LastName,
		&d.DeletedAt, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
